package devpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/bootstick/pkg/devpath"
)

func TestResolve(t *testing.T) {
	r := devpath.NewFromTable(map[string]string{
		"C:": `\Device\HarddiskVolume1`,
		"E:": `\Device\HarddiskVolume3`,
	})

	path, err := r.Resolve("E:")
	require.NoError(t, err)
	assert.Equal(t, `\Device\HarddiskVolume3`, path)

	// repeated calls within a session return the same path
	again, err := r.Resolve("E:")
	require.NoError(t, err)
	assert.Equal(t, path, again)

	// letter case does not matter
	lower, err := r.Resolve("e:")
	require.NoError(t, err)
	assert.Equal(t, path, lower)
}

func TestResolveUnmapped(t *testing.T) {
	r := devpath.NewFromTable(map[string]string{})

	_, err := r.Resolve("Q:")
	var noMapping *devpath.NoDeviceMappingError
	require.ErrorAs(t, err, &noMapping)
	assert.Equal(t, "Q:", noMapping.DriveLetter)
}

func TestResolveRejectsNonQualifier(t *testing.T) {
	r := devpath.NewFromTable(map[string]string{
		"E:": `\Device\HarddiskVolume3`,
	})

	for _, input := range []string{"", "E", `E:\`, `E:\sources`, "3:", "EF:"} {
		_, err := r.Resolve(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestSplit(t *testing.T) {
	qualifier, rest, err := devpath.Split(`E:\sources\boot.wim`)
	require.NoError(t, err)
	assert.Equal(t, "E:", qualifier)
	assert.Equal(t, `\sources\boot.wim`, rest)
}

func TestSplitVolumeRoot(t *testing.T) {
	qualifier, rest, err := devpath.Split("E:")
	require.NoError(t, err)
	assert.Equal(t, "E:", qualifier)
	assert.Equal(t, `\`, rest)
}

func TestSplitInvalid(t *testing.T) {
	for _, input := range []string{"", `\sources\boot.wim`, `sources\boot.wim`, `E:sources`, "3:"} {
		_, _, err := devpath.Split(input)
		assert.Error(t, err, "input %q", input)
	}
}

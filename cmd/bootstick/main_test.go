package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/bootstick/internal/testbcd"
	"github.com/osbuild/bootstick/pkg/bcd"
	"github.com/osbuild/bootstick/pkg/devpath"
	"github.com/osbuild/bootstick/pkg/installdisk"
)

func TestShowDisk(t *testing.T) {
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(old) })

	fake := testbcd.New()
	require.NoError(t, fake.CreateStore(`Y:\boot\bcd`))
	d := &installdisk.InstallDisk{BootVolume: "Y:", InstallerVolume: "Z:"}

	resolver := devpath.NewFromTable(map[string]string{"Z:": `\Device\HarddiskVolume3`})
	store, err := bcd.OpenStore(fake, `Y:\boot\bcd`)
	require.NoError(t, err)
	require.NoError(t, bcd.SetBootManagerTimeout(store, 10))
	require.NoError(t, bcd.SetBootManagerMenu(store, true))
	require.NoError(t, bcd.AddBootEntry(fake, d.StorePaths(), "Windows Setup", `Z:\sources\boot.wim`, devpath.Split, resolver))

	var buf bytes.Buffer
	require.NoError(t, showDisk(&buf, fake, d))

	output := buf.String()
	assert.Contains(t, output, `store Y:\boot\bcd`)
	assert.Contains(t, output, "timeout: 10s")
	assert.Contains(t, output, "menu: true")
	assert.Contains(t, output, "1. Windows Setup {")
}

func TestShowDiskNoStores(t *testing.T) {
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(old) })

	fake := testbcd.New()
	d := &installdisk.InstallDisk{BootVolume: "Y:", InstallerVolume: "Z:"}

	var buf bytes.Buffer
	err = showDisk(&buf, fake, d)
	assert.ErrorContains(t, err, "no configuration stores")
}

//go:build windows

package bcd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// wmiService drives the system's BcdStore WMI provider through
// powershell.exe, with ConvertTo-Json as the bridge format. Every method is
// a synchronous subprocess call; there is no connection state to hold.
type wmiService struct {
	shell string
}

// NewService returns the platform store service.
func NewService() (Service, error) {
	return &wmiService{shell: "powershell.exe"}, nil
}

// psOpenStore binds $s to the opened store. %s is the quoted store path.
const psOpenStore = `$b=Get-WmiObject -List -Namespace root\wmi -Class BcdStore -EnableAllPrivileges;` +
	`$r=$b.OpenStore(%s);if(-not $r.ReturnValue){throw 'OpenStore failed'};$s=$r.Store;`

func (w *wmiService) run(script string) ([]byte, error) {
	logrus.Debugf("bcd: powershell: %s", script)
	cmd := exec.Command(w.shell, "-NoProfile", "-NonInteractive", "-Command", script)
	output, err := cmd.Output()
	if err != nil {
		if e, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("store service call failed: %w\nstderr:\n%s", e, e.Stderr)
		}
		return nil, fmt.Errorf("store service call failed: %w", err)
	}
	return bytes.TrimSpace(output), nil
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func psGUID(id uuid.UUID) string {
	return psQuote(fmt.Sprintf("{%s}", id))
}

func parseGUIDList(data []byte) ([]uuid.UUID, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding object id list %q: %w", data, err)
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("decoding object id %q: %w", r, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (w *wmiService) StoreExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	script := fmt.Sprintf(
		`$b=Get-WmiObject -List -Namespace root\wmi -Class BcdStore -EnableAllPrivileges;`+
			`$r=$b.OpenStore(%s);ConvertTo-Json $r.ReturnValue -Compress`,
		psQuote(path))
	output, err := w.run(script)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := json.Unmarshal(output, &ok); err != nil {
		return false, fmt.Errorf("decoding open result %q: %w", output, err)
	}
	return ok, nil
}

func (w *wmiService) EnumerateObjects(storePath string, objectType uint32) ([]uuid.UUID, error) {
	script := fmt.Sprintf(psOpenStore+
		`$r=$s.EnumerateObjects(0x%08x);if(-not $r.ReturnValue){throw 'EnumerateObjects failed'};`+
		`ConvertTo-Json @($r.Objects | ForEach-Object { $_.Id }) -Compress`,
		psQuote(storePath), objectType)
	output, err := w.run(script)
	if err != nil {
		return nil, err
	}
	return parseGUIDList(output)
}

func (w *wmiService) ObjectExists(storePath string, id uuid.UUID) (bool, error) {
	script := fmt.Sprintf(psOpenStore+
		`$r=$s.OpenObject(%s);ConvertTo-Json $r.ReturnValue -Compress`,
		psQuote(storePath), psGUID(id))
	output, err := w.run(script)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := json.Unmarshal(output, &ok); err != nil {
		return false, fmt.Errorf("decoding open result %q: %w", output, err)
	}
	return ok, nil
}

func (w *wmiService) CopyObject(targetStorePath, sourceStorePath string, sourceID uuid.UUID) ([]uuid.UUID, error) {
	script := fmt.Sprintf(psOpenStore+
		`$r=$s.CopyObject(%s,%s,0);if(-not $r.ReturnValue){throw 'CopyObject failed'};`+
		`ConvertTo-Json @($r.Object | ForEach-Object { $_.Id }) -Compress`,
		psQuote(targetStorePath), psQuote(sourceStorePath), psGUID(sourceID))
	output, err := w.run(script)
	if err != nil {
		return nil, err
	}
	return parseGUIDList(output)
}

// wmiElement mirrors the JSON shape of the provider's element variants. The
// populated field depends on the element code's format.
type wmiElement struct {
	Integer *uint64    `json:"Integer"`
	Boolean *bool      `json:"Boolean"`
	String  *string    `json:"String"`
	Ids     []string   `json:"Ids"`
	Device  *wmiDevice `json:"Device"`
}

type wmiDevice struct {
	DeviceType uint32     `json:"DeviceType"`
	Path       string     `json:"Path"`
	Parent     *wmiDevice `json:"Parent"`
}

func (d *wmiDevice) device() *Device {
	if d == nil {
		return nil
	}
	return &Device{
		Type:   DeviceType(d.DeviceType),
		Path:   d.Path,
		Parent: d.Parent.device(),
	}
}

func (w *wmiService) GetElement(storePath string, objectID uuid.UUID, code ElementCode) (Element, bool, error) {
	script := fmt.Sprintf(psOpenStore+
		`$o=$s.OpenObject(%s);if(-not $o.ReturnValue){throw 'OpenObject failed'};`+
		`$r=$o.Object.GetElement(0x%08x);`+
		`if(-not $r.ReturnValue){Write-Output 'null'}else{ConvertTo-Json $r.Element -Depth 8 -Compress}`,
		psQuote(storePath), psGUID(objectID), uint32(code))
	output, err := w.run(script)
	if err != nil {
		return Element{}, false, err
	}
	if string(output) == "null" {
		return Element{}, false, nil
	}

	var raw wmiElement
	if err := json.Unmarshal(output, &raw); err != nil {
		return Element{}, false, fmt.Errorf("decoding element %s %q: %w", code, output, err)
	}

	switch code.Format() {
	case FormatInteger:
		if raw.Integer == nil {
			return Element{}, false, fmt.Errorf("element %s has no integer value", code)
		}
		/* #nosec G115 */
		return NewIntegerElement(code, int64(*raw.Integer)), true, nil
	case FormatBoolean:
		if raw.Boolean == nil {
			return Element{}, false, fmt.Errorf("element %s has no boolean value", code)
		}
		return NewBooleanElement(code, *raw.Boolean), true, nil
	case FormatString:
		if raw.String == nil {
			return Element{}, false, fmt.Errorf("element %s has no string value", code)
		}
		return NewStringElement(code, *raw.String), true, nil
	case FormatObjectList:
		ids := make([]uuid.UUID, 0, len(raw.Ids))
		for _, r := range raw.Ids {
			id, err := uuid.Parse(r)
			if err != nil {
				return Element{}, false, fmt.Errorf("decoding element %s id %q: %w", code, r, err)
			}
			ids = append(ids, id)
		}
		return NewObjectListElement(code, ids), true, nil
	case FormatDevice:
		dev := raw.Device.device()
		if dev == nil {
			return Element{}, false, fmt.Errorf("element %s has no device value", code)
		}
		return NewDeviceElement(code, *dev), true, nil
	default:
		return Element{}, false, fmt.Errorf("element %s has unsupported format %x", code, code.Format())
	}
}

// setScript runs an element write and fails the call on a false return
// value. %s/%s are the quoted store path and GUID, call is the method
// invocation on the opened object.
func (w *wmiService) setScript(storePath string, objectID uuid.UUID, call string) error {
	script := fmt.Sprintf(psOpenStore+
		`$o=$s.OpenObject(%s);if(-not $o.ReturnValue){throw 'OpenObject failed'};`+
		`$r=$o.Object.%s;if(-not $r.ReturnValue){throw 'element write returned false'}`,
		psQuote(storePath), psGUID(objectID), call)
	_, err := w.run(script)
	return err
}

func (w *wmiService) SetIntegerElement(storePath string, objectID uuid.UUID, code ElementCode, value int64) error {
	return w.setScript(storePath, objectID,
		fmt.Sprintf(`SetIntegerElement(0x%08x,%d)`, uint32(code), value))
}

func (w *wmiService) SetBooleanElement(storePath string, objectID uuid.UUID, code ElementCode, value bool) error {
	v := "$false"
	if value {
		v = "$true"
	}
	return w.setScript(storePath, objectID,
		fmt.Sprintf(`SetBooleanElement(0x%08x,%s)`, uint32(code), v))
}

func (w *wmiService) SetStringElement(storePath string, objectID uuid.UUID, code ElementCode, value string) error {
	return w.setScript(storePath, objectID,
		fmt.Sprintf(`SetStringElement(0x%08x,%s)`, uint32(code), psQuote(value)))
}

func (w *wmiService) SetFileDeviceElement(storePath string, objectID uuid.UUID, code ElementCode, device Device) error {
	parent := device.Parent
	if parent == nil {
		parent = &Device{}
	}
	return w.setScript(storePath, objectID,
		fmt.Sprintf(`SetFileDeviceElement(0x%08x,%d,0,%s,%d,0,%s)`,
			uint32(code), device.Type, psQuote(device.Path), parent.Type, psQuote(parent.Path)))
}

func (w *wmiService) SetObjectListElement(storePath string, objectID uuid.UUID, code ElementCode, ids []uuid.UUID) error {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = psGUID(id)
	}
	return w.setScript(storePath, objectID,
		fmt.Sprintf(`SetObjectListElement(0x%08x,@(%s))`, uint32(code), strings.Join(quoted, ",")))
}

package installdisk

import (
	"fmt"
	"os"
	"path/filepath"
)

// setupRelPath is where the installer launcher lives inside a payload
// subdirectory.
const setupRelPath = `sources\setup.exe`

const launchShellConfig = "[LaunchApps]\r\n" +
	"%SYSTEMDRIVE%\\Windows\\System32\\startinstall.cmd\r\n"

// WriteLaunchConfig writes the boot-time launch configuration into a
// mounted image root: a shell configuration that hands off to a search
// script, and the script itself, which walks all drive letters looking for
// the installer's payload subdirectory.
func WriteLaunchConfig(mountRoot, subdir string) error {
	system32 := filepath.Join(mountRoot, "Windows", "System32")
	if err := os.MkdirAll(system32, 0755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(system32, "winpeshl.ini"), []byte(launchShellConfig), 0644); err != nil {
		return err
	}

	launcher := winJoin(subdir, setupRelPath)
	script := "@echo off\r\n" +
		"for %%d in (C D E F G H I J K L M N O P Q R S T U V W X Y Z) do (\r\n" +
		fmt.Sprintf("    if exist \"%%%%d:\\%s\" (\r\n", launcher) +
		fmt.Sprintf("        \"%%%%d:\\%s\"\r\n", launcher) +
		"        exit /b\r\n" +
		"    )\r\n" +
		")\r\n" +
		fmt.Sprintf("echo installer payload %s not found on any drive\r\n", subdir) +
		"pause\r\n"

	return os.WriteFile(filepath.Join(system32, "startinstall.cmd"), []byte(script), 0644)
}

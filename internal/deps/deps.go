package deps

import (
	"os/exec"
	"strings"
)

// Status represents the installation status of a system dependency
type Status struct {
	Installed bool
	Path      string
	Version   string
}

// CheckPwRecord checks if pw-record (PipeWire audio capture) is installed
func CheckPwRecord() Status {
	return check("pw-record", "--version")
}

// CheckNotifySend checks if notify-send is installed, used for desktop
// notifications
func CheckNotifySend() Status {
	return check("notify-send", "--version")
}

func check(binary, versionFlag string) Status {
	path, err := exec.LookPath(binary)
	if err != nil {
		return Status{Installed: false}
	}

	status := Status{
		Installed: true,
		Path:      path,
	}

	// first line of --version output is the version string
	cmd := exec.Command(path, versionFlag)
	output, err := cmd.Output()
	if err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}

package util

import "os/exec"

// HasCommand reports whether name resolves to an executable on PATH.
func HasCommand(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

//go:build windows

package integration

import (
	"os"
	"syscall"
)

func shutdownSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
	}
}

func sendSuspend(proc *os.Process) error {
	// SIGTSTP not available on Windows, use SIGTERM instead
	return proc.Signal(syscall.SIGTERM)
}

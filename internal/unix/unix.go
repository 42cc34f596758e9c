//go:build linux || darwin

// Package unix provides platform-specific process primitives.
package unix

import (
	"errors"
	"os"
	"syscall"
)

// SessionAttr returns process attributes that detach a child into its own
// session, so it survives the spawning process exiting.
func SessionAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

// Alive reports whether a process with the given pid exists. It probes
// with signal 0; EPERM counts as alive since the process exists but
// belongs to another user.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}

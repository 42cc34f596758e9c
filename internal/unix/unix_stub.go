//go:build !linux && !darwin

// Package unix provides platform-specific process primitives.
package unix

import (
	"os"
	"syscall"
)

// SessionAttr returns nil on platforms without session support.
func SessionAttr() *syscall.SysProcAttr {
	return nil
}

// Alive reports whether a process with the given pid exists.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.FindProcess(pid)
	return err == nil
}

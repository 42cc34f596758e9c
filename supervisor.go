package procman

import (
	"context"
)

// ProcessSpec describes a process to run under supervision.
type ProcessSpec struct {
	// Name is the logical name the process is tracked under
	Name string
	// Command is the binary path followed by its fixed arguments
	Command []string
	// ExtraArgs are appended after Command's arguments
	ExtraArgs []string
	// Env contains additional environment variables for the process
	Env map[string]string
	// Cwd is the working directory for the process
	Cwd string
	// LogDir overrides the supervisor's log directory for this process
	LogDir string
}

// Supervisor is the contract launchers depend on. It starts processes
// only when no live instance is tracked under the same logical name, and
// terminates processes by name.
//
// Implementations must treat KillProcess on an unknown or already-dead
// name as a no-op.
type Supervisor interface {
	// EnsureRunning starts spec under supervision unless a live process
	// is already tracked under spec.Name. It returns the status of the
	// running process either way.
	EnsureRunning(ctx context.Context, spec ProcessSpec) (Status, error)

	// KillProcess terminates the process tracked under name.
	// Safe to call when none is running.
	KillProcess(ctx context.Context, name string) error

	// Status reports the current state of the process tracked under name.
	Status(ctx context.Context, name string) (Status, error)
}

package procman

import (
	"context"
	"sync"
)

// FakeSupervisor is an in-memory Supervisor that records calls in order.
// It lets launcher tests assert kill/ensure sequencing without spawning
// real processes.
type FakeSupervisor struct {
	mu sync.Mutex

	// Calls records operation names ("kill <name>" / "ensure <name>") in order
	Calls []string
	// KillNames records the names passed to KillProcess
	KillNames []string
	// EnsureSpecs records the specs passed to EnsureRunning
	EnsureSpecs []ProcessSpec

	// KillErr is returned from KillProcess when set
	KillErr error
	// EnsureErr is returned from EnsureRunning when set
	EnsureErr error
	// Statuses backs Status and the EnsureRunning return value
	Statuses map[string]Status
}

// NewFakeSupervisor creates an empty FakeSupervisor
func NewFakeSupervisor() *FakeSupervisor {
	return &FakeSupervisor{Statuses: make(map[string]Status)}
}

// EnsureRunning records the spec and returns the configured status
func (f *FakeSupervisor) EnsureRunning(_ context.Context, spec ProcessSpec) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, "ensure "+spec.Name)
	f.EnsureSpecs = append(f.EnsureSpecs, spec)
	if f.EnsureErr != nil {
		return Status{}, f.EnsureErr
	}
	if st, ok := f.Statuses[spec.Name]; ok {
		return st, nil
	}
	return Status{State: StateRunning, PID: 12345}, nil
}

// KillProcess records the name
func (f *FakeSupervisor) KillProcess(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, "kill "+name)
	f.KillNames = append(f.KillNames, name)
	return f.KillErr
}

// Status returns the configured status, or StateDown when none is set
func (f *FakeSupervisor) Status(_ context.Context, name string) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if st, ok := f.Statuses[name]; ok {
		return st, nil
	}
	return Status{State: StateDown}, nil
}

var _ Supervisor = (*FakeSupervisor)(nil)

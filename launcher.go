package procman

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NoKillFlag skips terminating a previous instance before starting
const NoKillFlag = "--no-kill"

// Launcher starts (and by default restarts) a single supervised process.
// Unless told otherwise it terminates any prior instance before asking
// the supervisor to start a fresh one. The supervisor is injected; the
// launcher itself holds no process-management logic.
type Launcher struct {
	// Supervisor performs the actual process operations
	Supervisor Supervisor
	// Name is the logical process name
	Name string
	// Command is the fixed command line: binary path plus static flags
	Command []string
	// LogDir is where the process logs
	LogDir string
	// Log receives launch progress; nil means silent
	Log *zap.Logger
}

// NewLauncher creates a Launcher for the given supervisor and fixed
// command line.
func NewLauncher(sup Supervisor, name string, command []string, logDir string, log *zap.Logger) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{
		Supervisor: sup,
		Name:       name,
		Command:    command,
		LogDir:     logDir,
		Log:        log,
	}
}

// Run executes the launch sequence from raw command-line arguments.
// The surface is: [--no-kill] [EXTRA_ARG]. When the first argument is
// NoKillFlag it is consumed and the prior instance is left alone;
// otherwise termination is requested first. At most one extra argument
// is accepted; it is forwarded to the start call.
func (l *Launcher) Run(ctx context.Context, args []string) error {
	noKill := false
	if len(args) > 0 && args[0] == NoKillFlag {
		noKill = true
		args = args[1:]
	}
	return l.Launch(ctx, noKill, args)
}

// Launch performs the kill-then-ensure sequence with parsing already
// done. extraArgs must hold at most one element.
func (l *Launcher) Launch(ctx context.Context, noKill bool, extraArgs []string) error {
	if len(extraArgs) > 1 {
		return fmt.Errorf("usage: [%s] [EXTRA_ARG]: got %d extra arguments", NoKillFlag, len(extraArgs))
	}

	if !noKill {
		l.Log.Info("stopping previous instance", zap.String("name", l.Name))
		if err := l.Supervisor.KillProcess(ctx, l.Name); err != nil {
			return err
		}
	}

	spec := ProcessSpec{
		Name:      l.Name,
		Command:   l.Command,
		ExtraArgs: extraArgs,
		LogDir:    l.LogDir,
	}

	st, err := l.Supervisor.EnsureRunning(ctx, spec)
	if err != nil {
		return err
	}

	l.Log.Info("process running",
		zap.String("name", l.Name),
		zap.Int("pid", st.PID),
		zap.String("state", st.State.String()),
	)
	return nil
}

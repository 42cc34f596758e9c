package procman

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/axondata/go-procman/internal/unix"
)

// Client is a pidfile-based process supervisor rooted at a state
// directory. It tracks one process per logical name through an
// atomically written record file, spawns processes detached into their
// own session with output redirected to per-process log files, and
// stops them with SIGTERM escalating to SIGKILL.
type Client struct {
	// StateDir is the canonical path to the directory holding records
	StateDir string

	// LogDir is the default directory for process log files
	LogDir string

	// StopTimeout is the grace period between SIGTERM and SIGKILL
	StopTimeout time.Duration

	// BackoffMin is the minimum duration between liveness polls while stopping
	BackoffMin time.Duration

	// BackoffMax is the maximum duration between liveness polls while stopping
	BackoffMax time.Duration

	// MaxAttempts multiplies BackoffMax to bound how long a SIGKILLed
	// process is given to be reaped
	MaxAttempts int

	// WatchDebounce is the debounce duration for watch events to coalesce rapid changes
	WatchDebounce time.Duration

	// mu protects concurrent spawn/kill operations on this client
	mu sync.Mutex
}

var _ Supervisor = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithLogDir sets the default directory for process log files
func WithLogDir(dir string) Option {
	return func(c *Client) {
		c.LogDir = dir
	}
}

// WithStopTimeout sets the grace period between SIGTERM and SIGKILL
func WithStopTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.StopTimeout = d
	}
}

// WithBackoff sets the minimum and maximum durations between liveness polls
func WithBackoff(minBackoff, maxBackoff time.Duration) Option {
	return func(c *Client) {
		c.BackoffMin = minBackoff
		c.BackoffMax = maxBackoff
	}
}

// WithMaxAttempts sets the multiplier on BackoffMax bounding the
// post-SIGKILL reap wait
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.MaxAttempts = n
	}
}

// WithWatchDebounce sets the debounce duration for watch events
func WithWatchDebounce(d time.Duration) Option {
	return func(c *Client) {
		c.WatchDebounce = d
	}
}

// New creates a Client rooted at the specified state directory, creating
// it if necessary, and applies any provided options.
func New(stateDir string, opts ...Option) (*Client, error) {
	absPath, err := filepath.Abs(stateDir)
	if err != nil {
		return nil, fmt.Errorf("resolving state dir: %w", err)
	}

	c := &Client{
		StateDir:      absPath,
		StopTimeout:   DefaultStopTimeout,
		BackoffMin:    DefaultBackoffMin,
		BackoffMax:    DefaultBackoffMax,
		MaxAttempts:   DefaultMaxAttempts,
		WatchDebounce: DefaultWatchDebounce,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.StateDir, DefaultLogDirName)
	}

	if err := os.MkdirAll(c.StateDir, DirMode); err != nil {
		return nil, &OpError{Op: OpUnknown, Path: c.StateDir, Err: err}
	}

	return c, nil
}

// EnsureRunning starts spec unless a live process is already recorded
// under spec.Name. When a live instance exists its current status is
// returned and nothing is spawned.
func (c *Client) EnsureRunning(_ context.Context, spec ProcessSpec) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if spec.Name == "" || len(spec.Command) == 0 || spec.Command[0] == "" {
		return Status{}, &OpError{Op: OpEnsure, Path: c.StateDir, Err: ErrInvalidSpec}
	}

	rec, err := readRecord(c.StateDir, spec.Name)
	if err == nil {
		st := rec.status()
		if st.State == StateRunning {
			return st, nil
		}
		// Stale record from a dead process; replace it.
	} else if !os.IsNotExist(err) {
		return Status{}, &OpError{Op: OpEnsure, Path: recordPath(c.StateDir, spec.Name), Err: err}
	}

	return c.spawn(spec)
}

// spawn launches the process detached and records it. Callers hold c.mu.
func (c *Client) spawn(spec ProcessSpec) (Status, error) {
	logDir := spec.LogDir
	if logDir == "" {
		logDir = c.LogDir
	}
	if err := os.MkdirAll(logDir, DirMode); err != nil {
		return Status{}, &OpError{Op: OpSpawn, Path: logDir, Err: err}
	}

	logPath := filepath.Join(logDir, spec.Name+LogSuffix)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogMode)
	if err != nil {
		return Status{}, &OpError{Op: OpSpawn, Path: logPath, Err: err}
	}
	defer func() { _ = logFile.Close() }()

	args := append(append([]string{}, spec.Command[1:]...), spec.ExtraArgs...)
	cmd := exec.Command(spec.Command[0], args...)
	cmd.Dir = spec.Cwd
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = unix.SessionAttr()
	cmd.Env = mergedEnv(spec.Env)

	if err := cmd.Start(); err != nil {
		return Status{}, &OpError{Op: OpSpawn, Path: spec.Command[0], Err: err}
	}

	rec := &processRecord{
		Name:      spec.Name,
		PID:       cmd.Process.Pid,
		Command:   append(append([]string{}, spec.Command...), spec.ExtraArgs...),
		LogDir:    logDir,
		StartedAt: time.Now(),
	}

	if err := writeRecord(c.StateDir, rec); err != nil {
		_ = cmd.Process.Kill()
		go func() { _ = cmd.Wait() }()
		return Status{}, &OpError{Op: OpSpawn, Path: recordPath(c.StateDir, spec.Name), Err: err}
	}

	// Reap the child if it exits while this process is still alive.
	// Supervision state lives in the record, not in this handle; if this
	// process exits first the child reparents and init reaps it.
	go func() { _ = cmd.Wait() }()

	return rec.status(), nil
}

// mergedEnv combines the current environment with extra variables,
// sorted for deterministic spawns.
func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil // exec.Command inherits os.Environ
	}
	env := os.Environ()
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// KillProcess terminates the process recorded under name. A missing
// record or an already-dead pid is a no-op; either way no record
// remains afterwards.
func (c *Client) KillProcess(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := readRecord(c.StateDir, name)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &OpError{Op: OpKill, Path: recordPath(c.StateDir, name), Err: err}
	}

	if !unix.Alive(rec.PID) {
		return removeRecord(c.StateDir, name)
	}

	proc, err := os.FindProcess(rec.PID)
	if err != nil {
		return &OpError{Op: OpKill, Path: recordPath(c.StateDir, name), Err: err}
	}

	if err := proc.Signal(syscall.SIGTERM); err != nil && !isProcessGone(err) {
		return &OpError{Op: OpKill, Path: recordPath(c.StateDir, name), Err: err}
	}

	if c.waitDead(ctx, rec.PID, c.StopTimeout) {
		return removeRecord(c.StateDir, name)
	}

	if err := proc.Signal(syscall.SIGKILL); err != nil && !isProcessGone(err) {
		return &OpError{Op: OpKill, Path: recordPath(c.StateDir, name), Err: err}
	}

	// SIGKILL cannot be ignored; allow a few polls for the reap.
	deadline := c.BackoffMax * time.Duration(c.MaxAttempts)
	if c.waitDead(ctx, rec.PID, deadline) {
		return removeRecord(c.StateDir, name)
	}

	return &OpError{Op: OpKill, Path: recordPath(c.StateDir, name), Err: ErrStopTimeout}
}

// waitDead polls the pid with exponential backoff until it dies, the
// timeout elapses, or ctx is done.
func (c *Client) waitDead(ctx context.Context, pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	backoff := c.BackoffMin

	for {
		if !unix.Alive(pid) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}

		select {
		case <-ctx.Done():
			return !unix.Alive(pid)
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > c.BackoffMax {
			backoff = c.BackoffMax
		}
	}
}

// isProcessGone reports whether a signal error means the process
// already exited.
func isProcessGone(err error) bool {
	return errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH)
}

// Status reports the state of the process recorded under name. A
// missing record is reported as StateDown, not an error.
func (c *Client) Status(_ context.Context, name string) (Status, error) {
	rec, err := readRecord(c.StateDir, name)
	if os.IsNotExist(err) {
		return Status{State: StateDown}, nil
	}
	if err != nil {
		return Status{}, &OpError{Op: OpStatus, Path: recordPath(c.StateDir, name), Err: err}
	}
	return rec.status(), nil
}

// Signal sends sig to the process recorded under name
func (c *Client) Signal(_ context.Context, name string, sig os.Signal) error {
	rec, err := readRecord(c.StateDir, name)
	if os.IsNotExist(err) {
		return &OpError{Op: OpSignal, Path: recordPath(c.StateDir, name), Err: ErrNoSuchProcess}
	}
	if err != nil {
		return &OpError{Op: OpSignal, Path: recordPath(c.StateDir, name), Err: err}
	}
	if !unix.Alive(rec.PID) {
		return &OpError{Op: OpSignal, Path: recordPath(c.StateDir, name), Err: ErrNoSuchProcess}
	}

	proc, err := os.FindProcess(rec.PID)
	if err != nil {
		return &OpError{Op: OpSignal, Path: recordPath(c.StateDir, name), Err: err}
	}
	if err := proc.Signal(sig); err != nil {
		return &OpError{Op: OpSignal, Path: recordPath(c.StateDir, name), Err: err}
	}
	return nil
}

// Term sends SIGTERM to the process recorded under name
func (c *Client) Term(ctx context.Context, name string) error {
	return c.Signal(ctx, name, syscall.SIGTERM)
}

// Interrupt sends SIGINT to the process recorded under name
func (c *Client) Interrupt(ctx context.Context, name string) error {
	return c.Signal(ctx, name, syscall.SIGINT)
}

// HUP sends SIGHUP to the process recorded under name
func (c *Client) HUP(ctx context.Context, name string) error {
	return c.Signal(ctx, name, syscall.SIGHUP)
}

// Kill sends SIGKILL to the process recorded under name
func (c *Client) Kill(ctx context.Context, name string) error {
	return c.Signal(ctx, name, syscall.SIGKILL)
}

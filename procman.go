package procman

import (
	"io/fs"
	"time"
)

// State directory and file constants
const (
	// RecordSuffix is the file name suffix for process records
	RecordSuffix = ".json"

	// LogSuffix is the file name suffix for process log files
	LogSuffix = ".log"

	// DefaultLogDirName is the log subdirectory created under the state
	// directory when no explicit log directory is configured
	DefaultLogDirName = "log"

	// DefaultStopTimeout is the default grace period between SIGTERM and
	// SIGKILL when stopping a process
	DefaultStopTimeout = 10 * time.Second

	// DefaultWatchDebounce is the default debounce time for record file watching
	DefaultWatchDebounce = 25 * time.Millisecond

	// DefaultBackoffMin is the minimum backoff duration for stop polling
	DefaultBackoffMin = 10 * time.Millisecond

	// DefaultBackoffMax is the maximum backoff duration for stop polling
	DefaultBackoffMax = 1 * time.Second

	// DefaultMaxAttempts is the default multiplier on BackoffMax bounding
	// how long to wait for a SIGKILLed process to be reaped
	DefaultMaxAttempts = 10
)

// File modes
const (
	// DirMode is the default mode for created directories
	DirMode fs.FileMode = 0o755

	// FileMode is the default mode for record files
	FileMode fs.FileMode = 0o644

	// LogMode is the default mode for log files
	LogMode fs.FileMode = 0o644
)

// Operation represents a supervision operation type
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpEnsure starts a process unless one is already running
	OpEnsure
	// OpKill terminates a process by logical name
	OpKill
	// OpSignal sends a signal to a process
	OpSignal
	// OpStatus reads a process record
	OpStatus
	// OpSpawn launches a child process
	OpSpawn
	// OpWatch monitors a process record for changes
	OpWatch
)

// String returns the operation name
func (op Operation) String() string {
	switch op {
	case OpEnsure:
		return "ensure"
	case OpKill:
		return "kill"
	case OpSignal:
		return "signal"
	case OpStatus:
		return "status"
	case OpSpawn:
		return "spawn"
	case OpWatch:
		return "watch"
	default:
		return "unknown"
	}
}

// State represents the observed state of a supervised process
type State int

const (
	// StateUnknown indicates the state could not be determined
	StateUnknown State = iota
	// StateDown indicates no record exists for the process
	StateDown
	// StateRunning indicates a record exists and its pid is alive
	StateRunning
	// StateStale indicates a record exists but its pid is dead
	StateStale
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateDown:
		return "down"
	case StateRunning:
		return "running"
	case StateStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Status describes a supervised process at the moment of a record read
type Status struct {
	// State is the inferred process state
	State State
	// PID is the recorded process ID (0 when down)
	PID int
	// Since is when the process was started
	Since time.Time
	// Uptime is the duration since start at the moment of the read.
	// It goes stale immediately; use Since for accurate calculations.
	Uptime time.Duration
	// Command is the recorded command line
	Command []string
	// LogDir is the directory the process logs to
	LogDir string
}

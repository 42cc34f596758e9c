package procman

// WatchEvent represents a status change event from watching a process
type WatchEvent struct {
	Status Status
	Err    error
}

// WatchCleanupFunc stops a watch and releases its resources
type WatchCleanupFunc func() error

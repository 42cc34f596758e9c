package procman

import (
	"context"
	"sync"
	"time"
)

// Manager handles operations on multiple supervised processes
// concurrently. It provides bulk operations with configurable
// concurrency and timeouts on top of a single Client.
type Manager struct {
	// Client performs the underlying operations
	Client *Client
	// Concurrency is the maximum number of concurrent operations
	Concurrency int
	// Timeout is the per-operation timeout
	Timeout time.Duration
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithConcurrency sets the maximum number of concurrent operations
func WithConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		m.Concurrency = n
	}
}

// WithTimeout sets the per-operation timeout
func WithTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.Timeout = d
	}
}

// NewManager creates a Manager backed by client with default settings
func NewManager(client *Client, opts ...ManagerOption) *Manager {
	m := &Manager{
		Client:      client,
		Concurrency: 10,
		Timeout:     30 * time.Second,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.Concurrency < 1 {
		m.Concurrency = 1
	}

	return m
}

func (m *Manager) execute(ctx context.Context, n int, op func(context.Context, int) error) error {
	if n == 0 {
		return nil
	}

	// Semaphore for concurrency control
	sem := make(chan struct{}, m.Concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	merr := &MultiError{}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			// Acquire semaphore slot
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				merr.Add(ctx.Err())
				mu.Unlock()
				return
			}

			// Create operation context with timeout if configured
			opCtx := ctx
			if m.Timeout > 0 {
				var cancel context.CancelFunc
				opCtx, cancel = context.WithTimeout(ctx, m.Timeout)
				defer cancel()
			}

			if err := op(opCtx, idx); err != nil {
				mu.Lock()
				merr.Add(err)
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()

	return merr.Err()
}

// EnsureRunning starts all specs that are not already running
func (m *Manager) EnsureRunning(ctx context.Context, specs ...ProcessSpec) error {
	return m.execute(ctx, len(specs), func(ctx context.Context, i int) error {
		_, err := m.Client.EnsureRunning(ctx, specs[i])
		return err
	})
}

// Kill terminates the named processes
func (m *Manager) Kill(ctx context.Context, names ...string) error {
	return m.execute(ctx, len(names), func(ctx context.Context, i int) error {
		return m.Client.KillProcess(ctx, names[i])
	})
}

// Term sends SIGTERM to the named processes without removing their records
func (m *Manager) Term(ctx context.Context, names ...string) error {
	return m.execute(ctx, len(names), func(ctx context.Context, i int) error {
		return m.Client.Term(ctx, names[i])
	})
}

// Status retrieves the status of the named processes
func (m *Manager) Status(ctx context.Context, names ...string) (map[string]Status, error) {
	results := make(map[string]Status, len(names))
	var mu sync.Mutex

	err := m.execute(ctx, len(names), func(ctx context.Context, i int) error {
		status, err := m.Client.Status(ctx, names[i])
		if err != nil {
			return err
		}
		mu.Lock()
		results[names[i]] = status
		mu.Unlock()
		return nil
	})

	return results, err
}

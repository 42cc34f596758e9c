package procman

import (
	"context"
)

// Wait blocks until the process recorded under name reaches one of the
// specified states or ctx is cancelled. If states is nil or empty, it
// waits for any status change.
//
// Example:
//
//	// Wait until the printer is up
//	status, err := client.Wait(ctx, "openbookv2-printer", []procman.State{procman.StateRunning})
func (c *Client) Wait(ctx context.Context, name string, states []State) (Status, error) {
	// If states is empty, wait for any change
	if len(states) == 0 {
		events, cleanup, err := c.Watch(ctx, name)
		if err != nil {
			return Status{}, err
		}
		defer func() { _ = cleanup() }()

		select {
		case event := <-events:
			if event.Err != nil {
				return Status{}, event.Err
			}
			return event.Status, nil
		case <-ctx.Done():
			return Status{}, ctx.Err()
		}
	}

	// First check current state
	status, err := c.Status(ctx, name)
	if err != nil {
		return Status{}, err
	}
	for _, target := range states {
		if status.State == target {
			return status, nil
		}
	}

	// Watch for changes
	events, cleanup, err := c.Watch(ctx, name)
	if err != nil {
		return Status{}, err
	}
	defer func() { _ = cleanup() }()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return Status{}, ctx.Err()
			}
			if event.Err != nil {
				return Status{}, event.Err
			}
			for _, target := range states {
				if event.Status.State == target {
					return event.Status, nil
				}
			}
		case <-ctx.Done():
			return Status{}, ctx.Err()
		}
	}
}

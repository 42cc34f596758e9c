//go:build !linux && !darwin

package procman

import (
	"context"
	"errors"
)

// Watch is not supported on this platform
func (c *Client) Watch(_ context.Context, _ string) (<-chan WatchEvent, WatchCleanupFunc, error) {
	return nil, nil, errors.New("watch not supported on this platform")
}

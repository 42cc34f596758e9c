package procman

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLauncher(sup Supervisor) *Launcher {
	return NewLauncher(sup, PrinterProcessName,
		[]string{"openbookv2-printer", "--rpc-url", "http://localhost:8899"},
		"/var/log/printer", zap.NewNop())
}

func TestLauncherRun(t *testing.T) {
	ctx := context.Background()

	t.Run("no arguments kills then starts", func(t *testing.T) {
		fake := NewFakeSupervisor()
		l := newTestLauncher(fake)

		require.NoError(t, l.Run(ctx, nil))

		require.Equal(t, []string{
			"kill openbookv2-printer",
			"ensure openbookv2-printer",
		}, fake.Calls)
		require.Len(t, fake.EnsureSpecs, 1)
		assert.Empty(t, fake.EnsureSpecs[0].ExtraArgs)
	})

	t.Run("no-kill skips termination", func(t *testing.T) {
		fake := NewFakeSupervisor()
		l := newTestLauncher(fake)

		require.NoError(t, l.Run(ctx, []string{"--no-kill"}))

		require.Equal(t, []string{"ensure openbookv2-printer"}, fake.Calls)
		assert.Empty(t, fake.KillNames)
		assert.Empty(t, fake.EnsureSpecs[0].ExtraArgs)
	})

	t.Run("no-kill forwards extra argument", func(t *testing.T) {
		fake := NewFakeSupervisor()
		l := newTestLauncher(fake)

		require.NoError(t, l.Run(ctx, []string{"--no-kill", "extra"}))

		require.Equal(t, []string{"ensure openbookv2-printer"}, fake.Calls)
		require.Len(t, fake.EnsureSpecs, 1)
		assert.Equal(t, []string{"extra"}, fake.EnsureSpecs[0].ExtraArgs)
	})

	t.Run("non-flag argument kills then forwards it", func(t *testing.T) {
		fake := NewFakeSupervisor()
		l := newTestLauncher(fake)

		require.NoError(t, l.Run(ctx, []string{"foo"}))

		require.Equal(t, []string{
			"kill openbookv2-printer",
			"ensure openbookv2-printer",
		}, fake.Calls)
		assert.Equal(t, []string{"foo"}, fake.EnsureSpecs[0].ExtraArgs)
	})

	t.Run("more than one extra argument is rejected", func(t *testing.T) {
		fake := NewFakeSupervisor()
		l := newTestLauncher(fake)

		err := l.Run(ctx, []string{"--no-kill", "a", "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage")
		assert.Empty(t, fake.Calls)
	})

	t.Run("spec carries fixed command, log dir and name", func(t *testing.T) {
		fake := NewFakeSupervisor()
		l := newTestLauncher(fake)

		require.NoError(t, l.Run(ctx, nil))

		spec := fake.EnsureSpecs[0]
		assert.Equal(t, PrinterProcessName, spec.Name)
		assert.Equal(t, []string{"openbookv2-printer", "--rpc-url", "http://localhost:8899"}, spec.Command)
		assert.Equal(t, "/var/log/printer", spec.LogDir)
	})
}

func TestLauncherErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("kill error aborts before ensure", func(t *testing.T) {
		fake := NewFakeSupervisor()
		fake.KillErr = errors.New("kill failed")
		l := newTestLauncher(fake)

		err := l.Run(ctx, nil)
		require.ErrorIs(t, err, fake.KillErr)
		assert.Equal(t, []string{"kill openbookv2-printer"}, fake.Calls)
	})

	t.Run("ensure error propagates", func(t *testing.T) {
		fake := NewFakeSupervisor()
		fake.EnsureErr = errors.New("start failed")
		l := newTestLauncher(fake)

		err := l.Run(ctx, []string{"--no-kill"})
		require.ErrorIs(t, err, fake.EnsureErr)
	})
}

func TestNewLauncherNilLogger(t *testing.T) {
	l := NewLauncher(NewFakeSupervisor(), "svc", []string{"true"}, "", nil)
	if l.Log == nil {
		t.Fatal("expected non-nil logger")
	}
}

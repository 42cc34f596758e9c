package procman

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestClientNew(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates state dir", func(t *testing.T) {
		stateDir := filepath.Join(tmpDir, "state")
		client, err := New(stateDir)
		if err != nil {
			t.Fatal(err)
		}

		if client.StateDir != stateDir {
			t.Errorf("StateDir = %v, want %v", client.StateDir, stateDir)
		}
		if client.LogDir != filepath.Join(stateDir, DefaultLogDirName) {
			t.Errorf("LogDir = %v, want %v", client.LogDir, filepath.Join(stateDir, DefaultLogDirName))
		}
	})

	t.Run("defaults", func(t *testing.T) {
		client, err := New(tmpDir)
		if err != nil {
			t.Fatal(err)
		}

		if client.StopTimeout != DefaultStopTimeout {
			t.Errorf("StopTimeout = %v, want %v", client.StopTimeout, DefaultStopTimeout)
		}
		if client.BackoffMin != DefaultBackoffMin {
			t.Errorf("BackoffMin = %v, want %v", client.BackoffMin, DefaultBackoffMin)
		}
		if client.MaxAttempts != DefaultMaxAttempts {
			t.Errorf("MaxAttempts = %v, want %v", client.MaxAttempts, DefaultMaxAttempts)
		}
	})
}

func TestClientOptions(t *testing.T) {
	tmpDir := t.TempDir()

	client, err := New(tmpDir,
		WithLogDir(filepath.Join(tmpDir, "logs")),
		WithStopTimeout(3*time.Second),
		WithBackoff(20*time.Millisecond, 2*time.Second),
		WithMaxAttempts(5),
		WithWatchDebounce(50*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}

	if client.LogDir != filepath.Join(tmpDir, "logs") {
		t.Errorf("LogDir = %v, want %v", client.LogDir, filepath.Join(tmpDir, "logs"))
	}
	if client.StopTimeout != 3*time.Second {
		t.Errorf("StopTimeout = %v, want %v", client.StopTimeout, 3*time.Second)
	}
	if client.BackoffMin != 20*time.Millisecond {
		t.Errorf("BackoffMin = %v, want %v", client.BackoffMin, 20*time.Millisecond)
	}
	if client.BackoffMax != 2*time.Second {
		t.Errorf("BackoffMax = %v, want %v", client.BackoffMax, 2*time.Second)
	}
	if client.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %v, want %v", client.MaxAttempts, 5)
	}
	if client.WatchDebounce != 50*time.Millisecond {
		t.Errorf("WatchDebounce = %v, want %v", client.WatchDebounce, 50*time.Millisecond)
	}
}

func TestClientStatusDown(t *testing.T) {
	client, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	status, err := client.Status(context.Background(), "never-started")
	if err != nil {
		t.Fatal(err)
	}
	if status.State != StateDown {
		t.Errorf("State = %v, want %v", status.State, StateDown)
	}
	if status.PID != 0 {
		t.Errorf("PID = %d, want 0", status.PID)
	}
}

func TestClientKillMissingIsNoop(t *testing.T) {
	client, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := client.KillProcess(context.Background(), "never-started"); err != nil {
		t.Fatalf("KillProcess on missing record: %v", err)
	}
}

func TestClientEnsureInvalidSpec(t *testing.T) {
	client, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	t.Run("empty name", func(t *testing.T) {
		_, err := client.EnsureRunning(ctx, ProcessSpec{Command: []string{"true"}})
		if err == nil {
			t.Fatal("expected error for empty name")
		}
	})

	t.Run("empty command", func(t *testing.T) {
		_, err := client.EnsureRunning(ctx, ProcessSpec{Name: "svc"})
		if err == nil {
			t.Fatal("expected error for empty command")
		}
	})
}

func TestClientSignalMissing(t *testing.T) {
	client, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	err = client.Term(context.Background(), "never-started")
	if err == nil {
		t.Fatal("expected error signaling a missing process")
	}
}

// Package procman provides pidfile-based process supervision and the
// launch logic for the openbookv2 trading-data printer.
//
// The core functionality centers around the Client type, which tracks
// one process per logical name under a state directory:
//
//	client, err := procman.New("/var/lib/procman")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start unless already running
//	status, err := client.EnsureRunning(ctx, procman.ProcessSpec{
//	    Name:    "openbookv2-printer",
//	    Command: cfg.Command(),
//	})
//
//	// Stop by logical name; a no-op when nothing is running
//	err = client.KillProcess(ctx, "openbookv2-printer")
//
// # Launcher
//
// The Launcher type implements the restart-by-default launch sequence
// used by the printer-launch command: terminate any prior instance
// (unless --no-kill), then ensure the configured command is running.
// It depends on supervision only through the Supervisor interface, so
// tests can substitute a FakeSupervisor.
//
// # Manager for Bulk Operations
//
// The Manager type is a convenience for applications coordinating
// several supervised processes. It fans operations out with bounded
// concurrency and aggregates failures into a MultiError. All of its
// functionality can be replicated with Client calls directly.
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - At-most-one process per logical name, enforced through atomically
//     written record files
//   - Idempotent operations: ensure on a running name and kill on a
//     missing name are both no-ops
//   - Context-aware operations with proper timeouts
//   - Type safety (no string-based operation codes)
package procman

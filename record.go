package procman

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/axondata/go-procman/internal/unix"
)

// processRecord is the on-disk record tracking one supervised process.
// One record file per logical name lives in the state directory.
type processRecord struct {
	Name      string    `json:"name"`
	PID       int       `json:"pid"`
	Command   []string  `json:"command"`
	LogDir    string    `json:"log_dir"`
	StartedAt time.Time `json:"started_at"`
}

// recordPath returns the record file path for a logical name
func recordPath(stateDir, name string) string {
	return filepath.Join(stateDir, name+RecordSuffix)
}

// writeRecord atomically writes a process record. A partially written
// record must never be observable: a crashed writer leaves either the
// previous record or none.
func writeRecord(stateDir string, rec *processRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record for %q: %w", rec.Name, err)
	}
	data = append(data, '\n')
	return renameio.WriteFile(recordPath(stateDir, rec.Name), data, FileMode)
}

// readRecord reads the process record for name. It returns os.ErrNotExist
// when no record has been written.
func readRecord(stateDir, name string) (*processRecord, error) {
	path := recordPath(stateDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec processRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return &rec, nil
}

// removeRecord deletes the record for name, ignoring a missing file
func removeRecord(stateDir, name string) error {
	err := os.Remove(recordPath(stateDir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// status derives the observable Status from a record by probing the
// recorded pid. A record whose pid is dead is reported as stale rather
// than running; KillProcess clears such records.
func (r *processRecord) status() Status {
	st := Status{
		PID:     r.PID,
		Since:   r.StartedAt,
		Command: r.Command,
		LogDir:  r.LogDir,
	}

	if unix.Alive(r.PID) {
		st.State = StateRunning
	} else {
		st.State = StateStale
	}

	if !r.StartedAt.IsZero() {
		st.Uptime = time.Since(r.StartedAt)
		if st.Uptime < 0 {
			st.Uptime = 0
		}
	}

	return st
}

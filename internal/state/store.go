// Package state persists the monitor's per-host maps between runs as JSON
// files, one file per map. A missing or corrupt file loads as an empty map:
// losing state means some alerts repeat or a transition is missed once, which
// beats refusing to poll.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hieunt/fleetwatch/internal/errors"
	"github.com/hieunt/fleetwatch/internal/logger"
)

// Map keys used by the monitor.
const (
	// KeyLastUptime maps host name -> last observed uptime seconds.
	KeyLastUptime = "last_uptime"
	// KeyDownSince maps host name -> epoch seconds first observed down.
	KeyDownSince = "down_since"
)

// Store is the persistence capability consumed by the monitor core.
type Store interface {
	// LoadMap unmarshals the stored map for key into out (a *map[string]T).
	// Absent or corrupt records leave out untouched; load never fails.
	LoadMap(key string, out any)

	// SaveMap persists the map under key. The caller decides whether a save
	// failure is worth more than a log line (it isn't, for the monitor).
	SaveMap(key string, m any) error
}

// FileStore keeps each map in <dir>/<key>.json, written atomically via a
// temp file and rename so a mid-write kill can't corrupt the previous record.
type FileStore struct {
	dir string
	log logger.Logger
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string, log logger.Logger) *FileStore {
	if log == nil {
		log = logger.Noop()
	}
	return &FileStore{dir: dir, log: log}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// LoadMap reads the stored map for key into out.
func (s *FileStore) LoadMap(key string, out any) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("could not read state %s, starting empty: %v", key, err)
		}
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn("state %s is corrupt, starting empty: %v", key, err)
	}
}

// SaveMap writes the map for key atomically.
func (s *FileStore) SaveMap(key string, m any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrState,
			fmt.Sprintf("Failed to encode state %s", key),
			"This shouldn't happen - please report this bug!")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrState,
			fmt.Sprintf("Failed to create state directory %s", s.dir),
			"Check directory permissions, or set state_dir to a writable path")
	}

	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrState,
			"Failed to create temp state file",
			"Check directory permissions on "+s.dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrState,
			fmt.Sprintf("Failed to write state %s", key),
			"Check free disk space")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrState,
			fmt.Sprintf("Failed to write state %s", key),
			"Check free disk space")
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrState,
			fmt.Sprintf("Failed to replace state %s", key),
			"Check directory permissions on "+s.dir)
	}

	return nil
}

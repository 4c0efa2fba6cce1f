// Package lock prevents overlapping poll passes. Cron has no memory of the
// previous fire, so a slow pass (hosts timing out serially) can overlap the
// next one; the state files are single-writer, so the second pass must not
// start. Acquisition is a local O_CREATE|O_EXCL file holding holder info,
// with stale takeover for crashed holders.
package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hieunt/fleetwatch/internal/errors"
)

const lockFileName = "run.lock"

// Info describes the lock holder, stored inside the lock file.
type Info struct {
	PID        int       `json:"pid"`
	Hostname   string    `json:"hostname"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Lock represents an acquired run lock.
type Lock struct {
	path string
}

// Acquire takes the run lock in dir. A lock older than stale is assumed
// abandoned by a crashed run and is taken over. There is no waiting: an
// overlapping invocation should skip its pass, the scheduler will fire again.
func Acquire(dir string, stale time.Duration) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrLock,
			"Failed to create lock directory "+dir,
			"Check directory permissions")
	}

	path := filepath.Join(dir, lockFileName)

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			info := currentInfo()
			data, _ := json.Marshal(info)
			if _, werr := f.Write(data); werr != nil {
				f.Close()
				os.Remove(path)
				return nil, errors.WrapWithCode(werr, errors.ErrLock,
					"Failed to write lock info",
					"Check free disk space")
			}
			f.Close()
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrLock,
				"Failed to create lock file",
				"Check directory permissions on "+dir)
		}

		holder, age := readHolder(path)
		if stale > 0 && age > stale {
			// Holder probably crashed; remove and retry once.
			if rerr := os.Remove(path); rerr == nil || os.IsNotExist(rerr) {
				continue
			}
		}

		return nil, errors.New(errors.ErrLock,
			fmt.Sprintf("Another run is in progress (held by %s for %s)", holder, age.Round(time.Second)),
			"Wait for it to finish, or remove the lock file if it crashed: "+path)
	}

	return nil, errors.New(errors.ErrLock,
		"Could not acquire run lock",
		"Remove the lock file manually: "+path)
}

// Release removes the lock file. Safe to call if the file is already gone.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrLock,
			"Failed to release run lock",
			"Remove the lock file manually: "+l.path)
	}
	return nil
}

func currentInfo() Info {
	hostname, _ := os.Hostname()
	return Info{
		PID:        os.Getpid(),
		Hostname:   hostname,
		AcquiredAt: time.Now(),
	}
}

// readHolder describes the current lock holder and the lock's age. Falls
// back to file mtime when the info doesn't parse.
func readHolder(path string) (string, time.Duration) {
	holder := "unknown"
	var acquired time.Time

	if data, err := os.ReadFile(path); err == nil {
		var info Info
		if json.Unmarshal(data, &info) == nil && info.PID != 0 {
			holder = fmt.Sprintf("pid %d on %s", info.PID, info.Hostname)
			acquired = info.AcquiredAt
		}
	}
	if acquired.IsZero() {
		if fi, err := os.Stat(path); err == nil {
			acquired = fi.ModTime()
		} else {
			return holder, 0
		}
	}

	return holder, time.Since(acquired)
}

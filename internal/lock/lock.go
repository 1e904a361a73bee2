// Package lock provides the cross-process lock the CLI holds while it
// changes installed addons.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// FileName is the lock file created in the data directory.
	FileName = "wam.lock"
	// StaleThreshold is the maximum age of a lock before it's considered stale.
	StaleThreshold = 10 * time.Minute
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("another wam operation is in progress")

// Lock is a held lock file.
type Lock struct {
	path string
	file *os.File
}

// Acquire creates dir/wam.lock exclusively. A lock older than StaleThreshold
// is assumed abandoned and replaced once.
func Acquire(ctx context.Context, dir string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	path := filepath.Join(dir, FileName)

	file, err := create(path)
	if errors.Is(err, os.ErrExist) {
		if stale, _ := isStale(path); !stale {
			return nil, ErrLocked
		}
		_ = os.Remove(path)
		file, err = create(path)
		if errors.Is(err, os.ErrExist) {
			return nil, ErrLocked
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	// PID and timestamp help a user clean up by hand
	meta := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(meta); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	return &Lock{path: path, file: file}, nil
}

func create(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
}

// Release removes the lock file. Calling it more than once is safe.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path != "" {
		path := l.path
		l.path = ""
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
	}
	return nil
}

func isStale(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return time.Since(info.ModTime()) > StaleThreshold, nil
}

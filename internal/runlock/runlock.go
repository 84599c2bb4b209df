// Package runlock keeps two alacflac runs from converting the same
// directory tree at the same time.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the lock for a directory,
// one of its parents, or one of its subdirectories.
var ErrLocked = errors.New("another alacflac run is already converting this directory")

const filePrefix = "alacflac-"

// Lock is an acquired advisory lock.
type Lock struct {
	path string
	root string
	lock *flock.Flock
}

// PathFor returns the lock file used for root. Lock files live in lockDir
// (the OS temp directory when empty) and are keyed by the root's path.
func PathFor(lockDir, root string) string {
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(lockDir, filePrefix+hex.EncodeToString(sum[:8])+".lock")
}

// Acquire takes the lock for root without blocking. Trees overlap when one
// root contains the other, and a live lock on any overlapping root makes
// Acquire fail with ErrLocked.
func Acquire(lockDir, root string) (*Lock, error) {
	root = filepath.Clean(root)
	path := PathFor(lockDir, root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, root)
	}
	l := &Lock{path: path, root: root, lock: fl}

	// The root is recorded so runs on nested trees can find each other.
	if err := os.WriteFile(path, []byte(root+"\n"), 0o600); err != nil {
		_ = l.Release()
		return nil, fmt.Errorf("record lock owner: %w", err)
	}
	if other, found := l.overlappingHolder(); found {
		_ = l.Release()
		return nil, fmt.Errorf("%w: %s (held for %s)", ErrLocked, root, other)
	}
	return l, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

// overlappingHolder returns the root of a live lock whose tree overlaps
// this one. Stale lock files from finished runs are ignored.
func (l *Lock) overlappingHolder() (string, bool) {
	entries, err := os.ReadDir(filepath.Dir(l.path))
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".lock") {
			continue
		}
		path := filepath.Join(filepath.Dir(l.path), name)
		if path == l.path {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		other := strings.TrimSpace(string(content))
		if other == "" || !overlaps(l.root, other) {
			continue
		}
		if held(path) {
			return other, true
		}
	}
	return "", false
}

func held(path string) bool {
	probe := flock.New(path)
	ok, err := probe.TryLock()
	if err != nil {
		return true
	}
	if !ok {
		return true
	}
	_ = probe.Unlock()
	return false
}

func overlaps(a, b string) bool {
	return within(a, b) || within(b, a)
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"alacflac/internal/audiofmt"
)

var (
	// ErrDirectoryNotFound is returned when the root does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrNotADirectory is returned when the root exists but is not a directory.
	ErrNotADirectory = errors.New("not a directory")
)

// RootError reports a problem with the scan root itself.
type RootError struct {
	Path string
	Err  error
}

func (e *RootError) Error() string {
	switch {
	case errors.Is(e.Err, ErrDirectoryNotFound):
		return fmt.Sprintf("'%s' does not exist.", e.Path)
	case errors.Is(e.Err, ErrNotADirectory):
		return fmt.Sprintf("'%s' is not a valid directory.", e.Path)
	default:
		return fmt.Sprintf("'%s': %v", e.Path, e.Err)
	}
}

func (e *RootError) Unwrap() error { return e.Err }

// Resolve validates root and returns its absolute, cleaned form.
func Resolve(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &RootError{Path: root, Err: ErrDirectoryNotFound}
		}
		return "", &RootError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return "", &RootError{Path: root, Err: ErrNotADirectory}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Path: root, Err: err}
	}
	return abs, nil
}

// Files returns the sorted absolute paths of all regular files below root
// that carry the source format's extension. Symlinks to regular files are
// included; symlinked directories are not descended into.
func Files(root string, source audiofmt.Format) ([]string, error) {
	abs, err := Resolve(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !source.MatchesExt(path) {
			return nil
		}
		if isRegularFile(path, d) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", abs, err)
	}

	sort.Strings(files)
	return files, nil
}

func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

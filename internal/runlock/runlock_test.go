package runlock

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquireIsExclusivePerRoot(t *testing.T) {
	lockDir := t.TempDir()
	root := "/music/library"

	first, err := Acquire(lockDir, root)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := Acquire(lockDir, root); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	other, err := Acquire(lockDir, "/music/other")
	if err != nil {
		t.Fatalf("different root should not contend: %v", err)
	}
	defer other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := Acquire(lockDir, root)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	defer again.Release()
}

func TestAcquireRejectsNestedTrees(t *testing.T) {
	lockDir := t.TempDir()

	child, err := Acquire(lockDir, "/music/album")
	if err != nil {
		t.Fatalf("child Acquire: %v", err)
	}
	if _, err := Acquire(lockDir, "/music"); !errors.Is(err, ErrLocked) {
		t.Fatalf("parent should contend with a locked subdirectory, got %v", err)
	}
	if _, err := Acquire(lockDir, "/music/album/disc1"); !errors.Is(err, ErrLocked) {
		t.Fatalf("grandchild should contend with a locked parent, got %v", err)
	}

	sibling, err := Acquire(lockDir, "/music/albums")
	if err != nil {
		t.Fatalf("sibling sharing a name prefix should not contend: %v", err)
	}
	defer sibling.Release()

	if err := child.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	// The child's lock file is stale now; the live sibling still overlaps.
	if _, err := Acquire(lockDir, "/music"); !errors.Is(err, ErrLocked) {
		t.Fatalf("parent should still contend with the live sibling, got %v", err)
	}
	if err := sibling.Release(); err != nil {
		t.Fatalf("Release sibling: %v", err)
	}
	parent, err := Acquire(lockDir, "/music")
	if err != nil {
		t.Fatalf("parent Acquire after children released: %v", err)
	}
	defer parent.Release()
}

func TestWithin(t *testing.T) {
	cases := []struct {
		path, dir string
		want      bool
	}{
		{"/music", "/music", true},
		{"/music/a/b", "/music", true},
		{"/music", "/music/a", false},
		{"/musicx", "/music", false},
		{"/music/..hidden", "/music", true},
		{"/other", "/music", false},
	}
	for _, tc := range cases {
		if got := within(tc.path, tc.dir); got != tc.want {
			t.Errorf("within(%q, %q) = %v, want %v", tc.path, tc.dir, got, tc.want)
		}
	}
}

func TestPathForIsStable(t *testing.T) {
	dir := t.TempDir()
	a := PathFor(dir, "/music/x/")
	b := PathFor(dir, "/music/x")
	if a != b {
		t.Fatalf("expected cleaned roots to share a lock: %s vs %s", a, b)
	}
	if filepath.Dir(a) != dir {
		t.Fatalf("lock should live in %s, got %s", dir, a)
	}
	var nilLock *Lock
	if err := nilLock.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}

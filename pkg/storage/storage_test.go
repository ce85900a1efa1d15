package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveSanitizesFilename(t *testing.T) {
	store := NewImageStore(t.TempDir())
	name, err := store.Save("../../etc/pass wd.png", bytes.NewReader([]byte("data")))
	if err != nil {
		t.Fatal(err)
	}
	if name != "pass_wd.png" {
		t.Fatalf("unexpected stored name %q", name)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), name)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestRemoveMissingFileIsNoError(t *testing.T) {
	store := NewImageStore(t.TempDir())
	if err := store.Remove("never-there.png"); err != nil {
		t.Fatalf("remove of missing file should be nil, got %v", err)
	}
}

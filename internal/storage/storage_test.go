package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPutAndPublicURL(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/files/")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	name, size, err := store.Put("contracts-outline.pdf", strings.NewReader("outline body"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if size != int64(len("outline body")) {
		t.Fatalf("expected size %d, got %d", len("outline body"), size)
	}
	if filepath.Ext(name) != ".pdf" {
		t.Fatalf("stored name must keep the extension, got %s", name)
	}
	if name == "contracts-outline.pdf" {
		t.Fatalf("stored name must not reuse the upload name")
	}

	url := store.PublicURL(name)
	if url != "http://localhost:8080/files/"+name {
		t.Fatalf("unexpected public URL %s", url)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "outline body" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestRemoveMissingFileIsNonFatal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/files")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	if err := store.Remove("does-not-exist.pdf"); err != nil {
		t.Fatalf("expected missing file removal to be a no-op, got %v", err)
	}
}

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempSite(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempSite(t)
	content := []byte("<html><body>Hello</body></html>")
	if err := s.Write("note.html", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("note.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempSite(t)
	if err := s.Write("a/b/c.html", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestListOnlyHTML(t *testing.T) {
	s := tempSite(t)
	_ = s.Write("one.html", []byte("1"))
	_ = s.Write("sub/two.html", []byte("2"))
	_ = s.Write("styles.css", []byte("body{}"))

	metas, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2 (.css excluded)", len(metas))
	}
	seen := map[string]bool{}
	for _, m := range metas {
		seen[m.Path] = true
		if m.Checksum == "" {
			t.Errorf("empty checksum for %s", m.Path)
		}
	}
	if !seen["one.html"] || !seen["sub/two.html"] {
		t.Errorf("paths = %v", metas)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	s := tempSite(t)
	if _, err := s.Read("../outside.html"); err == nil {
		t.Error("expected traversal rejection on read")
	}
	if err := s.Write("../outside.html", []byte("x")); err == nil {
		t.Error("expected traversal rejection on write")
	}
	if _, err := s.Read(filepath.Join(string(os.PathSeparator), "etc", "passwd")); err == nil {
		t.Error("expected absolute path rejection")
	}
}

func TestNewFSRequiresExistingDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(os.TempDir(), "raido-does-not-exist-xyz")); err == nil {
		t.Error("expected error for missing root")
	}
}

package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOS(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "a.md"), []byte("# A"), 0o644); err != nil {
		t.Fatal(err)
	}

	fsys := NewOS()
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "sub" || !entries[0].IsDir {
		t.Fatalf("entries = %+v", entries)
	}

	file := fsys.Join(entries[0].FullPath, "a.md")
	data, err := fsys.ReadFile(file)
	if err != nil || string(data) != "# A" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}
	fi, err := fsys.Stat(file)
	if err != nil || fi.Size != 3 {
		t.Fatalf("Stat = %+v, %v", fi, err)
	}
	rel, err := fsys.Rel(dir, file)
	if err != nil || rel != "sub/a.md" {
		t.Errorf("Rel = %q, %v", rel, err)
	}
}

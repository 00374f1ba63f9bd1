package source

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"
)

func TestMemoryReadDir(t *testing.T) {
	m := NewMemory(map[string]string{
		"/root/a.md":       "a",
		"/root/sub/b.md":   "b",
		"/root/sub/x/c.md": "c",
	})
	m.Mkdir("/root/empty")

	entries, err := m.ReadDir("/root")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	want := []Entry{
		{Name: "a.md", IsDir: false, FullPath: "/root/a.md"},
		{Name: "empty", IsDir: true, FullPath: "/root/empty"},
		{Name: "sub", IsDir: true, FullPath: "/root/sub"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("ReadDir = %#v, want %#v", entries, want)
	}
}

func TestMemoryOrder(t *testing.T) {
	m := NewMemory(map[string]string{"/r/a.md": "", "/r/b.md": "", "/r/c.md": ""})
	m.SetOrder("/r", "c.md", "a.md")

	entries, _ := m.ReadDir("/r")
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if !reflect.DeepEqual(names, []string{"c.md", "a.md", "b.md"}) {
		t.Errorf("names = %v", names)
	}
}

func TestMemoryFailures(t *testing.T) {
	boom := errors.New("boom")
	m := NewMemory(map[string]string{"/r/a.md": "hello"})
	m.FailDir("/r", boom)
	m.FailRead("/r/a.md", boom)
	m.FailStat("/r/a.md", boom)

	if _, err := m.ReadDir("/r"); !errors.Is(err, boom) {
		t.Errorf("ReadDir err = %v", err)
	}
	if _, err := m.ReadFile("/r/a.md"); !errors.Is(err, boom) {
		t.Errorf("ReadFile err = %v", err)
	}
	if _, err := m.Stat("/r/a.md"); !errors.Is(err, boom) {
		t.Errorf("Stat err = %v", err)
	}
	if _, err := m.ReadDir("/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadDir missing err = %v", err)
	}
}

func TestMemoryStatSize(t *testing.T) {
	m := NewMemory(map[string]string{"/r/a.md": "hello"})
	fi, err := m.Stat("/r/a.md")
	if err != nil || fi.Size != 5 {
		t.Fatalf("Stat = %+v, %v", fi, err)
	}
	m.SetSize("/r/a.md", 2<<20)
	fi, _ = m.Stat("/r/a.md")
	if fi.Size != 2<<20 {
		t.Errorf("Size = %d, want override", fi.Size)
	}
}

func TestMemoryRel(t *testing.T) {
	m := NewMemory(nil)
	tests := []struct {
		base, target, want string
		wantErr            bool
	}{
		{"/root", "/root/a/b.md", "a/b.md", false},
		{"root", "/root/b.md", "b.md", false},
		{"/", "/x.md", "x.md", false},
		{"/root", "/other/x.md", "", true},
	}
	for _, tt := range tests {
		got, err := m.Rel(tt.base, tt.target)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Rel(%q, %q) = %q, %v", tt.base, tt.target, got, err)
		}
	}
}

package source

import (
	"os"
	"path/filepath"
)

// OS is a FileSystem backed by the local disk.
type OS struct{}

// NewOS returns the local-disk filesystem.
func NewOS() OS { return OS{} }

// ReadDir lists path in the order os.ReadDir returns entries.
func (OS) ReadDir(path string) ([]Entry, error) {
	des, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(des))
	for _, de := range des {
		out = append(out, Entry{
			Name:     de.Name(),
			IsDir:    de.IsDir(),
			FullPath: filepath.Join(path, de.Name()),
		})
	}
	return out, nil
}

// ReadFile reads the whole file.
func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat reports size and timestamps. CreatedAt falls back to the modification
// time because portable creation times are not available.
func (OS) Stat(path string) (FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Size:       fi.Size(),
		CreatedAt:  fi.ModTime(),
		ModifiedAt: fi.ModTime(),
	}, nil
}

// Join joins path elements with the OS separator.
func (OS) Join(elem ...string) string { return filepath.Join(elem...) }

// Rel returns a slash-separated relative path.
func (OS) Rel(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

var _ FileSystem = OS{}

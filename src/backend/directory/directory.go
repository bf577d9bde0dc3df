package directory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vmrotate/src/backend"
	"vmrotate/src/rotation"
)

// Backend implements backend.StorageBackend over the class-prefixed
// folder layout produced by rotation.
type Backend struct {
	Root string // absolute directory path
}

func New(root string) (*Backend, error) {
	if root == "" {
		return nil, errors.New("directory backend root must not be empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}
	return &Backend{Root: root}, nil
}

func (b *Backend) List(class string) ([]backend.Entry, error) {
	dirs, err := os.ReadDir(b.Root)
	if err != nil {
		return nil, err
	}
	var entries []backend.Entry
	for _, d := range dirs {
		if !d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		c, _, err := rotation.ParseFolderName(d.Name())
		if err != nil {
			// Not a backup folder; skip, not an error.
			continue
		}
		if class != "" && !strings.EqualFold(class, string(c)) {
			continue
		}
		path := filepath.Join(b.Root, d.Name())
		machines, err := readDirNames(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, backend.Entry{
			Class:     string(c),
			Timestamp: strings.TrimPrefix(d.Name(), string(c)+"_"),
			Machines:  machines,
			Path:      path,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Class != entries[j].Class {
			return entries[i].Class < entries[j].Class
		}
		return entries[i].Timestamp < entries[j].Timestamp
	})
	return entries, nil
}

func readDirNames(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

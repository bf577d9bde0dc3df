package rotation

import (
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"
)

// stubDirEntry exercises folderSortKey against entries whose metadata
// cannot be read.
type stubDirEntry struct {
	name    string
	infoErr error
	mtime   time.Time
}

func (s stubDirEntry) Name() string      { return s.name }
func (s stubDirEntry) IsDir() bool       { return true }
func (s stubDirEntry) Type() fs.FileMode { return fs.ModeDir }
func (s stubDirEntry) Info() (fs.FileInfo, error) {
	if s.infoErr != nil {
		return nil, s.infoErr
	}
	return stubFileInfo{name: s.name, mtime: s.mtime}, nil
}

type stubFileInfo struct {
	name  string
	mtime time.Time
}

func (s stubFileInfo) Name() string       { return s.name }
func (s stubFileInfo) Size() int64        { return 0 }
func (s stubFileInfo) Mode() fs.FileMode  { return fs.ModeDir }
func (s stubFileInfo) ModTime() time.Time { return s.mtime }
func (s stubFileInfo) IsDir() bool        { return true }
func (s stubFileInfo) Sys() any           { return nil }

var _ os.DirEntry = stubDirEntry{}

func TestFolderSortKey_ParseableName(t *testing.T) {
	key, ok := folderSortKey(stubDirEntry{name: "Weekly_2024_01_08_0000", infoErr: errors.New("unreadable")})
	if !ok {
		t.Fatalf("well-formed name must yield a key even without metadata")
	}
	want := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !key.Equal(want) {
		t.Fatalf("key = %v, want %v", key, want)
	}
}

func TestFolderSortKey_MalformedNameFallsBackToModTime(t *testing.T) {
	mtime := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	key, ok := folderSortKey(stubDirEntry{name: "Weekly_old", mtime: mtime})
	if !ok {
		t.Fatalf("readable entry must yield a key")
	}
	if !key.Equal(mtime) {
		t.Fatalf("key = %v, want mtime %v", key, mtime)
	}
}

func TestFolderSortKey_UnreadableEntryExcluded(t *testing.T) {
	if _, ok := folderSortKey(stubDirEntry{name: "Weekly_old", infoErr: errors.New("stat failed")}); ok {
		t.Fatalf("entry with no name timestamp and no metadata must be excluded, not keyed as zero time")
	}
}

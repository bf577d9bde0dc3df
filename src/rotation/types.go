package rotation

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Status is the per-machine outcome of one rotation run.
type Status string

const (
	StatusExported Status = "exported"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// MachineResult records the outcome for one requested machine, in the
// order the caller supplied it.
type MachineResult struct {
	Machine string
	Status  Status
	Err     error
}

// Result describes what a rotation run did.
type Result struct {
	// Folder is the absolute path of the newly created backup folder.
	Folder string
	// Pruned is the path of the deleted oldest folder, if any.
	Pruned string
	// PruneErr is set when the oldest folder could not be removed.
	// The rotation still proceeds; disk pressure from a failed
	// deletion is less harmful than skipping the backup.
	PruneErr error
	Machines []MachineResult
}

// Options tune a rotation run. The zero value runs synchronously,
// without confirmation, against the wall clock.
type Options struct {
	// Background submits each export as a platform-managed job and
	// does not wait for completion.
	Background bool
	// Now supplies the rotation timestamp; defaults to time.Now.
	Now func() time.Time
	// Confirm, when set, is asked before each machine's export. A
	// declined machine is skipped, not failed.
	Confirm func(machine string) (bool, error)
	// Remove deletes the oldest folder tree; defaults to os.RemoveAll.
	Remove func(path string) error
	// Logger receives warnings for tolerated partial failures.
	Logger *zerolog.Logger
}

// EnumerationError means the backup root could not be listed. The
// rotation aborts before any deletion or creation.
type EnumerationError struct {
	Root string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate backup root %s: %v", e.Root, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// FolderCreationError means the new backup folder could not be
// created. The rotation aborts before any export.
type FolderCreationError struct {
	Path string
	Err  error
}

func (e *FolderCreationError) Error() string {
	return fmt.Sprintf("create backup folder %s: %v", e.Path, e.Err)
}

func (e *FolderCreationError) Unwrap() error { return e.Err }

package rotation

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vmrotate/src/hypervisor"
)

// Rotate performs one rotation run for a class under root: it deletes
// the oldest folder of that class when the retention count is reached,
// creates a new timestamp-named folder, and exports each named machine
// into it. Exports are independent; one machine's failure does not
// stop the others. Running two rotations concurrently against the same
// root is not supported.
func Rotate(client hypervisor.Client, root string, class Class, retain int, machines []string, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	remove := opts.Remove
	if remove == nil {
		remove = os.RemoveAll
	}

	existing, err := listClassFolders(root, class)
	if err != nil {
		return Result{}, &EnumerationError{Root: root, Err: err}
	}

	var res Result
	if len(existing) > 0 && len(existing) >= retain {
		oldest := existing[0]
		logger.Debug().
			Str("class", string(class)).
			Int("count", len(existing)).
			Int("retain", retain).
			Str("folder", oldest.path).
			Msg("retention reached, removing oldest backup folder")
		if err := remove(oldest.path); err != nil {
			res.PruneErr = err
			logger.Warn().Err(err).Str("folder", oldest.path).
				Msg("could not remove oldest backup folder, continuing")
		} else {
			res.Pruned = oldest.path
		}
	}

	folder := filepath.Join(root, FolderName(class, now()))
	if err := os.Mkdir(folder, 0o755); err != nil {
		return res, &FolderCreationError{Path: folder, Err: err}
	}
	res.Folder = folder

	for _, name := range machines {
		if opts.Confirm != nil {
			ok, err := opts.Confirm(name)
			if err != nil {
				res.Machines = append(res.Machines, MachineResult{Machine: name, Status: StatusFailed, Err: err})
				continue
			}
			if !ok {
				res.Machines = append(res.Machines, MachineResult{Machine: name, Status: StatusSkipped})
				continue
			}
		}
		if err := client.ExportVirtualMachine(name, folder, opts.Background); err != nil {
			logger.Warn().Err(err).Str("machine", name).Msg("export failed")
			res.Machines = append(res.Machines, MachineResult{Machine: name, Status: StatusFailed, Err: err})
			continue
		}
		res.Machines = append(res.Machines, MachineResult{Machine: name, Status: StatusExported})
	}
	return res, nil
}

type classFolder struct {
	path string
	key  time.Time
}

// listClassFolders returns the class-prefixed folders under root,
// oldest first. Name order breaks ties, so the oldest selection is
// deterministic.
func listClassFolders(root string, class Class) ([]classFolder, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	prefix := string(class) + "_"
	var out []classFolder
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		key, ok := folderSortKey(e)
		if !ok {
			continue
		}
		out = append(out, classFolder{path: filepath.Join(root, e.Name()), key: key})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].key.Equal(out[j].key) {
			return out[i].key.Before(out[j].key)
		}
		return out[i].path < out[j].path
	})
	return out, nil
}

// folderSortKey derives a folder's age key for oldest-first ordering.
// Well-formed names use their encoded timestamp; malformed names fall
// back to the directory's modification time. An entry with neither a
// parseable name nor readable metadata is excluded so it can never be
// picked as the deletion victim.
func folderSortKey(e os.DirEntry) (time.Time, bool) {
	if _, ts, err := ParseFolderName(e.Name()); err == nil {
		return ts, true
	}
	if info, err := e.Info(); err == nil {
		return info.ModTime(), true
	}
	return time.Time{}, false
}

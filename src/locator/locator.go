// Package locator finds the most recent backup folder containing a
// given machine's export, and can drive a restore from it.
package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"vmrotate/src/hypervisor"
	"vmrotate/src/rotation"
)

// Ref points at one machine's export inside a backup folder.
type Ref struct {
	// Path is the backup folder, e.g. <root>/Weekly_2024_01_15_0930.
	Path string
	// Folder is the backup folder's base name.
	Folder string
	// MachineDir is the machine's export directory inside Path.
	MachineDir string
	Class      rotation.Class
	Timestamp  time.Time
	// DateKey is the raw zero-padded timestamp portion of the folder
	// name. Lexicographic order on it equals chronological order.
	DateKey string
}

// NotFoundError means no backup folder contains the machine.
type NotFoundError struct{ Machine string }

func (e *NotFoundError) Error() string { return "no backup found for machine " + e.Machine }

// ConfigNotFoundError means the located export carries no
// configuration descriptor.
type ConfigNotFoundError struct{ Dir string }

func (e *ConfigNotFoundError) Error() string {
	return "no configuration descriptor in " + e.Dir
}

// AmbiguousConfigError means more than one descriptor exists and the
// caller has not disambiguated. We fail rather than guess.
type AmbiguousConfigError struct {
	Dir        string
	Candidates []string
}

func (e *AmbiguousConfigError) Error() string {
	return fmt.Sprintf("%d configuration descriptors in %s: %s", len(e.Candidates), e.Dir, strings.Join(e.Candidates, ", "))
}

// folderPattern matches class-prefixed backup folder names and
// captures the class and the sortable timestamp string.
var folderPattern = func() *regexp.Regexp {
	classes := rotation.Classes()
	alts := make([]string, 0, len(classes))
	for _, c := range classes {
		alts = append(alts, regexp.QuoteMeta(string(c)))
	}
	return regexp.MustCompile(`^(` + strings.Join(alts, "|") + `)_(\d{4}_\d{2}_\d{2}_\d{4})$`)
}()

// FindLatest returns the most recent backup folder under root that
// contains an export of the named machine. Folders whose name does
// not match the class+timestamp pattern are excluded, not errors.
// With no intervening rotation the result is stable across calls.
func FindLatest(root, machine string) (Ref, error) {
	matches, err := filepath.Glob(filepath.Join(root, "*", machine))
	if err != nil {
		return Ref{}, fmt.Errorf("scan %s for %s: %w", root, machine, err)
	}
	var candidates []Ref
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		parent := filepath.Dir(m)
		sub := folderPattern.FindStringSubmatch(filepath.Base(parent))
		if sub == nil {
			continue
		}
		class, ts, err := rotation.ParseFolderName(filepath.Base(parent))
		if err != nil {
			continue
		}
		candidates = append(candidates, Ref{
			Path:       parent,
			Folder:     filepath.Base(parent),
			MachineDir: m,
			Class:      class,
			Timestamp:  ts,
			DateKey:    sub[2],
		})
	}
	if len(candidates) == 0 {
		return Ref{}, &NotFoundError{Machine: machine}
	}
	// Descending lexicographic order on the zero-padded date string is
	// descending chronological order. Folder name breaks ties between
	// classes sharing a timestamp.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DateKey != candidates[j].DateKey {
			return candidates[i].DateKey > candidates[j].DateKey
		}
		return candidates[i].Folder > candidates[j].Folder
	})
	return candidates[0], nil
}

// ImportResult describes a completed restore.
type ImportResult struct {
	Ref        Ref
	Descriptor string
}

// ImportLatest restores the machine's most recent backup: it locates
// the newest export, selects its single configuration descriptor, and
// asks the platform to import a copy under a freshly generated
// identity. newName optionally overrides the restored machine's name.
func ImportLatest(client hypervisor.Client, root, machine, newName string) (ImportResult, error) {
	ref, err := FindLatest(root, machine)
	if err != nil {
		return ImportResult{}, err
	}
	descriptor, err := selectDescriptor(ref.MachineDir)
	if err != nil {
		return ImportResult{Ref: ref}, err
	}
	opts := hypervisor.ImportOptions{Copy: true, NewIdentity: true, Name: newName}
	if err := client.ImportVirtualMachine(descriptor, opts); err != nil {
		return ImportResult{Ref: ref, Descriptor: descriptor}, err
	}
	return ImportResult{Ref: ref, Descriptor: descriptor}, nil
}

// selectDescriptor picks the single configuration descriptor of an
// export. Zero or several descriptors abort the import.
func selectDescriptor(machineDir string) (string, error) {
	dir := filepath.Join(machineDir, hypervisor.DescriptorDir)
	matches, err := filepath.Glob(filepath.Join(dir, "*"+hypervisor.DescriptorExt))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", &ConfigNotFoundError{Dir: dir}
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, filepath.Base(m))
		}
		return "", &AmbiguousConfigError{Dir: dir, Candidates: names}
	}
}

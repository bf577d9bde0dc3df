package rotation

import (
	"fmt"
	"strings"
	"time"
)

// Class is a named backup cadence group. Each class keeps its own
// folder-count retention policy under the backup root.
type Class string

const (
	Weekly  Class = "Weekly"
	Monthly Class = "Monthly"
)

// timeLayout encodes folder timestamps at minute granularity. The
// zero-padded fixed-width fields make lexicographic order equal to
// chronological order, which the locator relies on.
const timeLayout = "2006_01_02_1504"

// Classes returns the known retention classes, in pattern order.
func Classes() []Class {
	return []Class{Monthly, Weekly}
}

// ParseClass resolves case-insensitive user input to a known class.
func ParseClass(s string) (Class, error) {
	for _, c := range Classes() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown retention class %q (expected weekly or monthly)", s)
}

// FolderName builds the backup folder name for a class and timestamp,
// e.g. Weekly_2024_01_15_0930.
func FolderName(class Class, t time.Time) string {
	return string(class) + "_" + t.Format(timeLayout)
}

// ParseFolderName recovers the class and timestamp from a folder name
// produced by FolderName. It is the inverse for every name FolderName
// can emit.
func ParseFolderName(name string) (Class, time.Time, error) {
	for _, c := range Classes() {
		prefix := string(c) + "_"
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		t, err := time.Parse(timeLayout, strings.TrimPrefix(name, prefix))
		if err != nil {
			return "", time.Time{}, fmt.Errorf("folder %q: %w", name, err)
		}
		return c, t, nil
	}
	return "", time.Time{}, fmt.Errorf("folder %q does not carry a known class prefix", name)
}

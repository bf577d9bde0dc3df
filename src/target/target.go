package target

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Target is a parsed backup target URI.
// Example: dir:/mnt/nas/vm-backups
type Target struct {
	// Raw is the original input string.
	Raw string
	// Scheme is the backend scheme. Only "dir" is supported.
	Scheme string
	// DirPath is the cleaned absolute backup root path.
	DirPath string
}

// Parse parses a target URI like "dir:/path" into a Target.
func Parse(raw string) (Target, error) {
	t := Target{Raw: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		return t, fmt.Errorf("target must not be empty; expected format 'dir:/path'")
	}
	i := strings.Index(s, ":")
	if i <= 0 || i == len(s)-1 {
		return t, fmt.Errorf("invalid target %q; expected format '<scheme>:<value>' (e.g., 'dir:/path')", raw)
	}
	scheme := strings.ToLower(strings.TrimSpace(s[:i]))
	val := strings.TrimSpace(s[i+1:])
	if scheme != "dir" {
		return t, fmt.Errorf("unsupported backend scheme %q", scheme)
	}
	clean := filepath.Clean(val)
	if !filepath.IsAbs(clean) {
		return t, fmt.Errorf("directory target must be an absolute path: %q", val)
	}
	t.Scheme = scheme
	t.DirPath = clean
	return t, nil
}

// String returns a canonical string form of the target.
func (t Target) String() string {
	if t.Scheme != "" {
		return t.Scheme + ":" + t.DirPath
	}
	return t.Raw
}

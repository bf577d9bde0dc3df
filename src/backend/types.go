package backend

// Entry represents a single backup folder discovered under a backup
// root, together with the machine exports it contains.
type Entry struct {
	Class     string   // retention class, e.g. Weekly
	Timestamp string   // YYYY_MM_DD_HHMM; sorts chronologically as a string
	Machines  []string // machine export subdirectories
	Path      string   // absolute filesystem path to the backup folder
}

// StorageBackend defines read-only listing of a backup tree. class
// filters to a single retention class; empty means all classes.
type StorageBackend interface {
	List(class string) ([]Entry, error)
}

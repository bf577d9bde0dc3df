package rotation_test

import (
	"testing"
	"time"

	"vmrotate/src/rotation"
)

func TestFolderName_Format(t *testing.T) {
	ts := time.Date(2024, 1, 5, 9, 7, 42, 0, time.UTC)
	got := rotation.FolderName(rotation.Weekly, ts)
	// Minute granularity, zero-padded fields, no seconds.
	if got != "Weekly_2024_01_05_0907" {
		t.Fatalf("folder name = %q", got)
	}
}

func TestParseFolderName_RoundTrip(t *testing.T) {
	cases := []struct {
		class rotation.Class
		ts    time.Time
	}{
		{rotation.Weekly, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)},
		{rotation.Monthly, time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)},
		{rotation.Weekly, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		name := rotation.FolderName(c.class, c.ts)
		class, ts, err := rotation.ParseFolderName(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if class != c.class {
			t.Fatalf("parse %q: class = %q, want %q", name, class, c.class)
		}
		if !ts.Equal(c.ts) {
			t.Fatalf("parse %q: timestamp = %v, want %v", name, ts, c.ts)
		}
	}
}

func TestParseFolderName_Rejects(t *testing.T) {
	for _, name := range []string{
		"Daily_2024_01_05_0900", // unknown class
		"Weekly_2024_1_5_0900",  // not zero padded
		"Weekly_notadate",
		"Weekly",
		"",
	} {
		if _, _, err := rotation.ParseFolderName(name); err == nil {
			t.Fatalf("expected parse of %q to fail", name)
		}
	}
}

func TestParseClass(t *testing.T) {
	for in, want := range map[string]rotation.Class{
		"weekly":  rotation.Weekly,
		"Weekly":  rotation.Weekly,
		"MONTHLY": rotation.Monthly,
	} {
		got, err := rotation.ParseClass(in)
		if err != nil {
			t.Fatalf("ParseClass(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseClass(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := rotation.ParseClass("daily"); err == nil {
		t.Fatalf("expected unknown class to fail")
	}
}

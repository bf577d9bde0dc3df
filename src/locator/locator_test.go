package locator_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vmrotate/src/hypervisor"
	"vmrotate/src/locator"
	"vmrotate/src/rotation"
)

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func writeDescriptor(t *testing.T, machineDir, name string) {
	t.Helper()
	dir := filepath.Join(machineDir, hypervisor.DescriptorDir)
	mustMkdirAll(t, dir)
	if err := os.WriteFile(filepath.Join(dir, name+hypervisor.DescriptorExt), []byte("name: "+name+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindLatest_ChronologicalViaLexicographicSort(t *testing.T) {
	root := t.TempDir()
	for _, ts := range []string{"2024_01_05_0900", "2024_01_05_1000", "2023_12_31_2359"} {
		mustMkdirAll(t, filepath.Join(root, "Weekly_"+ts, "web"))
	}

	ref, err := locator.FindLatest(root, "web")
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if ref.Folder != "Weekly_2024_01_05_1000" {
		t.Fatalf("latest = %q, want Weekly_2024_01_05_1000", ref.Folder)
	}
	if ref.Class != rotation.Weekly {
		t.Fatalf("class = %q", ref.Class)
	}
	if ref.DateKey != "2024_01_05_1000" {
		t.Fatalf("date key = %q", ref.DateKey)
	}
}

func TestFindLatest_SpansClasses(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_08_0000", "db"))
	mustMkdirAll(t, filepath.Join(root, "Monthly_2024_02_01_0000", "db"))

	ref, err := locator.FindLatest(root, "db")
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if ref.Folder != "Monthly_2024_02_01_0000" {
		t.Fatalf("latest = %q", ref.Folder)
	}
}

func TestFindLatest_ExcludesNonMatchingFolders(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_01_0000", "web"))
	// Present but malformed or foreign; must be excluded, not errors.
	mustMkdirAll(t, filepath.Join(root, "Weekly_9999_13_99", "web"))
	mustMkdirAll(t, filepath.Join(root, "scratch", "web"))
	mustMkdirAll(t, filepath.Join(root, "Daily_2024_06_01_0000", "web"))

	ref, err := locator.FindLatest(root, "web")
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if ref.Folder != "Weekly_2024_01_01_0000" {
		t.Fatalf("latest = %q, non-matching folders must be excluded", ref.Folder)
	}
}

func TestFindLatest_OnlyFoldersContainingTheMachine(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_08_0000", "other"))
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_01_0000", "web"))

	ref, err := locator.FindLatest(root, "web")
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if ref.Folder != "Weekly_2024_01_01_0000" {
		t.Fatalf("latest = %q, folders without the machine must not win", ref.Folder)
	}
}

func TestFindLatest_IgnoresIncompleteExports(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_01_0000", "web"))
	// A newer rotation whose export was interrupted mid-write holds
	// only the hidden staging directory, not the machine directory.
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_08_0000", ".partial-web"))

	ref, err := locator.FindLatest(root, "web")
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if ref.Folder != "Weekly_2024_01_01_0000" {
		t.Fatalf("latest = %q, incomplete exports must not be candidates", ref.Folder)
	}
}

func TestFindLatest_Idempotent(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_01_0000", "web"))
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_08_0000", "web"))

	first, err := locator.FindLatest(root, "web")
	if err != nil {
		t.Fatal(err)
	}
	second, err := locator.FindLatest(root, "web")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("FindLatest not stable: %+v vs %+v", first, second)
	}
}

func TestFindLatest_NotFound(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_01_0000", "other"))

	_, err := locator.FindLatest(root, "missing")
	var nf *locator.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Machine != "missing" {
		t.Fatalf("error names %q", nf.Machine)
	}
}

func TestImportLatest_CopiesWithFreshIdentity(t *testing.T) {
	root := t.TempDir()
	machineDir := filepath.Join(root, "Weekly_2024_01_08_0000", "web")
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_01_0000", "web"))
	writeDescriptor(t, machineDir, "web")
	client := hypervisor.NewFake("web")

	res, err := locator.ImportLatest(client, root, "web", "")
	if err != nil {
		t.Fatalf("ImportLatest: %v", err)
	}
	if res.Ref.Folder != "Weekly_2024_01_08_0000" {
		t.Fatalf("imported from %q", res.Ref.Folder)
	}
	if len(client.ImportCalls) != 1 {
		t.Fatalf("import calls = %d", len(client.ImportCalls))
	}
	call := client.ImportCalls[0]
	if call.DescriptorPath != res.Descriptor {
		t.Fatalf("descriptor mismatch: %q vs %q", call.DescriptorPath, res.Descriptor)
	}
	if !call.Opts.Copy || !call.Opts.NewIdentity {
		t.Fatalf("import must request copy semantics and a fresh identity: %+v", call.Opts)
	}
}

func TestImportLatest_NoBackupAborts(t *testing.T) {
	client := hypervisor.NewFake("web")
	_, err := locator.ImportLatest(client, t.TempDir(), "web", "")
	var nf *locator.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(client.ImportCalls) != 0 {
		t.Fatalf("no import may be attempted without a backup")
	}
}

func TestImportLatest_ConfigNotFound(t *testing.T) {
	root := t.TempDir()
	// Export folder exists but carries no descriptor.
	mustMkdirAll(t, filepath.Join(root, "Weekly_2024_01_01_0000", "web", hypervisor.DescriptorDir))
	client := hypervisor.NewFake("web")

	_, err := locator.ImportLatest(client, root, "web", "")
	var cnf *locator.ConfigNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("expected ConfigNotFoundError, got %v", err)
	}
	if len(client.ImportCalls) != 0 {
		t.Fatalf("no import may be attempted without a descriptor")
	}
}

func TestImportLatest_AmbiguousConfigAborts(t *testing.T) {
	root := t.TempDir()
	machineDir := filepath.Join(root, "Weekly_2024_01_01_0000", "web")
	writeDescriptor(t, machineDir, "web")
	writeDescriptor(t, machineDir, "web-copy")
	client := hypervisor.NewFake("web")

	_, err := locator.ImportLatest(client, root, "web", "")
	var amb *locator.AmbiguousConfigError
	if !errors.As(err, &amb) {
		t.Fatalf("expected AmbiguousConfigError, got %v", err)
	}
	if len(amb.Candidates) != 2 {
		t.Fatalf("candidates = %v", amb.Candidates)
	}
	if len(client.ImportCalls) != 0 {
		t.Fatalf("ambiguity must abort before the platform is involved")
	}
}

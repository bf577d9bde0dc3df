package hypervisor

import (
	"os"
	"path/filepath"
	"sort"
)

// FakeClient is an in-memory implementation for unit tests. Exports
// write the same directory layout as the real client so the locator
// can be tested against fake-produced trees.
type FakeClient struct {
	MachinesMap map[string]VirtualMachine
	// FailExports injects a per-machine export error.
	FailExports map[string]error

	ExportCalls []ExportCall
	ImportCalls []ImportCall
}

// ExportCall records one ExportVirtualMachine invocation.
type ExportCall struct {
	Name       string
	DestDir    string
	Background bool
}

// ImportCall records one ImportVirtualMachine invocation.
type ImportCall struct {
	DescriptorPath string
	Opts           ImportOptions
}

func NewFake(machines ...string) *FakeClient {
	f := &FakeClient{
		MachinesMap: map[string]VirtualMachine{},
		FailExports: map[string]error{},
	}
	for _, m := range machines {
		f.MachinesMap[m] = VirtualMachine{Name: m, Status: "Running"}
	}
	return f
}

func (f *FakeClient) ListVirtualMachines() ([]VirtualMachine, error) {
	out := make([]VirtualMachine, 0, len(f.MachinesMap))
	for _, m := range f.MachinesMap {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeClient) ExportVirtualMachine(name, destDir string, background bool) error {
	f.ExportCalls = append(f.ExportCalls, ExportCall{Name: name, DestDir: destDir, Background: background})
	if err, ok := f.FailExports[name]; ok {
		return err
	}
	if _, ok := f.MachinesMap[name]; !ok {
		return &NotFoundError{Name: name}
	}
	descDir := filepath.Join(destDir, name, DescriptorDir)
	if err := os.MkdirAll(descDir, 0o755); err != nil {
		return err
	}
	desc := []byte("name: " + name + "\n")
	return os.WriteFile(filepath.Join(descDir, name+DescriptorExt), desc, 0o644)
}

func (f *FakeClient) ImportVirtualMachine(descriptorPath string, opts ImportOptions) error {
	f.ImportCalls = append(f.ImportCalls, ImportCall{DescriptorPath: descriptorPath, Opts: opts})
	if _, err := os.Stat(descriptorPath); err != nil {
		return err
	}
	return nil
}

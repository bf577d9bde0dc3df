package hypervisor

// VirtualMachine models the minimum we need to know about a machine
// on the platform.
type VirtualMachine struct {
	Name   string
	Status string
}

// ImportOptions control how an exported machine is registered again.
type ImportOptions struct {
	// Copy imports a copy of the export artifact, leaving the backup
	// folder untouched.
	Copy bool
	// NewIdentity registers the machine under a freshly generated
	// identity so it cannot collide with an already-registered
	// machine of the same origin.
	NewIdentity bool
	// Name optionally overrides the restored machine's name. Empty
	// means derive one from the descriptor (and NewIdentity).
	Name string
}

// DescriptorDir is the conventional subfolder inside a machine's
// export that holds its configuration descriptors.
const DescriptorDir = "Virtual Machines"

// DescriptorExt is the file extension of configuration descriptors.
const DescriptorExt = ".yaml"

// Client is a narrow interface over the virtualization platform.
// Keep it small and focused on what we actually need so it stays
// mockable.
type Client interface {
	// ListVirtualMachines returns the machines known to the platform.
	ListVirtualMachines() ([]VirtualMachine, error)

	// ExportVirtualMachine copies a machine's full state into
	// destDir/<name>/. With background set, the export is submitted
	// as a platform-managed job and the call returns without waiting
	// for completion.
	ExportVirtualMachine(name, destDir string, background bool) error

	// ImportVirtualMachine registers a machine instance from an
	// exported configuration descriptor.
	ImportVirtualMachine(descriptorPath string, opts ImportOptions) error
}

// NotFoundError reports a machine the platform does not know.
type NotFoundError struct{ Name string }

func (e *NotFoundError) Error() string { return "virtual machine not found: " + e.Name }

package hypervisor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	incuscli "github.com/lxc/incus/client"
	"github.com/lxc/incus/shared/api"
	"gopkg.in/yaml.v3"

	"vmrotate/src/util/progress"
)

// RealClient wraps the official Incus Go client.
type RealClient struct {
	c    incuscli.InstanceServer
	out  io.Writer
	jobs sync.WaitGroup
}

// ConnectLocal connects to the local Incus daemon via the UNIX socket.
// Progress and background-job diagnostics go to out.
func ConnectLocal(out io.Writer) (*RealClient, error) {
	if out == nil {
		out = io.Discard
	}
	c, err := incuscli.ConnectIncusUnix("", nil)
	if err != nil {
		return nil, err
	}
	return &RealClient{c: c, out: out}, nil
}

func (r *RealClient) ListVirtualMachines() ([]VirtualMachine, error) {
	insts, err := r.c.GetInstances(api.InstanceTypeAny)
	if err != nil {
		return nil, err
	}
	out := make([]VirtualMachine, 0, len(insts))
	for _, i := range insts {
		out = append(out, VirtualMachine{Name: i.Name, Status: i.Status})
	}
	return out, nil
}

// ExportVirtualMachine exports a machine into destDir/<name>/: the
// platform's backup tarball plus a configuration descriptor under
// DescriptorDir. The export is assembled in a hidden staging
// directory and renamed into place only when complete, so the locator
// can never select a partial artifact. Incus backups are
// client-driven downloads, so background mode detaches the transfer
// after submitting the server-side backup operation; completion is
// not reported back, and failures only surface on the diagnostics
// writer. Drain blocks until detached transfers have finished.
func (r *RealClient) ExportVirtualMachine(name, destDir string, background bool) error {
	backupName := "vmrotate-" + time.Now().UTC().Format("20060102150405")
	op, err := r.c.CreateInstanceBackup(name, api.InstanceBackupsPost{Name: backupName})
	if err != nil {
		return err
	}
	if background {
		r.jobs.Add(1)
		go func() {
			defer r.jobs.Done()
			if err := r.completeExport(name, backupName, destDir, op); err != nil {
				fmt.Fprintf(r.out, "background export of %s failed: %v\n", name, err)
			}
		}()
		return nil
	}
	return r.completeExport(name, backupName, destDir, op)
}

// Drain waits for background exports submitted by this client to
// finish writing their artifacts. Callers must drain before exiting
// the process, or detached transfers are cut off mid-write.
func (r *RealClient) Drain() { r.jobs.Wait() }

func (r *RealClient) completeExport(name, backupName, destDir string, op incuscli.Operation) error {
	return stageExport(destDir, name, func(staging string) error {
		if err := op.Wait(); err != nil {
			return err
		}
		if err := r.downloadBackup(name, backupName, staging); err != nil {
			return err
		}
		// The descriptor is written last; its presence marks a
		// complete export.
		return r.writeDescriptor(name, staging)
	})
}

// stageExport builds a machine's export under a hidden staging
// directory inside destDir and renames it to destDir/<name> only when
// build succeeds. A failed export leaves nothing behind.
func stageExport(destDir, name string, build func(stagingDir string) error) error {
	staging := filepath.Join(destDir, ".partial-"+name)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return err
	}
	if err := build(staging); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}
	if err := os.Rename(staging, filepath.Join(destDir, name)); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}
	return nil
}

func (r *RealClient) writeDescriptor(name, machineDir string) error {
	inst, _, err := r.c.GetInstance(name)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(inst)
	if err != nil {
		return err
	}
	descDir := filepath.Join(machineDir, DescriptorDir)
	if err := os.MkdirAll(descDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(descDir, name+DescriptorExt), b, 0o644)
}

func (r *RealClient) downloadBackup(name, backupName, machineDir string) error {
	f, err := os.Create(filepath.Join(machineDir, "export.tar.gz"))
	if err != nil {
		return err
	}
	_, err = r.c.GetInstanceBackupFile(name, backupName, &incuscli.BackupFileRequest{BackupFile: f})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	// Clean up the server-side backup; the tarball on disk is the artifact.
	delOp, err := r.c.DeleteInstanceBackup(name, backupName)
	if err != nil {
		return err
	}
	return delOp.Wait()
}

// ImportVirtualMachine registers a machine from a descriptor written
// by ExportVirtualMachine, feeding the sibling export tarball back to
// the platform.
func (r *RealClient) ImportVirtualMachine(descriptorPath string, opts ImportOptions) error {
	if !opts.Copy {
		return fmt.Errorf("import of %s: only copy imports are supported, the backup folder is never consumed in place", descriptorPath)
	}
	b, err := os.ReadFile(descriptorPath)
	if err != nil {
		return err
	}
	var inst api.Instance
	if err := yaml.Unmarshal(b, &inst); err != nil {
		return fmt.Errorf("parse descriptor %s: %w", descriptorPath, err)
	}

	name := opts.Name
	if name == "" {
		name = inst.Name
		if opts.NewIdentity {
			name = fmt.Sprintf("%s-restored-%s", inst.Name, time.Now().UTC().Format("20060102150405"))
		}
	}

	machineDir := filepath.Dir(filepath.Dir(descriptorPath))
	f, err := os.Open(filepath.Join(machineDir, "export.tar.gz"))
	if err != nil {
		return fmt.Errorf("open export artifact for %s: %w", inst.Name, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	args := incuscli.InstanceBackupArgs{
		BackupFile: progress.NewReader(f, info.Size(), "import "+name, r.out),
		Name:       name,
	}
	op, err := r.c.CreateInstanceFromBackup(args)
	if err != nil {
		return err
	}
	return op.Wait()
}

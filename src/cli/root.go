package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vmrotate/src/hypervisor"
)

// connectClient is the seam for talking to the virtualization
// platform; tests replace it with a fake.
var connectClient = func(out io.Writer) (hypervisor.Client, error) {
	return hypervisor.ConnectLocal(out)
}

// NewRootCmd returns the root cobra command for the vmrotate CLI.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vmrotate",
		Short:         "Rotate dated virtual machine export backups and restore the latest one",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addGlobalFlags(cmd)

	cmd.AddCommand(newVersionCmd(stdout))
	cmd.AddCommand(newRotateCmd(stdout, stderr))
	cmd.AddCommand(newRestoreCmd(stdout, stderr))
	cmd.AddCommand(newListCmd(stdout, stderr))
	cmd.AddCommand(newMachinesCmd(stdout, stderr))

	return cmd
}

// Execute runs the CLI with the process stdio.
func Execute() int {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

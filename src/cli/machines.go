package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMachinesCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "machines",
		Short: "List the virtual machines known to the platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectClient(stderr)
			if err != nil {
				return err
			}
			machines, err := client.ListVirtualMachines()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSTATUS")
			for _, m := range machines {
				fmt.Fprintf(tw, "%s\t%s\n", m.Name, m.Status)
			}
			return tw.Flush()
		},
	}
}

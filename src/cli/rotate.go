package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	dir "vmrotate/src/backend/directory"
	"vmrotate/src/rotation"
	"vmrotate/src/safety"
	"vmrotate/src/target"
)

func newRotateCmd(stdout, stderr io.Writer) *cobra.Command {
	var classFlag string
	var keep int
	var background bool
	cmd := &cobra.Command{
		Use:   "rotate [NAME...]",
		Short: "Prune the oldest backup folder and export machines into a new one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep <= 0 {
				return errors.New("--keep must be > 0")
			}
			tgtStr, _ := cmd.Flags().GetString("target")
			if tgtStr == "" {
				return errors.New("--target is required (e.g., dir:/path)")
			}
			tgt, err := target.Parse(tgtStr)
			if err != nil {
				return err
			}
			class, err := rotation.ParseClass(classFlag)
			if err != nil {
				return err
			}
			client, err := connectClient(stderr)
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				machines, err := client.ListVirtualMachines()
				if err != nil {
					return err
				}
				for _, m := range machines {
					names = append(names, m.Name)
				}
			}

			opts := getSafetyOptions(cmd)
			if opts.DryRun {
				return previewRotation(stdout, tgt.DirPath, class, keep, names)
			}

			logger := newLogger(cmd, stderr)
			stdin := cmd.InOrStdin()
			rotOpts := rotation.Options{
				Background: background,
				Logger:     &logger,
				Confirm: func(machine string) (bool, error) {
					return safety.Confirm(opts, stdin, stdout, fmt.Sprintf("Export machine %q?", machine))
				},
			}
			res, err := rotation.Rotate(client, tgt.DirPath, class, keep, names, rotOpts)
			if err != nil {
				return err
			}
			if res.Pruned != "" {
				fmt.Fprintf(stdout, "Pruned %s\n", res.Pruned)
			}
			fmt.Fprintf(stdout, "Created %s\n", res.Folder)
			if err := renderOutcome(stdout, res.Machines); err != nil {
				return err
			}
			// Background exports run detached; the process must not
			// exit while they are still writing artifacts.
			if d, ok := client.(interface{ Drain() }); ok {
				d.Drain()
			}
			return nil
		},
	}
	cmd.Flags().String("target", "", "Backend target URI (e.g., dir:/path)")
	cmd.Flags().StringVar(&classFlag, "class", "weekly", "Retention class: weekly|monthly")
	cmd.Flags().IntVar(&keep, "keep", 2, "Number of backup folders to retain per class")
	cmd.Flags().BoolVar(&background, "background", false, "Submit exports as platform background jobs and do not wait")
	return cmd
}

// previewRotation prints what a rotation would do, without touching
// the tree or the platform.
func previewRotation(stdout io.Writer, root string, class rotation.Class, keep int, names []string) error {
	b, err := dir.New(root)
	if err != nil {
		return err
	}
	existing, err := b.List(string(class))
	if err != nil {
		return err
	}
	if len(existing) >= keep {
		fmt.Fprintf(stdout, "Would prune %s\n", existing[0].Path)
	}
	fmt.Fprintf(stdout, "Would create a new %s backup folder\n", class)
	for _, n := range names {
		fmt.Fprintf(stdout, "Would export %s\n", n)
	}
	return nil
}

func renderOutcome(w io.Writer, results []rotation.MachineResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MACHINE\tSTATUS\tERROR")
	for _, r := range results {
		errStr := ""
		if r.Err != nil {
			errStr = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Machine, r.Status, errStr)
	}
	return tw.Flush()
}

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vmrotate/src/locator"
	"vmrotate/src/safety"
	"vmrotate/src/target"
)

func newRestoreCmd(stdout, stderr io.Writer) *cobra.Command {
	var asName string
	cmd := &cobra.Command{
		Use:   "restore NAME",
		Short: "Import the most recent backup of a machine as a new copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machine := args[0]
			tgtStr, _ := cmd.Flags().GetString("target")
			if tgtStr == "" {
				return errors.New("--target is required (e.g., dir:/path)")
			}
			tgt, err := target.Parse(tgtStr)
			if err != nil {
				return err
			}

			ref, err := locator.FindLatest(tgt.DirPath, machine)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Latest backup of %s: %s (%s)\n", machine, ref.Folder, ref.Timestamp.Format("2006-01-02 15:04"))

			opts := getSafetyOptions(cmd)
			if opts.DryRun {
				return nil
			}
			ok, err := safety.Confirm(opts, cmd.InOrStdin(), stdout,
				fmt.Sprintf("Import machine %q from %s?", machine, ref.Folder))
			if err != nil || !ok {
				return err
			}

			client, err := connectClient(stderr)
			if err != nil {
				return err
			}
			res, err := locator.ImportLatest(client, tgt.DirPath, machine, asName)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Imported %s from %s\n", machine, res.Descriptor)
			return nil
		},
	}
	cmd.Flags().String("target", "", "Backend target URI (e.g., dir:/path)")
	cmd.Flags().StringVar(&asName, "as", "", "Name for the restored machine (default: derived, with a fresh identity)")
	return cmd
}

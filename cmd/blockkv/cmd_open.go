package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cmdOpen = &cobra.Command{
	Use:   "open",
	Short: "Open the backend and report whether it succeeds",
	Long: `
The "open" command opens the configured backend, prints its kind, URI and
current extent (eoa and eof), and exits non-zero if the open itself fails.
It does not print the page size. It is meant
as a quick connectivity/configuration check before running other
subcommands.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		fmt.Printf("opened %s backend at %s\n", globalOpts.BackendID, globalOpts.URI)
		fmt.Printf("eoa=%d eof=%d\n", d.GetEOA(), d.GetEOF())
		return nil
	},
}

func init() {
	cmdRoot.AddCommand(cmdOpen)
}

package main

import "github.com/spf13/cobra"

var cmdFlush = &cobra.Command{
	Use:   "flush",
	Short: "Persist dirty pages and metadata",
	Long: `
The "flush" command opens the backend and immediately flushes it. On its
own it writes no pages for a fresh open (nothing is dirty yet) and only
rewrites the backend's metadata; it exists
mainly as a building block other tooling can script around, and to
surface a backend's Flush failures in isolation.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()
		return d.Flush(cmd.Context())
	},
}

func init() {
	cmdRoot.AddCommand(cmdFlush)
}

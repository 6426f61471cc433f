package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/h5s3/h5s3/internal/errors"
)

var cmdTruncate = &cobra.Command{
	Use:   "truncate <eoa>",
	Short: "Set EOA and truncate storage to it",
	Long: `
The "truncate" command sets the end-of-address-space to <eoa>, truncates
backing storage down to it, and flushes. Every byte at or past <eoa>
subsequently reads as zero.
`,
	Args:              cobra.ExactArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		eoa, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return errors.ConfigError("invalid eoa %q: %v", args[0], err)
		}

		d, err := openDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		d.SetEOA(eoa)
		if err := d.Truncate(cmd.Context()); err != nil {
			return err
		}
		return d.Flush(cmd.Context())
	},
}

func init() {
	cmdRoot.AddCommand(cmdTruncate)
}

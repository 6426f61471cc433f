package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/h5s3/h5s3/internal/errors"
)

var cmdCat = &cobra.Command{
	Use:   "cat <addr> <len>",
	Short: "Read a byte range and write it to stdout",
	Long: `
The "cat" command reads <len> bytes starting at <addr> through the page
table and writes them to stdout, uninterpreted. Bytes never written (or
beyond the backend's extent) read as zero.
`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return errors.ConfigError("invalid addr %q: %v", args[0], err)
		}
		length, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return errors.ConfigError("invalid len %q: %v", args[1], err)
		}

		d, err := openDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		buf := make([]byte, length)
		if err := d.Read(cmd.Context(), addr, buf); err != nil {
			return err
		}
		_, err = os.Stdout.Write(buf)
		return err
	},
}

func init() {
	cmdRoot.AddCommand(cmdCat)
}

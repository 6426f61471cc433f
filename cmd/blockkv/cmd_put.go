package main

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/h5s3/h5s3/internal/errors"
)

var putFlush bool

var cmdPut = &cobra.Command{
	Use:   "put <addr> <file>",
	Short: "Write a file's contents at a byte address",
	Long: `
The "put" command writes the contents of <file> (use "-" for stdin)
starting at <addr> through the page table. It also extends EOA to cover
the write if the write reaches past the current EOA. Pass --flush to
persist the write before exiting.
`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return errors.ConfigError("invalid addr %q: %v", args[0], err)
		}

		var data []byte
		if args[1] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[1])
		}
		if err != nil {
			return errors.Wrap(err, "reading input")
		}

		d, err := openDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Write(cmd.Context(), addr, data); err != nil {
			return err
		}
		if end := addr + uint64(len(data)); end > d.GetEOA() {
			d.SetEOA(end)
		}

		if putFlush {
			return d.Flush(cmd.Context())
		}
		return nil
	},
}

func init() {
	cmdPut.Flags().BoolVar(&putFlush, "flush", false, "flush the backend after writing")
	cmdRoot.AddCommand(cmdPut)
}

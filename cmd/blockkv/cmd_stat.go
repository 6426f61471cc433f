package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cmdStat = &cobra.Command{
	Use:               "stat",
	Short:             "Print the backend's extent (eoa and eof)",
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		fmt.Printf("eoa:  %d\n", d.GetEOA())
		fmt.Printf("eof:  %d\n", d.GetEOF())
		return nil
	},
}

func init() {
	cmdRoot.AddCommand(cmdStat)
}

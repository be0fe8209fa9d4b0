package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"expectest/internal/diag"
	"expectest/internal/output"
)

var parseShowUnmatched bool

func init() {
	parseCmd.Flags().BoolVar(&parseShowUnmatched, "unmatched", false, "also print lines that did not parse as diagnostics")
}

// parseCmd exposes the compiler-output grammar directly: pipe compiler
// output in, get the structured diagnostics back.
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse compiler output from stdin into structured diagnostics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		diags, unmatched, err := output.Collect(os.Stdin)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if s := diag.FormatStable(diags); s != "" {
			fmt.Fprintln(out, s)
		}
		if parseShowUnmatched {
			for _, line := range unmatched {
				fmt.Fprintf(out, "unmatched: %s\n", line)
			}
		}
		return nil
	},
}

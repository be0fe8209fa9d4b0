package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"expectest/internal/expect"
	"expectest/internal/testkit"
)

var (
	expectRevision string
	expectFormat   string
)

func init() {
	expectCmd.Flags().StringVar(&expectRevision, "revision", "", "configuration tag to scan for")
	expectCmd.Flags().StringVar(&expectFormat, "format", "pretty", "output format (pretty|json)")
}

// expectCmd exposes the annotation scanner directly, for debugging test
// files without invoking the compiler.
var expectCmd = &cobra.Command{
	Use:   "expect <file>",
	Short: "Scan one test file and print its expected diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exps, err := expect.LoadErrors(args[0], expectRevision)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if expectFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(exps)
		}

		for _, exp := range exps {
			fmt.Fprintf(out, "line %d: %s %s\n", exp.LineNum, exp.Kind, exp.Msg)
		}
		if err := testkit.CheckExpectationInvariants(exps); err != nil {
			fmt.Fprintf(out, "warning: %v\n", err)
		}
		return nil
	},
}

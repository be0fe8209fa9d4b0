package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"expectest/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "expectest",
	Short: "Expected-diagnostics test harness for compilers",
	Long: `expectest runs a compiler against annotated test files and checks that
the diagnostics it emits match the //~ ERROR annotations in the sources.`,
}

// Exit codes: 0 all tests passed, 1 test failures, 2 usage/config errors.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(expectCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	cobra.OnInitialize(configureColor)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitUsage)
	}
}

func configureColor() {
	mode, _ := rootCmd.PersistentFlags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}

func colorizeOutput() bool {
	return !color.NoColor
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"expectest/internal/harness"
	"expectest/internal/manifest"
	"expectest/internal/ui"
)

var (
	runCompiler  []string
	runExt       string
	runRevisions []string
	runJobs      int
	runNoCache   bool
	runUI        bool
	runFormat    string
)

func init() {
	runCmd.Flags().StringSliceVar(&runCompiler, "compiler", nil, "compiler argv prefix, e.g. --compiler surge,diag")
	runCmd.Flags().StringVar(&runExt, "ext", "", "test file extension (default from manifest, else .sg)")
	runCmd.Flags().StringSliceVar(&runRevisions, "revision", nil, "configuration tags; each file runs once per tag")
	runCmd.Flags().IntVar(&runJobs, "jobs", 0, "parallel jobs (0 = GOMAXPROCS)")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "disable the passing-result cache")
	runCmd.Flags().BoolVar(&runUI, "ui", true, "interactive progress when stdout is a terminal")
	runCmd.Flags().StringVar(&runFormat, "format", "pretty", "report format (pretty|json)")
}

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Run a test suite against the compiler under test",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startDir := "."
		if len(args) == 1 {
			startDir = args[0]
		}

		cfg, dir, err := resolveRunConfig(startDir)
		if err != nil {
			return err
		}

		format := strings.ToLower(runFormat)
		switch format {
		case "pretty", "json":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", runFormat)
		}

		quiet, _ := cmd.Flags().GetBool("quiet")

		var events chan harness.Event
		interactive := runUI && format == "pretty" && !quiet && isTerminal(os.Stdout)
		var uiDone <-chan error
		if interactive {
			// The UI sizes itself from the same snapshot the runner
			// executes, so the progress bar and the events agree.
			files, err := harness.ListTestFiles(dir, cfg.Ext)
			if err != nil {
				return err
			}
			events = make(chan harness.Event, 64)
			cfg.Files = files
			cfg.Events = events
			uiDone = startProgressUI(files, cfg.Revisions, events)
		}

		runner := harness.NewRunner(cfg)
		results, total, err := runner.Run(cmd.Context(), dir)
		if uiDone != nil {
			<-uiDone
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			if err := renderRunJSON(out, results, total); err != nil {
				return err
			}
		} else {
			renderRunPretty(out, results, total, quiet)
		}

		if !total.OK() {
			os.Exit(exitFailed)
		}
		return nil
	},
}

// resolveRunConfig merges the optional manifest with CLI flags; flags win.
func resolveRunConfig(startDir string) (harness.Config, string, error) {
	cfg := harness.Config{
		Compiler:  runCompiler,
		Ext:       runExt,
		Revisions: runRevisions,
		Jobs:      runJobs,
	}
	dir := startDir

	m, ok, err := manifest.Load(startDir)
	if err != nil {
		return harness.Config{}, "", err
	}
	if ok {
		dir = m.Root
		if len(cfg.Compiler) == 0 && m.Config.Compiler.Cmd != "" {
			cfg.Compiler = append([]string{m.Config.Compiler.Cmd}, m.Config.Compiler.Args...)
		}
		if cfg.Ext == "" {
			cfg.Ext = m.Config.Suite.Ext
		}
		if len(cfg.Revisions) == 0 {
			cfg.Revisions = m.Config.Run.Revisions
		}
		if cfg.Jobs == 0 {
			cfg.Jobs = m.Config.Run.Jobs
		}
	}

	if cfg.Ext == "" {
		cfg.Ext = ".sg"
	}
	if len(cfg.Compiler) == 0 {
		return harness.Config{}, "", fmt.Errorf("no compiler configured: pass --compiler or add a [compiler] section to %s", manifest.FileName)
	}

	if !runNoCache {
		cache, err := harness.OpenCache("expectest")
		if err == nil {
			cfg.Cache = cache
		}
		// A cache that cannot be opened only costs speed.
	}
	return cfg, dir, nil
}

func startProgressUI(files, revisions []string, events <-chan harness.Event) <-chan error {
	revs := revisions
	if len(revs) == 0 {
		revs = []string{""}
	}
	jobs := make([]string, 0, len(files)*len(revs))
	for _, f := range files {
		for _, rev := range revs {
			jobs = append(jobs, ui.JobLabel(f, rev))
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- ui.RunProgress("running tests", jobs, events)
	}()
	return done
}

func renderRunPretty(w io.Writer, results []harness.FileResult, total harness.RunResult, quiet bool) {
	for _, res := range results {
		if quiet && (res.Status == harness.StatusPass || res.Status == harness.StatusCached) {
			continue
		}
		label := res.Path
		if res.Revision != "" {
			label = fmt.Sprintf("%s[%s]", res.Path, res.Revision)
		}
		fmt.Fprintf(w, "%s ... %s\n", label, statusColor(res.Status).Sprint(res.Status))

		switch res.Status {
		case harness.StatusFail:
			res.Result.Render(w, colorizeOutput())
		case harness.StatusBroken:
			fmt.Fprintf(w, "  %v\n", res.Err)
		}
	}
	fmt.Fprintln(w)
	total.WriteSummary(w)
}

func statusColor(s harness.Status) *color.Color {
	switch s {
	case harness.StatusPass, harness.StatusCached:
		return color.New(color.FgGreen)
	case harness.StatusFail:
		return color.New(color.FgRed, color.Bold)
	case harness.StatusBroken:
		return color.New(color.FgMagenta, color.Bold)
	}
	return color.New(color.Reset)
}

type runPayloadFile struct {
	Path     string `json:"path"`
	Revision string `json:"revision,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

type runPayload struct {
	Files     []runPayloadFile `json:"files"`
	Total     int              `json:"total"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Broken    int              `json:"broken"`
	FromCache int              `json:"from_cache"`
}

func renderRunJSON(w io.Writer, results []harness.FileResult, total harness.RunResult) error {
	payload := runPayload{
		Total:     total.Total,
		Passed:    total.Passed,
		Failed:    total.Failed,
		Broken:    total.Broken,
		FromCache: total.FromCache,
	}
	for _, res := range results {
		f := runPayloadFile{
			Path:     res.Path,
			Revision: res.Revision,
			Status:   res.Status.String(),
		}
		if res.Err != nil {
			f.Error = res.Err.Error()
		}
		payload.Files = append(payload.Files, f)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

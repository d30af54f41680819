// File path: cmd/flowlang/commands.go
package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	outDir        string
	langName      string
	outputFormat  string
	workerCount   int
	withReview    bool
	strictMode    bool
	historyPath   string
	maxDocBytes   int
	serveAddr     string
	serveCatalog  string
	watchDebounce time.Duration
	runsCatalog   string
	runsLimit     int
	runsStats     bool
	runsPrune     int

	rootCmd = &cobra.Command{
		Use:   "flowlang",
		Short: "Convert visual LLM flow documents into LangChain code",
		Long: `Flowlang validates exported flow documents, analyzes their graph
structure, and emits runnable LangChain TypeScript or Python.`,
	}

	convertCmd = &cobra.Command{
		Use:   "convert [file, directory, or URL...]",
		Short: "Convert flow documents to LangChain source",
		Args:  cobra.MinimumNArgs(1),
		Run:   runConvert, // Defined in cmd_convert.go
	}

	validateCmd = &cobra.Command{
		Use:   "validate [file or URL]",
		Short: "Check a flow document without generating code",
		Args:  cobra.ExactArgs(1),
		Run:   runValidate, // Defined in cmd_validate.go
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		Run:   runServe, // Defined in cmd_serve.go
	}

	watchCmd = &cobra.Command{
		Use:   "watch [file or directory]",
		Short: "Reconvert flow documents whenever they change",
		Args:  cobra.ExactArgs(1),
		Run:   runWatch, // Defined in cmd_watch.go
	}

	runsCmd = &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded conversion runs",
		Run:   runRuns, // Defined in cmd_runs.go
	}
)

func init() {
	convertCmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for generated files (default: stdout)")
	convertCmd.Flags().StringVar(&langName, "lang", "typescript", "target language (typescript or python)")
	convertCmd.Flags().StringVar(&outputFormat, "format", "code", "output format (code, json, or deps)")
	convertCmd.Flags().IntVar(&workerCount, "workers", 4, "concurrent conversions when converting a directory")
	convertCmd.Flags().BoolVar(&withReview, "with-review", false, "ask the configured model for improvement notes")
	convertCmd.Flags().BoolVar(&strictMode, "strict", false, "treat warnings as failures")
	convertCmd.Flags().StringVar(&historyPath, "history", "", "record runs in the catalog database at this path")
	convertCmd.Flags().IntVar(&maxDocBytes, "max-bytes", 0, "document size ceiling in bytes (0 uses the default)")
	rootCmd.AddCommand(convertCmd)

	validateCmd.Flags().IntVar(&maxDocBytes, "max-bytes", 0, "document size ceiling in bytes (0 uses the default)")
	rootCmd.AddCommand(validateCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8081", "listen address")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", defaultCatalogPath(), "path to the run catalog database (empty disables history)")
	rootCmd.AddCommand(serveCmd)

	watchCmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for generated files (default: stdout)")
	watchCmd.Flags().StringVar(&langName, "lang", "typescript", "target language (typescript or python)")
	watchCmd.Flags().StringVar(&outputFormat, "format", "code", "output format (code, json, or deps)")
	watchCmd.Flags().StringVar(&historyPath, "history", "", "record runs in the catalog database at this path")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "settle time before reconverting after a change")
	rootCmd.AddCommand(watchCmd)

	runsCmd.Flags().StringVar(&runsCatalog, "catalog", defaultCatalogPath(), "path to the run catalog database")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	runsCmd.Flags().BoolVar(&runsStats, "stats", false, "print per-target aggregates instead of individual runs")
	runsCmd.Flags().IntVar(&runsPrune, "prune", 0, "delete all but the newest N runs")
	rootCmd.AddCommand(runsCmd)
}

func defaultCatalogPath() string {
	return filepath.Join("data", "runs.db")
}

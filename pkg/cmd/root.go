// Package cmd provides the CLI command handlers for folio.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/folio-site/folio/pkg/config"
	"github.com/folio-site/folio/pkg/logging"
	"github.com/folio-site/folio/pkg/output"
)

// Version is set at build time with -ldflags
var Version = "dev"

// Global flags
var (
	siteDir    string
	configFile string
	outputFmt  string
	queryExpr  string
	logLevel   string
)

// State prepared before every command runs
var (
	cfg        *config.Config
	logger     *logrus.Logger
	closeLog   = func() error { return nil }
	outputType = output.FormatText
)

// NewRootCmd builds the folio command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "folio",
		Short: "Build and preview a markdown portfolio site",
		Long: `folio renders a portfolio site (home, skills, experience and a blog)
from markdown posts and JSON data into static HTML.

Environment Variables:
  FOLIO_BASE_URL   Public base URL of the site
  FOLIO_ENGINE     Markdown engine (site|goldmark)
  FOLIO_LOG_LEVEL  Log level (trace|debug|info|warn|error)`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return prepare(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLog()
		},
	}
	root.SetVersionTemplate("folio version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&siteDir, "site", "C", "", "Site directory (default: current directory)")
	pf.StringVar(&configFile, "config", "", "Config file (default: <site>/"+config.FileName+")")
	pf.StringVarP(&outputFmt, "output", "o", "", "Output format (text|json|ndjson|table|yaml); json when stdout is not a terminal")
	pf.StringVar(&queryExpr, "query", "", "jq expression to filter structured output")
	pf.StringVar(&logLevel, "log-level", "", "Log level (overrides log_level in "+config.FileName+")")

	root.AddCommand(
		newInitCmd(),
		newValidateCmd(),
		newRenderCmd(),
		newInspectCmd(),
		newBuildCmd(),
		newServeCmd(),
		newBlogCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute is the main entry point for the CLI.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		printError(root.OutOrStdout(), root.ErrOrStderr(), err)
	}
	return err
}

// prepare selects the output format, loads the site config and sets up
// logging.
func prepare(cmd *cobra.Command) error {
	format := output.Format(outputFmt)
	if outputFmt == "" {
		format = output.FormatText
		if !isTerminal(cmd.OutOrStdout()) {
			format = output.FormatJSON
		}
	}
	format, err := output.ParseFormat(string(format))
	if err != nil {
		return err
	}
	outputType = format

	ctx := output.WithFormat(cmd.Context(), outputType)
	ctx = output.WithQuery(ctx, queryExpr)
	cmd.SetContext(ctx)

	if cmd.Name() == "init" || cmd.Name() == "version" {
		cfg = config.Default()
	} else if cfg, err = loadConfig(); err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, closeLog, err = logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	return err
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.LoadSite(getSiteDir())
	}
	c, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv(os.LookupEnv)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	dir := siteDir
	if dir == "" {
		dir = filepath.Dir(configFile)
	}
	c.Resolve(dir)
	return c, nil
}

// getSiteDir returns the site directory, defaulting to current working directory
func getSiteDir() string {
	if siteDir != "" {
		return siteDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printError reports a command error as JSON on stdout for structured
// output and as "Error: ..." on stderr otherwise.
func printError(stdout, stderr io.Writer, err error) {
	if output.IsStructured(outputType) {
		json.NewEncoder(stdout).Encode(map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	fmt.Fprintf(stderr, "Error: %s\n", err)
}

// printResult prints data in the selected output format.
func printResult(cmd *cobra.Command, data interface{}) error {
	return output.NewPrinter(cmd.OutOrStdout(), outputType).Print(cmd.Context(), data)
}

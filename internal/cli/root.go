// Package cli implements the locus command line.
package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/locus/internal/config"
	"github.com/toyz/locus/internal/report"
	"github.com/toyz/locus/internal/service"
	"github.com/toyz/locus/internal/utils"
)

// errUnresolved signals that some signatures failed without being a usage error
var errUnresolved = stderrors.New("one or more signatures could not be located")

// app holds the flags and state shared by every command
type app struct {
	version string

	cfgFile   string
	roots     []string
	parser    string
	format    string
	qualified bool
	cachePath string
	verbose   bool
	debug     bool
	quiet     bool

	cfg         *config.Config
	diagnostics *utils.DiagnosticSystem
	out         io.Writer
	errOut      io.Writer
}

// NewRootCommand builds the command tree writing to out and errOut
func NewRootCommand(version string, out, errOut io.Writer) *cobra.Command {
	a := &app{version: version, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "locus",
		Short: "Locate Java declarations from compiled signatures",
		Long: `locus maps compiled method and constructor signatures, the erased form
reported by reflection or found in .class files, back to the line range of
their declaration in Java source.

Example usage:
  locus locate 'org.samples.Person#getAge(int, Object[])'
  locus batch signatures.yaml --classes 'build/classes/**/*.class'
  locus outline org.samples.Person
  locus serve --addr 127.0.0.1:7878`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./locus.yaml)")
	flags.StringArrayVarP(&a.roots, "root", "r", nil, "source root, repeatable (overrides source.roots)")
	flags.StringVar(&a.parser, "parser", "", "parser backend: participle or treesitter")
	flags.StringVarP(&a.format, "format", "f", "", "output format: text, json or yaml")
	flags.BoolVar(&a.qualified, "qualified", false, "compare qualified type names (java.lang.Object)")
	flags.StringVar(&a.cachePath, "cache", "", "enable the persistent tree cache at this path")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&a.debug, "debug", false, "debug output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only show errors and results")

	rootCmd.AddCommand(
		a.newLocateCommand(),
		a.newBatchCommand(),
		a.newOutlineCommand(),
		a.newServeCommand(),
		a.newMCPCommand(),
		a.newCacheCommand(),
		a.newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the command line and returns the process exit code
func Execute(version string) int {
	rootCmd := NewRootCommand(version, os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		if !stderrors.Is(err, errUnresolved) {
			verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
			NewDiagnosticReporter(os.Stderr, verbose).ReportError(err)
		}
		return 1
	}
	return 0
}

// setup loads configuration and applies flag overrides
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		dir, wdErr := os.Getwd()
		if wdErr != nil {
			return fmt.Errorf("failed to get working directory: %w", wdErr)
		}
		a.cfg, err = config.LoadFromDir(dir)
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		a.cfg.Source.Roots = a.roots
	}
	if flags.Changed("parser") {
		a.cfg.Source.Parser = a.parser
	}
	if flags.Changed("format") {
		a.cfg.Output.Format = a.format
	}
	if flags.Changed("qualified") {
		a.cfg.Naming.Qualified = a.qualified
	}
	if flags.Changed("cache") {
		a.cfg.Cache.Enabled = true
		a.cfg.Cache.Path = a.cachePath
	}

	level, err := utils.ParseDiagnosticLevel(a.cfg.Logging.Level)
	if err != nil {
		level = utils.DiagnosticInfo
	}
	switch {
	case a.quiet:
		level = utils.DiagnosticError
	case a.debug:
		level = utils.DiagnosticDebug
	case a.verbose:
		level = utils.DiagnosticVerbose
	}
	a.diagnostics = utils.NewDiagnosticSystem(level)
	a.diagnostics.SetOutput(a.errOut, a.errOut)

	return nil
}

func (a *app) newService() (*service.Service, error) {
	return service.New(a.cfg, a.diagnostics)
}

func (a *app) writer() (*report.Writer, error) {
	format, err := report.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return report.NewWriter(a.out, format), nil
}

// writeResults renders results and reports failures
func (a *app) writeResults(results []service.Result) error {
	w, err := a.writer()
	if err != nil {
		return err
	}
	if err := w.Results(results); err != nil {
		return err
	}

	located, failed := report.Summary(results)
	if a.diagnostics.Enabled(utils.DiagnosticVerbose) {
		reporter := NewDiagnosticReporter(a.errOut, a.debug)
		for _, r := range results {
			if r.Failed() {
				reporter.ReportError(r.Err)
			}
		}
	}
	if len(results) > 1 {
		a.diagnostics.Summary("Locate Complete", map[string]interface{}{
			"Located": located,
			"Failed":  failed,
		})
	}

	if failed > 0 {
		return errUnresolved
	}
	return nil
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the locus version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "locus %s\n", a.version)
			return nil
		},
	}
}

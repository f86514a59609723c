// Package cli implements the relgraph command-line interface.
package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relgraph/pkg/buildinfo"
	"github.com/matzehuels/relgraph/pkg/config"
	"github.com/matzehuels/relgraph/pkg/layout"
	"github.com/matzehuels/relgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "relgraph"

	// Output file suffixes derived from the input name.
	graphSuffix  = ".graph.json"
	layoutSuffix = ".layout.json"

	// annotationNoConfig marks commands that run without loading the
	// configuration file.
	annotationNoConfig = "relgraph/no-config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty means the default location.
	configPath string
	cfg        *config.File
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Relgraph lays out relationship graphs",
		Long: `Relgraph assembles relationship signals (shared business contexts, referrals,
meetings, communications, mentions) into a weighted graph and computes a
stable, readable 2D layout for it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoConfig] != "" {
				return nil
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	root.AddCommand(c.assembleCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.relayoutCommand())
	root.AddCommand(c.bundleCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration file and applies its log level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.SetLogLevel(level)
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root's pre-run hook (as in tests).
func (c *CLI) config() *config.File {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with its own engine. Runners are not
// shared between concurrent layouts.
func (c *CLI) newRunner(logger *log.Logger) *pipeline.Runner {
	if logger == nil {
		logger = c.Logger
	}
	engine := layout.New(c.config().Layout, layout.WithLogger(logger))
	return pipeline.NewRunner(engine, logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the canvas and bundling flags shared by layout commands.
type layoutFlags struct {
	width  float64
	height float64
	bundle bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().BoolVar(&f.bundle, "bundle", false, "compute edge bundles")
}

// options merges the flags over the configuration.
func (c *CLI) options(f layoutFlags) pipeline.Options {
	cfg := c.config()
	opts := pipeline.Options{
		Width:         cfg.Canvas.Width,
		Height:        cfg.Canvas.Height,
		Bundle:        f.bundle,
		BundleOptions: cfg.Bundle,
	}
	if f.width != 0 {
		opts.Width = f.width
	}
	if f.height != 0 {
		opts.Height = f.height
	}
	return opts
}

// derivedPath replaces the extension of input with suffix, collapsing a
// previous relgraph suffix: "team.graph.json" becomes "team.layout.json".
func derivedPath(input, suffix string) string {
	for _, s := range []string{graphSuffix, layoutSuffix} {
		if strings.HasSuffix(input, s) {
			return strings.TrimSuffix(input, s) + suffix
		}
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

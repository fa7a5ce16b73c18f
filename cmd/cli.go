// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"grapher/internal/canvas"
	"grapher/internal/config"
	"grapher/internal/engine"
	"grapher/internal/log"
	"grapher/internal/plot"
	"grapher/internal/signal"
	"grapher/pkg/build"
)

var logger = log.Named("CLI")

// options holds the persistent flags and the configuration they resolve to.
type options struct {
	configPath string
	logLevel   string
	length     int
	source     string
	window     string

	cfg *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	buildInfo := build.GetBuildFlags()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         build.Description,
		Version:       buildInfo.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "",
		"Configuration file. Defaults to "+config.DefaultConfigFile+" in the working directory if present")
	flags.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel,
		"Log level (debug, info, warn, error)")
	flags.IntVarP(&opts.length, "length", "n", config.DefaultLength,
		"Samples per buffer, also the number of spectrum bins")
	flags.StringVarP(&opts.source, "source", "s", config.DefaultSource,
		"Signal source: default, square or sine:<k>")
	flags.StringVarP(&opts.window, "window", "w", config.DefaultWindow,
		"Window function applied to the signal (none, hann, hamming, blackman, ...)")

	rootCmd.AddCommand(
		newRenderCommand(opts),
		newTUICommand(opts),
		newServeCommand(opts),
		newExportCommand(opts),
		newVerifyCommand(opts),
	)

	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(os.Args[1:])
	return rootCmd.Execute()
}

// load reads the configuration, then lets explicitly set flags win.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if changed("length") {
		cfg.Signal.Length = o.length
	}
	if changed("source") {
		cfg.Signal.Source = o.source
	}
	if changed("window") {
		cfg.Signal.Window = o.window
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	o.cfg = cfg
	return nil
}

// newEngine builds an engine from the configuration and delivers Init.
func (o *options) newEngine() (*engine.Engine, error) {
	src, err := o.cfg.Signal.BuildSource()
	if err != nil {
		return nil, err
	}
	palette, err := o.cfg.Palette.Resolve()
	if err != nil {
		return nil, err
	}
	layout, err := plot.ParseLayout(o.cfg.Render.Layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", canvas.ErrInvalidInput, err)
	}

	e := engine.NewEngine(engine.Options{
		Source:  src,
		Length:  o.cfg.Signal.Length,
		Palette: palette,
		Layout:  layout,
	})
	if err := e.Update(nil, canvas.Init); err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	logger.Debugf("Engine ready (source %s, window %s, N=%d)", o.cfg.Signal.Source, o.cfg.Signal.Window, e.Length())
	return e, nil
}

// sourceCycle returns the configured source followed by the other presets.
func (o *options) sourceCycle() []string {
	rest := slices.DeleteFunc(slices.Clone(signal.Presets), func(s string) bool {
		return s == o.cfg.Signal.Source
	})
	return append([]string{o.cfg.Signal.Source}, rest...)
}

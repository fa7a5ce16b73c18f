// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"grapher/internal/config"
	"grapher/internal/dft"
	"grapher/internal/export"
	"grapher/internal/log"
	"grapher/internal/signal"
	"grapher/internal/tui"
)

func newTUICommand(opts *options) *cobra.Command {
	var logFile string

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal plot (tab: next signal, r: re-init, q: quit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would tear the alternate screen.
			var sink io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				sink = f
			}
			log.SetOutput(sink)
			defer log.SetOutput(os.Stderr)

			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			window, err := signal.ParseWindowFunc(opts.cfg.Signal.Window)
			if err != nil {
				return err
			}
			return tui.Run(e, opts.sourceCycle(), window)
		},
	}

	tuiCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the UI runs")
	return tuiCmd
}

func newExportCommand(opts *options) *cobra.Command {
	var (
		output  string
		seconds float64
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the sample buffer, looped, as a WAV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ec := opts.cfg.Export
			if cmd.Flags().Changed("output") {
				ec.Output = output
			}
			if cmd.Flags().Changed("seconds") {
				ec.Seconds = seconds
			}

			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			return export.WriteFile(ec.Output, e.Samples(), export.Options{
				SampleRate: ec.SampleRate,
				BitDepth:   ec.BitDepth,
				Seconds:    ec.Seconds,
			})
		},
	}

	exportCmd.Flags().StringVarP(&output, "output", "o", config.DefaultWAVOutput, "WAV output path")
	exportCmd.Flags().Float64Var(&seconds, "seconds", config.DefaultSeconds, "Duration in seconds")
	return exportCmd
}

func newVerifyCommand(opts *options) *cobra.Command {
	var tolerance float64

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare the direct DFT against a reference FFT",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := opts.cfg.Signal.BuildSource()
			if err != nil {
				return err
			}
			samples, err := src.Generate(opts.cfg.Signal.Length)
			if err != nil {
				return err
			}

			maxErr, err := dft.Verify(samples)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "N=%d source=%s window=%s max error %.3e\n",
				len(samples), opts.cfg.Signal.Source, opts.cfg.Signal.Window, maxErr)
			if maxErr > tolerance {
				return fmt.Errorf("max error %.3e exceeds tolerance %.3e", maxErr, tolerance)
			}
			return nil
		},
	}

	verifyCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-9, "Largest acceptable absolute error per bin")
	return verifyCmd
}

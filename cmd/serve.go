// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	ossignal "os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"grapher/internal/backend/record"
	"grapher/internal/config"
	"grapher/internal/engine"
	"grapher/internal/log"
	"grapher/internal/transport"
	"grapher/internal/transport/udp"
)

func newServeCommand(opts *options) *cobra.Command {
	var (
		addr   string
		frames int
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Publish rendered frames over WebSocket and the spectrum over UDP",
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := opts.cfg.Transport
			if cmd.Flags().Changed("addr") {
				tc.WSAddress = addr
			}

			e, err := opts.newEngine()
			if err != nil {
				return err
			}

			ctx, stop := ossignal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := newServer(e, tc, opts.cfg.Render.Width, opts.cfg.Render.Height)
			if err != nil {
				return err
			}
			defer srv.Close()

			return srv.run(ctx, tc.Interval, frames)
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "WebSocket listen address (overrides transport.ws_address)")
	serveCmd.Flags().IntVar(&frames, "frames", 0, "Stop after this many frames (0 runs until interrupted)")
	return serveCmd
}

// server renders into a recorder on every tick and fans the frame out to
// its transports. The UDP publisher runs on its own ticker.
type server struct {
	engine     *engine.Engine
	recorder   *record.Recorder
	transports []transport.Transport
	publisher  *udp.UDPPublisher
	sender     *udp.UDPSender
	seq        uint64
}

func newServer(e *engine.Engine, tc config.TransportConfig, width, height int) (*server, error) {
	ws, err := transport.NewWebSocketTransport(tc.WSAddress, tc.WSPath)
	if err != nil {
		return nil, err
	}
	srv := &server{
		engine:     e,
		recorder:   record.New(width, height),
		transports: []transport.Transport{ws},
	}
	if log.GetLevel() == log.LevelDebug {
		srv.transports = append(srv.transports, transport.NewLoggingTransport())
	}

	if tc.UDPEnabled {
		sender, err := udp.NewUDPSender(tc.UDPTargetAddress)
		if err != nil {
			srv.Close()
			return nil, err
		}
		srv.sender = sender

		pub, err := udp.NewUDPPublisher(tc.Interval, sender, e)
		if err != nil {
			srv.Close()
			return nil, err
		}
		srv.publisher = pub
	}

	logger.Infof("Serving frames on %s", ws.URL())
	return srv, nil
}

func (s *server) run(ctx context.Context, interval time.Duration, frames int) error {
	if s.publisher != nil {
		s.publisher.Start()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.publish(); err != nil {
			return err
		}
		if frames > 0 && s.seq >= uint64(frames) {
			return nil
		}

		select {
		case <-ctx.Done():
			logger.Infof("Stopping after %d frames", s.seq)
			return nil
		case <-ticker.C:
		}
	}
}

// publish renders one frame and sends it to every transport.
func (s *server) publish() error {
	s.recorder.Reset()
	if err := s.engine.Render(s.recorder); err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}

	s.seq++
	w, h := s.recorder.Size()
	frame := transport.Frame{Seq: s.seq, Width: w, Height: h, Ops: slices.Clone(s.recorder.Ops())}

	for _, t := range s.transports {
		if err := t.Send(frame); err != nil {
			return fmt.Errorf("failed to send frame %d: %w", s.seq, err)
		}
	}
	return nil
}

// Close stops the publisher and closes every transport.
func (s *server) Close() error {
	var errs []error
	if s.publisher != nil {
		errs = append(errs, s.publisher.Close())
	}
	if s.sender != nil {
		errs = append(errs, s.sender.Close())
	}
	for _, t := range s.transports {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

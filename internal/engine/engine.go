// SPDX-License-Identifier: MIT
/*
Package engine implements the two-phase update protocol that drives the
grapher core:

- Init: generate the sample buffer, transform it once, cache the result
- Render: map the cached buffers onto the backend's surface

State Model:
- Uninitialized until the first successful Init, then Ready for good
- Init may run again; it replaces both buffers wholesale
- Render only reads the buffers and only calls the drawing contract

The engine is single threaded. Hosts that call it from more than one
goroutine serialize Init against everything else themselves.
*/
package engine

import (
	"fmt"

	"grapher/internal/canvas"
	"grapher/internal/dft"
	"grapher/internal/plot"
	"grapher/internal/signal"
)

// DefaultLength is the buffer length used when none is configured.
const DefaultLength = 256

// State is the protocol state of an Engine.
type State int

const (
	Uninitialized State = iota
	Ready
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Options configures a new Engine. A nil Source selects signal.Default and
// a zero Palette selects plot.DefaultPalette. Length is used as given; a
// non-positive length makes Init fail with canvas.ErrInvalidInput. The zero
// Layout is plot.Split.
type Options struct {
	Source  signal.Source
	Length  int
	Palette plot.Palette
	Layout  plot.Layout
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		Source:  signal.Default,
		Length:  DefaultLength,
		Palette: plot.DefaultPalette,
	}
}

// Engine owns the sample and spectrum buffers and drives the Init/Render protocol.
type Engine struct {
	// Configuration, read by Init.
	source signal.Source
	length int

	// Presentation, used by Render.
	mapper *plot.Mapper

	// Protocol state and the buffers it guards. Written only by Init.
	state    State
	samples  []float64
	spectrum *dft.Spectrum
	phase    []float64 // spectrum.Phase / 2π, in [0, 1)
}

var _ canvas.Updater = (*Engine)(nil)

// NewEngine returns an Engine in the Uninitialized state.
func NewEngine(opts Options) *Engine {
	if opts.Source == nil {
		opts.Source = signal.Default
	}
	if opts.Palette == (plot.Palette{}) {
		opts.Palette = plot.DefaultPalette
	}
	mapper := plot.NewMapper(opts.Palette)
	mapper.Layout = opts.Layout
	return &Engine{
		source: opts.Source,
		length: opts.Length,
		mapper: mapper,
		state:  Uninitialized,
	}
}

// Update is the single entry point a backend calls.
func (e *Engine) Update(ctx *canvas.Context, msg canvas.Message) error {
	switch msg {
	case canvas.Init:
		return e.Init()
	case canvas.Render:
		if ctx == nil {
			return fmt.Errorf("%w: render without a context", canvas.ErrInvalidState)
		}
		return e.Render(ctx.Framebuffer)
	default:
		return fmt.Errorf("%w: unknown message %s (%d)", canvas.ErrInvalidInput, msg, int(msg))
	}
}

// Init regenerates the sample buffer and its spectrum. Nothing is replaced
// unless both succeed, so a failed Init leaves the previous buffers and
// state untouched.
func (e *Engine) Init() error {
	samples, err := e.source.Generate(e.length)
	if err != nil {
		return fmt.Errorf("failed to generate signal: %w", err)
	}
	if len(samples) != e.length {
		return fmt.Errorf("%w: source returned %d samples, want %d", canvas.ErrInvalidInput, len(samples), e.length)
	}

	spectrum, err := dft.Analyze(samples)
	if err != nil {
		return fmt.Errorf("failed to transform signal: %w", err)
	}

	phase := make([]float64, spectrum.Len())
	for k := range phase {
		phase[k] = spectrum.NormalizedPhase(k)
	}

	e.samples = samples
	e.spectrum = spectrum
	e.phase = phase
	e.state = Ready
	return nil
}

// Render draws the cached buffers into s. It fails with ErrInvalidState
// before a successful Init or without a surface. A surface reporting no
// area is not an error; nothing is drawn.
func (e *Engine) Render(s canvas.Surface) error {
	if e.state != Ready {
		return fmt.Errorf("%w: render before init", canvas.ErrInvalidState)
	}
	if s == nil {
		return fmt.Errorf("%w: render without a framebuffer", canvas.ErrInvalidState)
	}

	e.mapper.Draw(s, e.samples, e.spectrum.Magnitude, e.phase)
	return nil
}

// SetSource replaces the signal source. The change takes effect on the next
// Init; the cached buffers stay as they are.
func (e *Engine) SetSource(src signal.Source) {
	if src == nil {
		src = signal.Default
	}
	e.source = src
}

// State returns the protocol state.
func (e *Engine) State() State {
	return e.state
}

// Ready reports whether Init has succeeded at least once.
func (e *Engine) Ready() bool {
	return e.state == Ready
}

// Length returns the configured buffer length.
func (e *Engine) Length() int {
	return e.length
}

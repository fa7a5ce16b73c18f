// SPDX-License-Identifier: MIT
/*
Package tui hosts the engine in a terminal. Each terminal cell shows two
vertically stacked pixels of a raster surface using the upper half block
glyph, foreground for the top pixel and background for the bottom one.

The model behaves like a windowed backend: a window size change recreates
the surface and repaints, "r" sends Init again and "tab" swaps the signal
source before re-initializing.
*/
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grapher/internal/backend/raster"
	"grapher/internal/canvas"
	"grapher/internal/engine"
	"grapher/internal/plot"
	"grapher/internal/signal"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)
)

// chromeRows is the number of terminal rows used by the title and help lines.
const chromeRows = 2

const halfBlock = "▀"

// Status is the backend-owned payload carried in canvas.Context.User.
type Status struct {
	Source string
	Frames int
}

// initMsg asks the model to deliver canvas.Init to the engine.
type initMsg struct{}

// Model is the Bubble Tea model hosting one engine.
type Model struct {
	engine  *engine.Engine
	surface *raster.Surface
	ctx     *canvas.Context
	sources []string
	current int
	window  signal.WindowFunc // applied to every source tab selects

	keys keyMap
	help help.Model

	width, height int // terminal cells
	ready         bool
	err           error
}

// NewModel creates a model for e. sources lists the signal names cycled by
// tab; the first entry is assumed to be what e is configured with. Sources
// selected by tab are tapered with window, as the configured one is.
func NewModel(e *engine.Engine, sources []string, window signal.WindowFunc) Model {
	if len(sources) == 0 {
		sources = signal.Presets
	}
	surface := raster.New(0, 0)
	return Model{
		engine:  e,
		surface: surface,
		ctx: &canvas.Context{
			Framebuffer: surface,
			User:        &Status{Source: sources[0]},
		},
		sources: sources,
		window:  window,
		keys:    newKeyMap(),
		help:    help.New(),
	}
}

// Init sends the protocol's Init once the program starts.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return initMsg{} }
}

// Update handles input and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initMsg:
		m.err = m.engine.Update(m.ctx, canvas.Init)
		m.render()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.surface.Resize(msg.Width, 2*max(msg.Height-chromeRows, 0))
		m.ready = true
		m.render()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Reinit):
			return m, m.Init()

		case key.Matches(msg, m.keys.Next):
			next := (m.current + 1) % len(m.sources)
			src, err := signal.Lookup(m.sources[next])
			if err != nil {
				m.err = err
				return m, nil
			}
			if m.window != signal.None {
				src = signal.Windowed{Source: src, Window: m.window}
			}
			m.current = next
			m.engine.SetSource(src)
			m.status().Source = m.sources[next]
			return m, m.Init()
		}
	}

	return m, nil
}

// render repaints the surface. Errors before the first successful Init are
// kept for View rather than treated as fatal.
func (m *Model) render() {
	if !m.ready || !m.engine.Ready() {
		return
	}
	if err := m.engine.Update(m.ctx, canvas.Render); err != nil {
		m.err = err
		return
	}
	m.status().Frames++
}

func (m Model) status() *Status {
	return m.ctx.User.(*Status)
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	st := m.status()
	title := titleStyle.Render("grapher") + " " +
		infoStyle.Render(fmt.Sprintf("%s  window=%s  N=%d  frame %d", st.Source, m.window, m.engine.Length(), st.Frames))

	var footer string
	if m.err != nil {
		footer = errorStyle.Render("Error: " + m.err.Error())
	} else {
		footer = m.help.View(m.keys)
	}

	return title + "\n" + halfBlocks(m.surface) + footer
}

// halfBlocks converts the surface into rows of half-block cells. Runs of
// cells with the same color pair share one style.
func halfBlocks(s *raster.Surface) string {
	w, h := s.Size()
	var sb strings.Builder

	for y := 0; y+1 < h; y += 2 {
		runStart := 0
		for x := 1; x <= w; x++ {
			if x < w && s.At(x, y) == s.At(runStart, y) && s.At(x, y+1) == s.At(runStart, y+1) {
				continue
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(plot.Hex(s.At(runStart, y)))).
				Background(lipgloss.Color(plot.Hex(s.At(runStart, y+1))))
			sb.WriteString(style.Render(strings.Repeat(halfBlock, x-runStart)))
			runStart = x
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Run starts the terminal host on the alternate screen.
func Run(e *engine.Engine, sources []string, window signal.WindowFunc) error {
	p := tea.NewProgram(NewModel(e, sources, window), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

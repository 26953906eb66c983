package console

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"plantops/cmd/plantops/ui"
	"plantops/internal/logging"
)

// New builds the console model. The glamour renderer is optional; preview
// falls back to raw markdown when it cannot be constructed.
func New(deps Deps) Model {
	styles := ui.DefaultStyles()
	if deps.Config != nil && deps.Config.Theme != "" {
		styles = ui.NewStyles(ui.ThemeByName(deps.Config.Theme))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		logging.UI("glamour renderer unavailable: %v", err)
		renderer = nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		styles:       styles,
		spinner:      sp,
		renderer:     renderer,
		viewMode:     ReportsView,
		ctrl:         deps.Controller,
		backend:      deps.Backend,
		downloader:   deps.Downloader,
		data:         deps.Data,
		hist:         deps.History,
		cfg:          deps.Config,
		rootCtx:      ctx,
		rootCancel:   cancel,
		shutdownOnce: &sync.Once{},
	}
}

// Init kicks off the initial listing fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

// Shutdown stops background work and releases resources. Safe to call
// multiple times. Must run before tea.Quit so the confirmation poll and
// any in-flight fetch are cancelled rather than leaked.
func (m Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.ctrl.StopPoll()
		if m.rootCancel != nil {
			m.rootCancel()
		}
		if m.hist != nil {
			_ = m.hist.Close()
		}
		logging.UI("console shut down")
	})
}

func (m Model) newViewport(width, height int) viewport.Model {
	vp := viewport.New(width-4, height-6)
	vp.Style = m.styles.Content
	return vp
}

// Package console implements the interactive terminal console for the
// plant operations dashboard. It is a single-threaded Elm-style loop:
// every mutation of client state happens inside Update, and all network
// and document work runs in commands that report back as typed messages.
package console

import (
	"context"
	"sync"
	"time"

	"plantops/cmd/plantops/ui"
	"plantops/internal/api"
	"plantops/internal/config"
	"plantops/internal/history"
	"plantops/internal/report"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// DataService is the slice of the backend the console reads for the plants
// and dashboard screens. Satisfied by api.Client and mockdata.Generator.
type DataService interface {
	ListPlants(ctx context.Context, f api.PlantFilter) ([]api.Plant, error)
	DashboardStats(ctx context.Context) (api.DashboardStats, error)
}

// Deps wires the console to the rest of the application.
type Deps struct {
	Controller *report.Controller
	Backend    report.Backend
	Downloader *report.Downloader
	Data       DataService
	History    *history.Store // optional
	Config     *config.UserConfig
}

// ViewMode determines which screen is active
type ViewMode int

const (
	ReportsView ViewMode = iota
	CreateView
	PreviewView
	PlantsView
	DashboardView
)

// statusKind colors the transient status line
type statusKind int

const (
	statusNeutral statusKind = iota
	statusOK
	statusWarn
	statusBad
)

// createField is the focused field of the generation wizard
type createField int

const (
	fieldType createField = iota
	fieldFormat
	fieldPeriod
	fieldCategory
	fieldConfirm
)

// periodPreset is a named date range for the wizard
type periodPreset struct {
	Label string
	Days  int
}

var periodPresets = []periodPreset{
	{Label: "Last 7 days", Days: 7},
	{Label: "Last 30 days", Days: 30},
	{Label: "Last quarter", Days: 90},
	{Label: "Year to date", Days: 0}, // resolved against Jan 1
}

var formatOptions = []string{"PDF", "Excel", "CSV"}

var categoryOptions = []string{"All", "Wind", "Solar"}

// createState holds the wizard selections
type createState struct {
	field       createField
	typeIdx     int
	formatIdx   int
	periodIdx   int
	categoryIdx int
}

// params resolves the wizard selections into generation parameters.
func (c createState) params(now time.Time) report.Params {
	to := now
	var from time.Time
	if periodPresets[c.periodIdx].Days == 0 {
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	} else {
		from = now.AddDate(0, 0, -periodPresets[c.periodIdx].Days)
	}
	category := ""
	if categoryOptions[c.categoryIdx] != "All" {
		category = categoryOptions[c.categoryIdx]
	}
	return report.Params{
		Type:     report.Types()[c.typeIdx],
		Format:   formatOptions[c.formatIdx],
		DateFrom: from,
		DateTo:   to,
		Category: category,
	}
}

// =============================================================================
// CORE TYPES
// =============================================================================

// Model is the main model for the interactive console
type Model struct {
	// UI components
	styles   ui.Styles
	spinner  spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	width  int
	height int
	ready  bool

	viewMode ViewMode

	// Wiring
	ctrl       *report.Controller
	backend    report.Backend
	downloader *report.Downloader
	data       DataService
	hist       *history.Store
	cfg        *config.UserConfig

	// Reports screen
	records []report.Record
	cursor  int

	// Pending delete confirmation, nil when none
	confirmDelete *report.ID

	// Preview screen
	preview report.Preview

	// Plants screen
	plants       []api.Plant
	plantsLoaded bool
	plantCursor  int

	// Dashboard screen
	stats       api.DashboardStats
	statsLoaded bool

	// Create wizard
	create createState

	// Generation in flight. The optimistic record is already in the
	// store; busy only gates starting a second generation.
	busy bool

	status     string
	statusKind statusKind

	// Lifecycle. shutdownOnce is a pointer because bubbletea copies the
	// model on every update.
	rootCtx      context.Context
	rootCancel   context.CancelFunc
	shutdownOnce *sync.Once
}

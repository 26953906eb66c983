package console

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"plantops/internal/api"
	"plantops/internal/config"
	"plantops/internal/report"
)

// stubBackend is an in-memory report.Backend for console tests.
type stubBackend struct {
	mu           sync.Mutex
	listing      []report.Record
	listErr      error
	createResult report.CreateResult
	createErr    error
	deleteErr    error
	deleted      []int64
}

func (s *stubBackend) ListReports(ctx context.Context) ([]report.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]report.Record, len(s.listing))
	copy(out, s.listing)
	return out, nil
}

func (s *stubBackend) CreateReport(ctx context.Context, cfg report.CreateConfig) (report.CreateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return report.CreateResult{}, s.createErr
	}
	return s.createResult, nil
}

func (s *stubBackend) DeleteReport(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

// stubAssembler returns a canned artifact.
type stubAssembler struct {
	artifact report.Artifact
	err      error
}

func (s *stubAssembler) Assemble(ctx context.Context, p report.Params) (report.Artifact, error) {
	return s.artifact, s.err
}

// stubData serves fixed plants and stats.
type stubData struct {
	plants []api.Plant
	stats  api.DashboardStats
	err    error
}

func (s *stubData) ListPlants(ctx context.Context, f api.PlantFilter) ([]api.Plant, error) {
	return s.plants, s.err
}

func (s *stubData) DashboardStats(ctx context.Context) (api.DashboardStats, error) {
	return s.stats, s.err
}

type stubFetcher struct{ data []byte }

func (s *stubFetcher) FetchFile(ctx context.Context, url string) ([]byte, error) {
	return s.data, nil
}

func confirmedRecord(id int64, name string) report.Record {
	return report.Record{
		ID:            report.DurableID(id),
		Name:          name,
		Type:          report.TypePerformance,
		Format:        "PDF",
		GeneratedDate: time.Now(),
		Status:        report.StatusReady,
		Origin:        report.OriginConfirmed,
		FilePath:      "/files/r.pdf",
		SortKey:       time.Now(),
	}
}

// newTestModel wires a console model against stubs, with a fast poll.
func newTestModel(backend *stubBackend, asm *stubAssembler, downloadsDir string) Model {
	ctrl := report.NewController(report.NewStore(), backend, asm,
		report.WithPollInterval(time.Millisecond),
		report.WithPollMaxAttempts(3),
		report.WithUnreachableClassifier(api.IsUnreachable),
	)
	return New(Deps{
		Controller: ctrl,
		Backend:    backend,
		Downloader: &report.Downloader{
			BaseURL:      "http://localhost:8000",
			DownloadsDir: downloadsDir,
			Fetcher:      &stubFetcher{data: []byte("doc")},
		},
		Data:   &stubData{},
		Config: &config.UserConfig{Theme: "light"},
	})
}

// drive applies a message and returns the concrete model.
func drive(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

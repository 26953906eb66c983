// plantops is the operations console for the renewable plant dashboard.
// Run without arguments for the interactive console; subcommands expose
// the same report lifecycle for scripting.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"plantops/cmd/plantops/console"
	"plantops/internal/api"
	"plantops/internal/config"
	"plantops/internal/docgen"
	"plantops/internal/history"
	"plantops/internal/logging"
	"plantops/internal/mockdata"
	"plantops/internal/report"
)

var (
	// Global flags
	verbose    bool
	backendURL string
	offline    bool
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "plantops",
	Short: "plantops - terminal console for the renewable plant dashboard",
	Long: `plantops talks to the plant dashboard backend: it generates report
documents locally, persists them to the backend, and reconciles the two so
the listing never lies for long.

Run without arguments to start the interactive console.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive console has its own UI; keep zap quiet there
		if cmd.Use == "plantops" && cmd.CalledAs() == "plantops" {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "use seeded mock data instead of the backend data services")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", api.DefaultTimeout, "per-request timeout")

	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(plantsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(configCmd)
}

// app bundles the wired application for one CLI invocation.
type app struct {
	cfg        *config.UserConfig
	client     *api.Client
	backend    report.Backend
	ctrl       *report.Controller
	downloader *report.Downloader
	data       console.DataService
	hist       *history.Store
}

// buildApp loads config and wires the controller stack. The history store
// is best-effort; a missing journal never blocks the CLI.
func buildApp() (*app, error) {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if offline {
		cfg.OfflineMode = true
	}

	if err := logging.Initialize(config.DefaultConfigDir()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}

	client := api.NewClientWithTimeout(cfg.ResolvedBackendURL(), timeout)
	backend := api.NewReportBackend(client)

	var data console.DataService
	var provider docgen.DataProvider
	if cfg.OfflineMode {
		gen := mockdata.NewGenerator(mockdata.DefaultSeed)
		data = gen
		provider = gen
	} else {
		data = client
		provider = client
	}

	assembler := docgen.NewAssembler(provider, cfg.ResolvedDownloadsDir())
	ctrl := report.NewController(report.NewStore(), backend, assembler,
		report.WithPollInterval(cfg.ResolvedPollInterval()),
		report.WithPollMaxAttempts(cfg.ResolvedPollMaxAttempts()),
		report.WithUnreachableClassifier(api.IsUnreachable),
	)

	downloader := &report.Downloader{
		BaseURL:      cfg.ResolvedBackendURL(),
		DownloadsDir: cfg.ResolvedDownloadsDir(),
		Fetcher:      client,
		Opener:       report.SystemOpener,
	}

	hist, err := history.NewStore(config.DefaultConfigDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history journal disabled: %v\n", err)
		hist = nil
	}

	return &app{
		cfg:        cfg,
		client:     client,
		backend:    backend,
		ctrl:       ctrl,
		downloader: downloader,
		data:       data,
		hist:       hist,
	}, nil
}

func (a *app) close() {
	if a.hist != nil {
		_ = a.hist.Close()
	}
	logging.CloseAll()
}

func runConsole() error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	m := console.New(console.Deps{
		Controller: a.ctrl,
		Backend:    a.backend,
		Downloader: a.downloader,
		Data:       a.data,
		History:    a.hist,
		Config:     a.cfg,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

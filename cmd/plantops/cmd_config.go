package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plantops/internal/config"
)

var (
	setBackend   string
	setDownloads string
	setTheme     string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update the plantops configuration",
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&setBackend, "set-backend", "", "set the backend base URL")
	configCmd.Flags().StringVar(&setDownloads, "set-downloads", "", "set the downloads directory")
	configCmd.Flags().StringVar(&setTheme, "set-theme", "", "set the console theme: light, dark or auto")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	changed := false
	if setBackend != "" {
		cfg.BackendURL = setBackend
		changed = true
	}
	if setDownloads != "" {
		cfg.DownloadsDir = setDownloads
		changed = true
	}
	if setTheme != "" {
		cfg.Theme = setTheme
		changed = true
	}
	if changed {
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Println("Configuration saved to", path)
	}

	fmt.Println("Config file:   ", path)
	fmt.Println("Backend URL:   ", cfg.ResolvedBackendURL())
	fmt.Println("Downloads dir: ", cfg.ResolvedDownloadsDir())
	fmt.Println("Poll interval: ", cfg.ResolvedPollInterval())
	fmt.Println("Poll attempts: ", cfg.ResolvedPollMaxAttempts())
	if cfg.Theme != "" {
		fmt.Println("Theme:         ", cfg.Theme)
	}
	return nil
}

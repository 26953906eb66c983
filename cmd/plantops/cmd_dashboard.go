package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the fleet summary",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.data.DashboardStats(context.Background())
	if err != nil {
		return fmt.Errorf("dashboard stats: %w", err)
	}

	bold := color.New(color.Bold)
	bold.Println("Fleet Dashboard")
	fmt.Printf("  Active plants:      %d\n", s.ActivePlants)
	fmt.Printf("  Total capacity:     %.1f MW (wind %.1f / solar %.1f)\n",
		s.TotalCapacity, s.WindCapacity, s.SolarCapacity)
	fmt.Printf("  Current generation: %.1f MW\n", s.CurrentGeneration)
	fmt.Printf("  Fleet efficiency:   %.1f%%\n", s.Efficiency)
	fmt.Printf("  Schedules:          %d total, %d pending, %d approved, %d revised\n",
		s.Schedules.Total, s.Schedules.Pending, s.Schedules.Approved, s.Schedules.Revised)
	return nil
}

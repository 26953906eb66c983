package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"plantops/internal/api"
)

var (
	plantType   string
	plantState  string
	plantSearch string
)

var plantsCmd = &cobra.Command{
	Use:   "plants",
	Short: "List the plant fleet",
	RunE:  runPlantsList,
}

func init() {
	plantsCmd.Flags().StringVar(&plantType, "type", "", "filter by plant type: Wind or Solar")
	plantsCmd.Flags().StringVar(&plantState, "state", "", "filter by state")
	plantsCmd.Flags().StringVar(&plantSearch, "search", "", "filter by name substring")
}

func runPlantsList(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	plants, err := a.data.ListPlants(context.Background(), api.PlantFilter{
		Type:   plantType,
		State:  plantState,
		Search: plantSearch,
	})
	if err != nil {
		return fmt.Errorf("list plants: %w", err)
	}
	if len(plants) == 0 {
		fmt.Println("No plants found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Name", "Type", "Capacity (MW)", "State", "Status", "Efficiency"})
	for _, p := range plants {
		status := p.Status
		if status == "Active" {
			status = color.GreenString(status)
		} else {
			status = color.YellowString(status)
		}
		t.AppendRow(table.Row{
			p.ID, p.Name, p.Type,
			fmt.Sprintf("%.1f", p.Capacity),
			p.State, status,
			fmt.Sprintf("%.1f%%", p.Efficiency),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

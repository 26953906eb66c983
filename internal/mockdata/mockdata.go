// Package mockdata provides the deterministic fallback data source used
// when the backend is unreachable (and by tests). All output is derived
// from a fixed seed, so repeated runs produce identical fleets, schedules
// and deviation curves.
package mockdata

import (
	"context"
	"math"
	"math/rand"

	"plantops/internal/api"
)

// DefaultSeed keeps offline sessions reproducible across runs.
const DefaultSeed = 42

// Generator produces deterministic plant, schedule and deviation data. It
// implements the same listing surface as the API client, so callers can
// swap it in wherever a data provider is expected.
type Generator struct {
	seed int64
}

// NewGenerator creates a generator for the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{seed: seed}
}

// fleet is the fixed set of plants the generator reports. Capacities in MW.
var fleet = []api.Plant{
	{ID: 1, Name: "Jaisalmer Wind Park", Type: "Wind", Capacity: 320, State: "Rajasthan", Status: "Active"},
	{ID: 2, Name: "Pavagada Solar Park", Type: "Solar", Capacity: 450, State: "Karnataka", Status: "Active"},
	{ID: 3, Name: "Muppandal Wind Farm", Type: "Wind", Capacity: 280, State: "Tamil Nadu", Status: "Active"},
	{ID: 4, Name: "Bhadla Solar Park", Type: "Solar", Capacity: 510, State: "Rajasthan", Status: "Active"},
	{ID: 5, Name: "Kutch Hybrid Cluster", Type: "Wind", Capacity: 190, State: "Gujarat", Status: "Maintenance"},
	{ID: 6, Name: "Rewa Solar Project", Type: "Solar", Capacity: 230, State: "Madhya Pradesh", Status: "Active"},
}

// ListPlants returns the fixed fleet with deterministic efficiency figures,
// honoring the same filters as the backend.
func (g *Generator) ListPlants(_ context.Context, f api.PlantFilter) ([]api.Plant, error) {
	rng := rand.New(rand.NewSource(g.seed))
	out := make([]api.Plant, 0, len(fleet))
	for _, p := range fleet {
		p.Efficiency = 70 + rng.Float64()*25
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.State != "" && p.State != f.State {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ListSchedules returns one day-ahead schedule per active plant with
// deterministic forecast/actual pairs.
func (g *Generator) ListSchedules(_ context.Context) ([]api.Schedule, error) {
	rng := rand.New(rand.NewSource(g.seed + 1))
	statuses := []string{"Pending", "Approved", "Revised", "Completed"}

	var out []api.Schedule
	for i, p := range fleet {
		if p.Status != "Active" {
			continue
		}
		forecast := p.Capacity * (0.55 + rng.Float64()*0.3)
		actual := forecast * (0.9 + rng.Float64()*0.2)
		out = append(out, api.Schedule{
			ID:         int64(i + 1),
			PlantName:  p.Name,
			Type:       "Day-Ahead",
			Capacity:   p.Capacity,
			Forecasted: round1(forecast),
			Actual:     round1(actual),
			Status:     statuses[i%len(statuses)],
			Deviation:  round1((actual - forecast) / forecast * 100),
		})
	}
	return out, nil
}

// ListDeviations returns a 24-hour deviation curve shaped like a real
// generation day: low at night, peaking midday.
func (g *Generator) ListDeviations(_ context.Context) ([]api.Deviation, error) {
	rng := rand.New(rand.NewSource(g.seed + 2))

	out := make([]api.Deviation, 0, 24)
	for hour := 0; hour < 24; hour++ {
		// Daylight bell curve for forecasted generation.
		forecast := 120 * math.Exp(-math.Pow(float64(hour)-13, 2)/18)
		actual := forecast * (0.85 + rng.Float64()*0.3)
		dev := 0.0
		if forecast > 1 {
			dev = (actual - forecast) / forecast * 100
		}
		out = append(out, api.Deviation{
			ID:         int64(hour + 1),
			Hour:       hour,
			Forecasted: round1(forecast),
			Actual:     round1(actual),
			Deviation:  round1(dev),
		})
	}
	return out, nil
}

// DashboardStats aggregates the fixed fleet the way the backend does.
func (g *Generator) DashboardStats(ctx context.Context) (api.DashboardStats, error) {
	plants, _ := g.ListPlants(ctx, api.PlantFilter{})
	schedules, _ := g.ListSchedules(ctx)

	var stats api.DashboardStats
	for _, p := range plants {
		if p.Status != "Active" {
			continue
		}
		stats.ActivePlants++
		stats.TotalCapacity += p.Capacity
		switch p.Type {
		case "Wind":
			stats.WindCapacity += p.Capacity
		case "Solar":
			stats.SolarCapacity += p.Capacity
		}
	}
	var generation, efficiency float64
	for _, s := range schedules {
		generation += s.Actual
		stats.Schedules.Total++
		switch s.Status {
		case "Pending":
			stats.Schedules.Pending++
		case "Approved":
			stats.Schedules.Approved++
		case "Revised":
			stats.Schedules.Revised++
		}
	}
	if stats.TotalCapacity > 0 {
		efficiency = generation / stats.TotalCapacity * 100
	}
	stats.CurrentGeneration = round1(generation)
	stats.Efficiency = round1(efficiency)
	return stats, nil
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

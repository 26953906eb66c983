// Package api is the HTTP client for the plant dashboard backend: the
// report system of record plus the plant, schedule, deviation and dashboard
// services the document assembler aggregates from.
package api

// Report is the wire shape of one backend report row.
type Report struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Format        string `json:"format"`
	GeneratedDate string `json:"generatedDate"`
	Size          string `json:"size,omitempty"`
	Status        string `json:"status"`
	FilePath      string `json:"filePath,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// CreateReportRequest is the payload of POST /api/reports/generate.
type CreateReportRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Format        string `json:"format"`
	GeneratedDate string `json:"generatedDate"`
	Size          string `json:"size,omitempty"`
	Status        string `json:"status,omitempty"`
	FilePath      string `json:"filePath,omitempty"`
}

// Plant is one renewable generation site.
type Plant struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"` // Wind, Solar
	Capacity   float64 `json:"capacity"`
	State      string  `json:"state"`
	Status     string  `json:"status"` // Active, Maintenance
	Efficiency float64 `json:"efficiency"`
}

// Schedule is one day-ahead or intraday generation schedule.
type Schedule struct {
	ID           int64   `json:"id"`
	PlantName    string  `json:"plantName"`
	Type         string  `json:"type"` // Day-Ahead, Intraday
	ScheduleDate string  `json:"scheduleDate"`
	Capacity     float64 `json:"capacity"`
	Forecasted   float64 `json:"forecasted"`
	Actual       float64 `json:"actual"`
	Status       string  `json:"status"` // Pending, Approved, Revised, Completed
	Deviation    float64 `json:"deviation"`
}

// Deviation is one hourly forecast-vs-actual deviation sample.
type Deviation struct {
	ID         int64   `json:"id"`
	Hour       int     `json:"hour"`
	Deviation  float64 `json:"deviation"`
	Forecasted float64 `json:"forecasted"`
	Actual     float64 `json:"actual"`
	PlantID    int64   `json:"plantId,omitempty"`
}

// ScheduleCounts breaks schedules down by status for the dashboard.
type ScheduleCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Revised  int `json:"revised"`
}

// DashboardStats is the fleet summary shown on the dashboard screen.
type DashboardStats struct {
	ActivePlants      int            `json:"activePlants"`
	TotalCapacity     float64        `json:"totalCapacity"`
	CurrentGeneration float64        `json:"currentGeneration"`
	Efficiency        float64        `json:"efficiency"`
	WindCapacity      float64        `json:"windCapacity"`
	SolarCapacity     float64        `json:"solarCapacity"`
	Schedules         ScheduleCounts `json:"schedules"`
}

// PlantFilter narrows a plant listing.
type PlantFilter struct {
	Search string
	Type   string
	State  string
	Status string
}

// ReportFilter narrows a report listing.
type ReportFilter struct {
	Type  string
	State string
}

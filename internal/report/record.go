package report

import "time"

// Status is the lifecycle state of a record as shown to the user.
// Generating is transient; Ready is terminal (deletion removes the record
// entirely, and generation failure removes it rather than marking it failed).
type Status int

const (
	StatusGenerating Status = iota
	StatusReady
)

func (s Status) String() string {
	if s == StatusGenerating {
		return "Generating"
	}
	return "Ready"
}

// Origin tags a record's provenance: optimistic records have not yet been
// verified against the system of record.
type Origin int

const (
	OriginOptimistic Origin = iota
	OriginConfirmed
)

func (o Origin) String() string {
	if o == OriginOptimistic {
		return "optimistic"
	}
	return "confirmed"
}

// Supported report kinds, matching the backend's report catalogue.
const (
	TypePerformance       = "Performance"
	TypeSchedule          = "Schedule"
	TypeDeviationAnalysis = "Deviation Analysis"
	TypeForecastAccuracy  = "Forecast Accuracy"
)

// Types lists the supported report kinds in display order.
func Types() []string {
	return []string{TypePerformance, TypeSchedule, TypeDeviationAnalysis, TypeForecastAccuracy}
}

// ValidType reports whether t is one of the supported report kinds.
func ValidType(t string) bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

// Record is one generated or generating report as held in the client store.
// Name, Type, Format and GeneratedDate are immutable once set; the
// reconciliation controller rewrites ID, Status, Origin, FilePath and
// SizeLabel in place when the backend confirms persistence.
type Record struct {
	ID            ID
	Name          string
	Type          string
	Format        string
	GeneratedDate time.Time
	SizeLabel     string
	Status        Status
	FilePath      string
	Origin        Origin
	SortKey       time.Time

	// PendingVerification marks a partial success: the document was built
	// but the backend returned no usable identity. The record is kept and
	// flagged rather than silently dropped.
	PendingVerification bool

	// LocalArtifact is the path of the locally assembled document, set as
	// soon as assembly succeeds and independent of backend persistence.
	LocalArtifact string
}

// Params are the user-chosen inputs to a generation request.
type Params struct {
	Type     string
	Format   string // "PDF", "Excel" or "CSV"
	DateFrom time.Time
	DateTo   time.Time
	Category string // plant type filter: "Wind", "Solar" or ""
	State    string // state filter or ""
}

// DisplayName derives the record name shown in the report list.
func (p Params) DisplayName() string {
	return p.Type + " Report " + p.DateFrom.Format("2006-01-02") + " to " + p.DateTo.Format("2006-01-02")
}

// CreateConfig is the payload of the backend persistence call (§6 create).
type CreateConfig struct {
	Name          string
	Type          string
	Format        string
	GeneratedDate time.Time
	Status        string
	SizeLabel     string
}

// CreateResult is the backend's acknowledgment of a persistence call.
type CreateResult struct {
	ReportID    int64
	DownloadURL string
}

package tui

import (
	"time"
)

// StatusView represents the status output data.
type StatusView struct {
	Version  string
	Widget   WidgetStatusView
	Database DatabaseView
	Config   ConfigStatusView
}

// WidgetStatusView represents the configured widget and its selection.
type WidgetStatusView struct {
	ID          string
	LatestStart time.Time
}

// DatabaseView represents database information.
type DatabaseView struct {
	Location        string
	SizeBytes       int64
	SizeHuman       string
	SelectionCount  int
	TimelineCount   int
	OldestSelection time.Time
	NewestSelection time.Time
}

// ConfigStatusView represents configuration status.
type ConfigStatusView struct {
	Location     string
	HistoryLimit int
	Timezone     string
}

// SelectionView represents a committed start time for display.
type SelectionView struct {
	ID        string
	ShortID   string
	WidgetID  string
	StartTime time.Time
	CreatedAt time.Time
}

// TimelineView represents an imported timeline for display.
type TimelineView struct {
	ID          string
	StartTime   time.Time
	EndTime     time.Time
	SeriesCount int
	EventCount  int
	ImportedAt  time.Time
}

// SummaryView represents a rendered chart summary.
type SummaryView struct {
	Source      string
	StartTime   time.Time
	EndTime     time.Time
	Width       float64
	Series      []SeriesSummaryView
	Circles     int
	Dropped     int
	SliderStart time.Time
}

// SeriesSummaryView represents the totals of one series.
type SeriesSummaryView struct {
	MetricName string
	Severity   string
	Samples    int
	Events     int
}

// ConfigView represents configuration for display.
type ConfigView struct {
	Location string
	Values   map[string]interface{}
}

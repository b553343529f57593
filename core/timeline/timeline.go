// Package timeline provides the input model for event-density timelines.
package timeline

import (
	"time"

	"github.com/samber/lo"
)

// Metric names with a dedicated severity color.
const (
	MetricLogError = "system.app.log.error"
	MetricLogWarn  = "system.app.log.warn"
)

// Severity is the display classification of a metric.
type Severity string

const (
	// SeverityError is drawn red.
	SeverityError Severity = "error"
	// SeverityWarning is drawn yellow.
	SeverityWarning Severity = "warning"
	// SeverityOther is drawn in a neutral color.
	SeverityOther Severity = "other"
)

// ClassifyMetric maps a metric name to its severity.
func ClassifyMetric(metricName string) Severity {
	switch metricName {
	case MetricLogError:
		return SeverityError
	case MetricLogWarn:
		return SeverityWarning
	default:
		return SeverityOther
	}
}

// Metadata is the document supplied by the hosting dashboard.
type Metadata struct {
	QID Range `json:"qid" yaml:"qid"`
}

// Range holds the chart domain and the series plotted over it.
// StartTime and EndTime are epoch seconds.
type Range struct {
	StartTime int64    `json:"startTime" yaml:"startTime"`
	EndTime   int64    `json:"endTime" yaml:"endTime"`
	Series    []Series `json:"series" yaml:"series"`
}

// Series is a named metric with its samples in time order.
type Series struct {
	MetricName string   `json:"metricName" yaml:"metricName"`
	Data       []Sample `json:"data" yaml:"data"`
}

// Sample is the number of events of a metric at Time (epoch seconds).
type Sample struct {
	Time  int64 `json:"time" yaml:"time"`
	Value int   `json:"value" yaml:"value"`
}

// Severity returns the display classification of the series.
func (s Series) Severity() Severity {
	return ClassifyMetric(s.MetricName)
}

// Total returns the summed sample values of the series.
func (s Series) Total() int {
	return lo.SumBy(s.Data, func(sample Sample) int {
		return sample.Value
	})
}

// MillisTime returns the sample time as milliseconds since the epoch.
func (s Sample) MillisTime() float64 {
	return float64(s.Time) * 1000
}

// DomainMillis returns the chart domain in milliseconds since the epoch.
func (r Range) DomainMillis() (float64, float64) {
	return float64(r.StartTime) * 1000, float64(r.EndTime) * 1000
}

// Start returns the domain start as a time.
func (r Range) Start() time.Time {
	return time.Unix(r.StartTime, 0)
}

// End returns the domain end as a time.
func (r Range) End() time.Time {
	return time.Unix(r.EndTime, 0)
}

// HasSeries returns true if at least one series carries samples.
func (r Range) HasSeries() bool {
	return lo.SomeBy(r.Series, func(s Series) bool {
		return len(s.Data) > 0
	})
}

// SeriesBySeverity returns the series with the given severity.
func (r Range) SeriesBySeverity(sev Severity) []Series {
	return lo.Filter(r.Series, func(s Series, _ int) bool {
		return s.Severity() == sev
	})
}

// MetricNames returns the distinct metric names in input order.
func (r Range) MetricNames() []string {
	return lo.Uniq(lo.Map(r.Series, func(s Series, _ int) string {
		return s.MetricName
	}))
}

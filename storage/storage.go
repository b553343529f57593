// Package storage provides database storage interfaces and implementations.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/safedep/timescope/core/timeline"
)

// ErrNotFound is returned when a stored timeline does not exist.
var ErrNotFound = errors.New("not found")

// Selection is one committed slider start time.
type Selection struct {
	ID        uuid.UUID
	WidgetID  string
	StartTime time.Time
	CreatedAt time.Time
}

// SelectionFilter provides filtering for selection queries.
type SelectionFilter struct {
	WidgetID string
	Since    *time.Time
	Limit    int
}

// StoredTimeline is timeline metadata imported under a name.
type StoredTimeline struct {
	ID         string
	Metadata   timeline.Metadata
	ImportedAt time.Time
}

// SelectionStore defines the interface for the start-time history.
type SelectionStore interface {
	// SaveSelection persists a committed start time.
	SaveSelection(ctx context.Context, sel *Selection) error

	// LatestSelection retrieves the most recent selection of a widget, nil
	// when the widget never committed one.
	LatestSelection(ctx context.Context, widgetID string) (*Selection, error)

	// GetSelectionByPrefix retrieves a selection by ID prefix.
	GetSelectionByPrefix(ctx context.Context, prefix string) (*Selection, error)

	// QuerySelections retrieves selections matching the filter, newest first.
	QuerySelections(ctx context.Context, filter *SelectionFilter) ([]*Selection, error)

	// TrimSelections keeps only the newest keep selections of a widget and
	// returns how many were deleted.
	TrimSelections(ctx context.Context, widgetID string, keep int) (int, error)
}

// TimelineStore defines the interface for imported timeline metadata.
type TimelineStore interface {
	// SaveTimeline inserts or replaces a timeline.
	SaveTimeline(ctx context.Context, tl *StoredTimeline) error

	// GetTimeline retrieves a timeline by ID, ErrNotFound when missing.
	GetTimeline(ctx context.Context, id string) (*StoredTimeline, error)

	// ListTimelines returns all stored timelines ordered by ID.
	ListTimelines(ctx context.Context) ([]*StoredTimeline, error)

	// DeleteTimeline removes a timeline, ErrNotFound when missing.
	DeleteTimeline(ctx context.Context, id string) error
}

// Store combines all storage interfaces.
type Store interface {
	SelectionStore
	TimelineStore

	// Init initializes the database schema.
	Init(ctx context.Context) error

	// GetDatabaseInfo returns the location, size and row counts of the store.
	GetDatabaseInfo(ctx context.Context) (*DatabaseInfo, error)

	// Close closes the database connection.
	Close() error
}

// DatabaseInfo contains information about the database.
type DatabaseInfo struct {
	Path            string
	SizeBytes       int64
	SelectionCount  int
	TimelineCount   int
	OldestSelection time.Time
	NewestSelection time.Time
}

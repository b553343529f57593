package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StartTimeWriter records the start times a widget commits as selections
// and keeps the per-widget history bounded.
type StartTimeWriter struct {
	store        SelectionStore
	widgetID     string
	historyLimit int
	now          func() time.Time
}

// NewStartTimeWriter creates a writer for widgetID. A historyLimit below one
// disables trimming.
func NewStartTimeWriter(store SelectionStore, widgetID string, historyLimit int) *StartTimeWriter {
	return &StartTimeWriter{
		store:        store,
		widgetID:     widgetID,
		historyLimit: historyLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WidgetID returns the widget the writer records for.
func (w *StartTimeWriter) WidgetID() string {
	return w.widgetID
}

// UpdateStartTime saves t as the newest selection of the widget.
func (w *StartTimeWriter) UpdateStartTime(ctx context.Context, t time.Time) error {
	sel := &Selection{
		ID:        uuid.New(),
		WidgetID:  w.widgetID,
		StartTime: t,
		CreatedAt: w.now(),
	}
	if err := w.store.SaveSelection(ctx, sel); err != nil {
		return err
	}

	if w.historyLimit > 0 {
		if _, err := w.store.TrimSelections(ctx, w.widgetID, w.historyLimit); err != nil {
			return fmt.Errorf("failed to trim history: %w", err)
		}
	}

	return nil
}

// Latest returns the start time last committed for the widget, nil when none.
func (w *StartTimeWriter) Latest(ctx context.Context) (*time.Time, error) {
	sel, err := w.store.LatestSelection(ctx, w.widgetID)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		return nil, nil
	}

	t := sel.StartTime
	return &t, nil
}

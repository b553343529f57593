package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite via the ent SQL driver.
type SQLiteStore struct {
	drv  *entsql.Driver
	path string
}

// NewSQLiteStore creates a new SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if err := os.MkdirAll(getDir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// modernc.org/sqlite takes pragmas as _pragma query parameters
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteStore{
		drv:  entsql.OpenDB(dialect.SQLite, db),
		path: path,
	}, nil
}

// Init initializes the database schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	migrate, err := schema.NewMigrate(s.drv)
	if err != nil {
		return fmt.Errorf("failed to prepare schema migration: %w", err)
	}
	if err := migrate.Create(ctx, tables...); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.drv.Close()
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// SaveSelection persists a committed start time.
func (s *SQLiteStore) SaveSelection(ctx context.Context, sel *Selection) error {
	if sel.ID == uuid.Nil {
		sel.ID = uuid.New()
	}
	if sel.CreatedAt.IsZero() {
		sel.CreatedAt = time.Now().UTC()
	}

	query, args := builder().Insert(tableSelections).
		Columns(selectionColumns...).
		Values(sel.ID.String(), sel.WidgetID, sel.StartTime.UnixMilli(), sel.CreatedAt.UnixMilli()).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}

	return nil
}

// LatestSelection retrieves the most recent selection of a widget.
func (s *SQLiteStore) LatestSelection(ctx context.Context, widgetID string) (*Selection, error) {
	selector := selectSelections().
		Where(entsql.EQ(colWidgetID, widgetID)).
		OrderBy(entsql.Desc(colSeq)).
		Limit(1)

	sels, err := s.querySelections(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest selection: %w", err)
	}
	if len(sels) == 0 {
		return nil, nil
	}

	return sels[0], nil
}

// GetSelectionByPrefix retrieves a selection by ID prefix.
func (s *SQLiteStore) GetSelectionByPrefix(ctx context.Context, prefix string) (*Selection, error) {
	if !isIDPrefix(prefix) {
		return nil, nil
	}

	selector := selectSelections().
		Where(entsql.HasPrefix(colID, strings.ToLower(prefix))).
		OrderBy(entsql.Desc(colSeq)).
		Limit(1)

	sels, err := s.querySelections(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to get selection by prefix: %w", err)
	}
	if len(sels) == 0 {
		return nil, nil
	}

	return sels[0], nil
}

// QuerySelections retrieves selections matching the filter, newest first.
func (s *SQLiteStore) QuerySelections(ctx context.Context, filter *SelectionFilter) ([]*Selection, error) {
	selector := selectSelections()

	if filter != nil {
		if filter.WidgetID != "" {
			selector.Where(entsql.EQ(colWidgetID, filter.WidgetID))
		}
		if filter.Since != nil {
			selector.Where(entsql.GTE(colCreatedAt, filter.Since.UnixMilli()))
		}
	}

	selector.OrderBy(entsql.Desc(colSeq))
	if filter != nil && filter.Limit > 0 {
		selector.Limit(filter.Limit)
	}

	sels, err := s.querySelections(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}

	return sels, nil
}

// TrimSelections keeps only the newest keep selections of a widget.
func (s *SQLiteStore) TrimSelections(ctx context.Context, widgetID string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	newest := builder().Select(colSeq).
		From(entsql.Table(tableSelections)).
		Where(entsql.EQ(colWidgetID, widgetID)).
		OrderBy(entsql.Desc(colSeq)).
		Limit(keep)

	query, args := builder().Delete(tableSelections).
		Where(entsql.And(
			entsql.EQ(colWidgetID, widgetID),
			entsql.NotIn(colSeq, newest),
		)).
		Query()

	n, err := s.exec(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("failed to trim selections: %w", err)
	}

	return n, nil
}

// SaveTimeline inserts or replaces a timeline.
func (s *SQLiteStore) SaveTimeline(ctx context.Context, tl *StoredTimeline) error {
	if tl.ID == "" {
		return fmt.Errorf("timeline id is required")
	}
	if tl.ImportedAt.IsZero() {
		tl.ImportedAt = time.Now().UTC()
	}

	data, err := json.Marshal(tl.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query, args := builder().Insert(tableTimelines).
		Columns(timelineColumns...).
		Values(tl.ID, string(data), tl.ImportedAt.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns(colID),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("failed to save timeline: %w", err)
	}

	return nil
}

// GetTimeline retrieves a timeline by ID.
func (s *SQLiteStore) GetTimeline(ctx context.Context, id string) (*StoredTimeline, error) {
	selector := selectTimelines().Where(entsql.EQ(colID, id))

	tls, err := s.queryTimelines(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}
	if len(tls) == 0 {
		return nil, fmt.Errorf("timeline %q: %w", id, ErrNotFound)
	}

	return tls[0], nil
}

// ListTimelines returns all stored timelines ordered by ID.
func (s *SQLiteStore) ListTimelines(ctx context.Context) ([]*StoredTimeline, error) {
	tls, err := s.queryTimelines(ctx, selectTimelines().OrderBy(colID))
	if err != nil {
		return nil, fmt.Errorf("failed to list timelines: %w", err)
	}

	return tls, nil
}

// DeleteTimeline removes a timeline.
func (s *SQLiteStore) DeleteTimeline(ctx context.Context, id string) error {
	query, args := builder().Delete(tableTimelines).
		Where(entsql.EQ(colID, id)).
		Query()

	n, err := s.exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("failed to delete timeline: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("timeline %q: %w", id, ErrNotFound)
	}

	return nil
}

// GetDatabaseInfo returns information about the database.
func (s *SQLiteStore) GetDatabaseInfo(ctx context.Context) (*DatabaseInfo, error) {
	info := &DatabaseInfo{
		Path: s.path,
	}

	// Get file size
	if stat, err := os.Stat(s.path); err == nil {
		info.SizeBytes = stat.Size()
	}

	var oldest, newest sql.NullInt64
	selector := builder().
		Select(entsql.Count("*"), entsql.Min(colCreatedAt), entsql.Max(colCreatedAt)).
		From(entsql.Table(tableSelections))
	if err := s.queryRow(ctx, selector, &info.SelectionCount, &oldest, &newest); err != nil {
		return nil, fmt.Errorf("failed to count selections: %w", err)
	}
	if oldest.Valid {
		info.OldestSelection = time.UnixMilli(oldest.Int64).UTC()
	}
	if newest.Valid {
		info.NewestSelection = time.UnixMilli(newest.Int64).UTC()
	}

	selector = builder().Select(entsql.Count("*")).From(entsql.Table(tableTimelines))
	if err := s.queryRow(ctx, selector, &info.TimelineCount); err != nil {
		return nil, fmt.Errorf("failed to count timelines: %w", err)
	}

	return info, nil
}

func selectSelections() *entsql.Selector {
	return builder().Select(selectionColumns...).From(entsql.Table(tableSelections))
}

func selectTimelines() *entsql.Selector {
	return builder().Select(timelineColumns...).From(entsql.Table(tableTimelines))
}

// exec runs a write statement and returns the number of affected rows.
func (s *SQLiteStore) exec(ctx context.Context, query string, args []any) (int, error) {
	var res sql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// queryRow scans the single row returned by an aggregate selector.
func (s *SQLiteStore) queryRow(ctx context.Context, selector *entsql.Selector, dest ...any) error {
	query, args := selector.Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := rows.Scan(dest...); err != nil {
		return err
	}
	return rows.Err()
}

func (s *SQLiteStore) querySelections(ctx context.Context, selector *entsql.Selector) ([]*Selection, error) {
	query, args := selector.Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Selection
	for rows.Next() {
		sel, err := scanSelection(&rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		result = append(result, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *SQLiteStore) queryTimelines(ctx context.Context, selector *entsql.Selector) ([]*StoredTimeline, error) {
	query, args := selector.Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*StoredTimeline
	for rows.Next() {
		tl, err := scanTimeline(&rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline: %w", err)
		}
		result = append(result, tl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// isIDPrefix reports whether prefix can start a selection uuid.
func isIDPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	for _, r := range strings.ToLower(prefix) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') && r != '-' {
			return false
		}
	}
	return true
}

// getDir returns the directory portion of a path.
func getDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[:i]
		}
	}
	return "."
}

func scanSelection(row entsql.ColumnScanner) (*Selection, error) {
	var (
		id        string
		sel       Selection
		startTime int64
		createdAt int64
	)
	if err := row.Scan(&id, &sel.WidgetID, &startTime, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid selection id %q: %w", id, err)
	}
	sel.ID = parsed
	sel.StartTime = time.UnixMilli(startTime).UTC()
	sel.CreatedAt = time.UnixMilli(createdAt).UTC()

	return &sel, nil
}

func scanTimeline(row entsql.ColumnScanner) (*StoredTimeline, error) {
	var (
		tl         StoredTimeline
		data       string
		importedAt int64
	)
	if err := row.Scan(&tl.ID, &data, &importedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(data), &tl.Metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata for timeline %q: %w", tl.ID, err)
	}
	tl.ImportedAt = time.UnixMilli(importedAt).UTC()

	return &tl, nil
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

package storage

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableSelections = "selections"
	tableTimelines  = "timelines"
)

// Column names shared by the table definitions and the queries.
const (
	colSeq        = "seq"
	colID         = "id"
	colWidgetID   = "widget_id"
	colStartTime  = "start_time"
	colCreatedAt  = "created_at"
	colMetadata   = "metadata"
	colImportedAt = "imported_at"
)

var (
	selectionsColumns = []*schema.Column{
		{Name: colSeq, Type: field.TypeInt, Increment: true},
		{Name: colID, Type: field.TypeString, Unique: true},
		{Name: colWidgetID, Type: field.TypeString},
		{Name: colStartTime, Type: field.TypeInt64},
		{Name: colCreatedAt, Type: field.TypeInt64},
	}
	selectionsTable = &schema.Table{
		Name:       tableSelections,
		Columns:    selectionsColumns,
		PrimaryKey: []*schema.Column{selectionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "selection_widget_id_seq",
				Columns: []*schema.Column{selectionsColumns[2], selectionsColumns[0]},
			},
		},
	}

	timelinesColumns = []*schema.Column{
		{Name: colID, Type: field.TypeString},
		{Name: colMetadata, Type: field.TypeString, Size: 2147483647},
		{Name: colImportedAt, Type: field.TypeInt64},
	}
	timelinesTable = &schema.Table{
		Name:       tableTimelines,
		Columns:    timelinesColumns,
		PrimaryKey: []*schema.Column{timelinesColumns[0]},
	}

	tables = []*schema.Table{selectionsTable, timelinesTable}
)

var (
	selectionColumns = []string{colID, colWidgetID, colStartTime, colCreatedAt}
	timelineColumns  = []string{colID, colMetadata, colImportedAt}
)

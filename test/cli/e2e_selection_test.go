package cli_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/safedep/timescope/cli"
	"github.com/safedep/timescope/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_Empty(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("selection", "latest")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No selections found.")
}

func TestSelection_SetAndLatest(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("selection", "set", "2026-03-01T12:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Start time set to 2026-03-01T12:00:00Z")

	stdout, _, err = env.run("selection", "latest")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dashboard-1")
	assert.Contains(t, stdout, "2026-03-01 12:00:00.000")
}

func TestSelection_SetRejectsBadTime(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("selection", "set", "soon")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInput, exitCode(err))
}

func TestSelection_HistoryLimit(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 15; i++ {
		_, _, err := env.run("selection", "set", fmt.Sprintf("%d", 1000000+i*1000))
		require.NoError(t, err)
	}

	sels := env.selections("dashboard-1")
	require.Len(t, sels, 10)
	assert.Equal(t, int64(1014000), sels[0].StartTime.UnixMilli())
}

func TestSelection_List(t *testing.T) {
	env := newTestEnv(t)

	env.seedStore(func(ctx context.Context, store storage.Store) {
		for i := 0; i < 3; i++ {
			require.NoError(t, store.SaveSelection(ctx, &storage.Selection{
				ID:        uuid.New(),
				WidgetID:  "dashboard-1",
				StartTime: time.UnixMilli(int64(1000000 + i*1000)),
				CreatedAt: time.Now().UTC(),
			}))
		}
		require.NoError(t, store.SaveSelection(ctx, &storage.Selection{
			ID:        uuid.New(),
			WidgetID:  "other",
			StartTime: time.UnixMilli(5000),
			CreatedAt: time.Now().UTC(),
		}))
	})

	stdout, _, err := env.run("selection", "list", "--format", "json")
	require.NoError(t, err)

	var views []struct {
		WidgetID  string
		StartTime time.Time
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &views))
	require.Len(t, views, 3)
	assert.Equal(t, int64(1002000), views[0].StartTime.UnixMilli())

	stdout, _, err = env.run("selection", "list", "--limit", "1", "--format", "jsonl")
	require.NoError(t, err)
	assert.Equal(t, 1, countLines(stdout))

	stdout, _, err = env.run("selection", "list", "--widget", "other")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Selections (1)")

	_, _, err = env.run("selection", "list", "--since", "yesterday")
	assert.Equal(t, cli.ExitInput, exitCode(err))
}

func TestSelection_Show(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.MustParse("7b0c1f9e-1111-4a2b-9c3d-000000000001")

	env.seedStore(func(ctx context.Context, store storage.Store) {
		require.NoError(t, store.SaveSelection(ctx, &storage.Selection{
			ID:        id,
			WidgetID:  "dashboard-1",
			StartTime: time.UnixMilli(1500000),
			CreatedAt: time.Now().UTC(),
		}))
	})

	stdout, _, err := env.run("selection", "show", "7b0c1f9e")
	require.NoError(t, err)
	assert.Contains(t, stdout, "7b0c1f9e")
	assert.Contains(t, stdout, "1970-01-01 00:25:00.000")

	_, _, err = env.run("selection", "show", "ffffffff")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInput, exitCode(err))
}

func countLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/safedep/timescope/cli"
	"github.com/safedep/timescope/core/timeline"
	"github.com/safedep/timescope/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_SingleFile(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFile("prod-api.json", testMetadataJSON)

	stdout, _, err := env.run("import", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported prod-api (3 series)")

	env.seedStore(func(ctx context.Context, store storage.Store) {
		stored, err := store.GetTimeline(ctx, "prod-api")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), stored.Metadata.QID.StartTime)
		assert.Len(t, stored.Metadata.QID.Series, 3)
	})
}

func TestImport_CustomID(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFile("metadata.yaml", testMetadataYAML)

	stdout, _, err := env.run("import", path, "--id", "staging")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported staging (1 series)")
}

func TestImport_MultipleFiles(t *testing.T) {
	env := newTestEnv(t)
	a := env.writeFile("a.json", testMetadataJSON)
	b := env.writeFile("b.yaml", testMetadataYAML)

	stdout, _, err := env.run("import", a, b)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported a")
	assert.Contains(t, stdout, "Imported b")

	stdout, _, err = env.run("timelines")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Timelines (2)")
}

func TestImport_Errors(t *testing.T) {
	env := newTestEnv(t)
	a := env.writeFile("a.json", testMetadataJSON)
	bad := env.writeFile("bad.json", "not json")

	_, _, err := env.run("import", a, bad, "--id", "x")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInput, exitCode(err))

	stdout, _, err := env.run("import", a, bad)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInput, exitCode(err))
	assert.Contains(t, err.Error(), "1 of 2 files")
	assert.Contains(t, stdout, "Imported a")
	assert.Contains(t, stdout, "Error:")
}

func TestTimelines_Empty(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("timelines")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No timelines imported.")
}

func TestTimelines_ListJSON(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run("import", env.writeFile("prod.json", testMetadataJSON))
	require.NoError(t, err)

	stdout, _, err := env.run("timelines", "--format", "json")
	require.NoError(t, err)

	var views []struct {
		ID          string
		SeriesCount int
		EventCount  int
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "prod", views[0].ID)
	assert.Equal(t, 3, views[0].SeriesCount)
	assert.Equal(t, 6, views[0].EventCount)
}

func TestTimelines_Export(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run("import", env.writeFile("prod.json", testMetadataJSON))
	require.NoError(t, err)

	stdout, _, err := env.run("timelines", "export", "prod")
	require.NoError(t, err)

	md, err := timeline.Decode(bytes.NewReader([]byte(stdout)), timeline.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), md.QID.EndTime)
	assert.Equal(t, timeline.MetricLogError, md.QID.Series[0].MetricName)

	_, _, err = env.run("timelines", "export", "missing")
	assert.Equal(t, cli.ExitInput, exitCode(err))
}

func TestTimelines_Remove(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run("import", env.writeFile("prod.json", testMetadataJSON))
	require.NoError(t, err)

	stdout, _, err := env.run("timelines", "rm", "prod")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed prod")

	stdout, _, err = env.run("timelines")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No timelines imported.")

	_, _, err = env.run("timelines", "rm", "prod")
	assert.Equal(t, cli.ExitInput, exitCode(err))
}

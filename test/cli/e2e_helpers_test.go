package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/safedep/timescope/cli"
	"github.com/safedep/timescope/storage"
	"github.com/stretchr/testify/require"
)

const testMetadataJSON = `{
  "qid": {
    "startTime": 1000,
    "endTime": 2000,
    "series": [
      {"metricName": "system.app.log.error", "data": [{"time": 1500, "value": 3}]},
      {"metricName": "system.app.log.warn", "data": [{"time": 1200, "value": 1}]},
      {"metricName": "system.app.log.info", "data": [{"time": 1800, "value": 2}]}
    ]
  }
}`

const testMetadataYAML = `qid:
  startTime: 1000
  endTime: 2000
  series:
    - metricName: system.app.log.error
      data:
        - time: 1500
          value: 3
`

type testEnv struct {
	t          *testing.T
	tmpDir     string
	dbPath     string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, "")
}

func newTestEnvWithConfig(t *testing.T, configYAML string) *testEnv {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	configPath := filepath.Join(tmpDir, "config.yaml")

	if configYAML == "" {
		configYAML = fmt.Sprintf(`widget:
  id: dashboard-1
storage:
  path: %s
  history_limit: 10
display:
  colors: never
  timezone: utc
`, dbPath)
	}

	err := os.WriteFile(configPath, []byte(configYAML), 0o600)
	require.NoError(t, err)

	return &testEnv{
		t:          t,
		tmpDir:     tmpDir,
		dbPath:     dbPath,
		configPath: configPath,
	}
}

func (env *testEnv) run(args ...string) (stdout, stderr string, err error) {
	env.t.Helper()
	return env.runWithInput(nil, args...)
}

func (env *testEnv) runWithInput(in io.Reader, args ...string) (stdout, stderr string, err error) {
	env.t.Helper()

	var outBuf, errBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	if in != nil {
		rootCmd.SetIn(in)
	}

	fullArgs := append([]string{"--config", env.configPath, "--no-color"}, args...)
	rootCmd.SetArgs(fullArgs)
	err = rootCmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

// writeFile writes content under the test directory and returns its path.
func (env *testEnv) writeFile(name, content string) string {
	env.t.Helper()

	path := filepath.Join(env.tmpDir, name)
	require.NoError(env.t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (env *testEnv) openStore() (storage.Store, func()) {
	env.t.Helper()

	store, err := storage.NewSQLiteStore(env.dbPath)
	require.NoError(env.t, err)
	err = store.Init(context.Background())
	require.NoError(env.t, err)

	return store, func() {
		err := store.Close()
		require.NoError(env.t, err)
	}
}

func (env *testEnv) seedStore(fn func(ctx context.Context, store storage.Store)) {
	env.t.Helper()

	store, cleanup := env.openStore()
	defer cleanup()

	fn(context.Background(), store)
}

// selections returns the committed selections of widgetID, newest first.
func (env *testEnv) selections(widgetID string) []*storage.Selection {
	env.t.Helper()

	store, cleanup := env.openStore()
	defer cleanup()

	sels, err := store.QuerySelections(context.Background(), &storage.SelectionFilter{WidgetID: widgetID})
	require.NoError(env.t, err)
	return sels
}

func exitCode(err error) int {
	if err == nil {
		return cli.ExitSuccess
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return cli.ExitGeneral
}

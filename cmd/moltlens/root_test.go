package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/moltlens/internal/config"
)

var fixedNow = func() time.Time { return time.Date(2026, 2, 6, 5, 0, 0, 0, time.UTC) }

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "moltlens.yaml")
	content := fmt.Sprintf(`paths:
  rawDir: %[1]s/raw
  hourlyDir: %[1]s/hourly
  outputDir: %[1]s/out
report:
  output: %[1]s/REPORT.md
log:
  level: error
  format: json
`, dir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func seed(t *testing.T, dir, date string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "raw"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "hourly"), 0o755))
	log := "2026-02-06T03:00:00Z molts=100 likes=50 views=900\n2026-02-06T03:01:30Z molts=130 likes=60 views=950\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw", date+".log"), []byte(log), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hourly", date+".json"), []byte(`{"hours":[]}`), 0o644))
}

func execute(args ...string) (string, error) {
	out := &bytes.Buffer{}
	root := newRootCommand(out, out, fixedNow)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunCommand_DefaultsDateToToday(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	seed(t, dir, "2026-02-06")

	out, err := execute("run", "--config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, out, "wrote "+filepath.Join(dir, "REPORT.md"))
	assert.Contains(t, out, "wrote "+filepath.Join(dir, "out", "anomalies_2026-02-06.json"))
	assert.FileExists(t, filepath.Join(dir, "REPORT.md"))
	assert.FileExists(t, filepath.Join(dir, "out", "hourly_2026-02-06.svg"))
}

func TestReportCommand_ExplicitDate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	seed(t, dir, "2026-02-05")

	out, err := execute("report", "--config", cfgPath, "--date", "2026-02-05")
	require.NoError(t, err)

	assert.Equal(t, "wrote "+filepath.Join(dir, "REPORT.md")+"\n", out)
	md, err := os.ReadFile(filepath.Join(dir, "REPORT.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "20.00/min 1200.00/hour")
}

func TestArtifactsCommand_MissingInputFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	_, err := execute("artifacts", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required input file not found")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestCommand_MissingConfigFile(t *testing.T) {
	_, err := execute("report", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, config.ErrConfigFileMissing)
}

func TestCommand_RejectsArgs(t *testing.T) {
	_, err := execute("run", "extra")
	assert.Error(t, err)
}

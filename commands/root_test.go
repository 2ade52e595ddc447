package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-hackathon-board/internal/config"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/data/icsio"
	"github.com/penwyp/go-hackathon-board/internal/presentation/formatter"
)

// setupEnv points the configuration at a fresh temp directory and returns
// the schedule file path.
func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	storeFile := filepath.Join(home, "schedule.json")

	t.Setenv("HOME", home)
	t.Setenv("BOARD_CONFIG", "")
	t.Setenv("BOARD_TIMEZONE", "UTC")
	t.Setenv("BOARD_STORE_FILE", storeFile)
	t.Setenv("BOARD_LOG_FILE", filepath.Join(home, "logs", "app.log"))
	t.Setenv("BOARD_FEED_WATCH", "false")
	return storeFile
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func listJSON(t *testing.T, args ...string) formatter.Listing {
	t.Helper()
	out := mustRun(t, append([]string{"schedule", "list", "-o", "json"}, args...)...)
	var l formatter.Listing
	require.NoError(t, sonic.Unmarshal([]byte(out), &l), out)
	return l
}

func TestScheduleLifecycle(t *testing.T) {
	setupEnv(t)

	assert.Equal(t, "Added #1 12:00 Lunch\n", mustRun(t, "schedule", "add", "12:00", "Lunch"))
	mustRun(t, "schedule", "add", "09:00:30", "Opening", "--en", "개회식")
	mustRun(t, "schedule", "add", "18:00", "Judging", "-i")

	l := listJSON(t)
	require.Len(t, l.Rows, 3)
	assert.Equal(t, []string{"Opening", "Lunch", "Judging"}, []string{l.Rows[0].Name, l.Rows[1].Name, l.Rows[2].Name})
	assert.Equal(t, "09:00", l.Rows[0].Time)
	assert.Equal(t, "개회식", l.Rows[0].NameSecondary)
	assert.True(t, l.Rows[2].Important)

	out := mustRun(t, "schedule", "update", "1", "--time", "07:45")
	assert.Equal(t, "Updated #1 07:45 Lunch\n", out)

	mustRun(t, "schedule", "update", "3", "--important=false")
	l = listJSON(t)
	assert.Equal(t, "Lunch", l.Rows[0].Name)
	assert.False(t, l.Rows[2].Important)
	assert.Equal(t, "Judging", l.Rows[2].Name)

	assert.Equal(t, "Removed #1\nRemoved #2\n", mustRun(t, "schedule", "rm", "1", "#2"))
	l = listJSON(t)
	require.Len(t, l.Rows, 1)
	assert.Equal(t, model.EntryID(3), l.Rows[0].ID)
}

func TestScheduleErrors(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "schedule", "add", "25:61", "Broken")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = run(t, "schedule", "add", "10:00", "  ")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = run(t, "schedule", "update", "42", "--name", "x")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = run(t, "schedule", "remove", "abc")
	assert.Error(t, err)

	_, err = run(t, "schedule", "list", "-o", "xml")
	assert.Error(t, err)

	assert.Empty(t, listJSON(t).Rows)
}

func TestScheduleListFormats(t *testing.T) {
	setupEnv(t)
	mustRun(t, "schedule", "add", "09:00", "Keynote", "-i")

	assert.Contains(t, mustRun(t, "schedule", "list"), "Keynote")
	assert.Contains(t, mustRun(t, "schedule", "list", "-o", "csv"), "1,09:00,Keynote,,true")
	assert.Contains(t, mustRun(t, "schedule", "list", "-o", "summary"), "Entries:    1 (1 important)")
}

func TestScheduleImportExport(t *testing.T) {
	setupEnv(t)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	ics := icsio.Export([]model.ScheduleEntry{
		{ID: 1, TimeOfDay: model.MustTimeOfDay("13:00"), Title: "Demo"},
		{ID: 2, TimeOfDay: model.MustTimeOfDay("10:00"), Title: "Kickoff", Important: true},
	}, day, "Import")
	icsPath := filepath.Join(t.TempDir(), "agenda.ics")
	require.NoError(t, os.WriteFile(icsPath, []byte(ics), 0644))

	assert.Equal(t, "Imported 2 entries\n", mustRun(t, "schedule", "import", icsPath))

	l := listJSON(t)
	require.Len(t, l.Rows, 2)
	assert.Equal(t, "Kickoff", l.Rows[0].Name)
	assert.Equal(t, "10:00", l.Rows[0].Time)
	assert.True(t, l.Rows[0].Important)

	out := mustRun(t, "schedule", "export")
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Demo")

	exportPath := filepath.Join(t.TempDir(), "out.ics")
	out = mustRun(t, "schedule", "export", "-o", exportPath)
	assert.Contains(t, out, "Exported 2 entries")
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Kickoff")
}

func TestDisplayOnce(t *testing.T) {
	setupEnv(t)
	mustRun(t, "schedule", "add", "00:00", "Registration")

	out := mustRun(t, "display", "--once", "--title", "Seoul Hack")
	assert.Contains(t, out, "Seoul Hack")
	assert.Contains(t, out, "Registration")
	assert.NotContains(t, out, "\033[")

	out = mustRun(t, "--once", "--view", "title")
	assert.Contains(t, out, "Registration")

	_, err := run(t, "display", "--once", "--view", "calendar")
	assert.Error(t, err)
	_, err = run(t, "display", "--once", "--refresh-per-second", "50")
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "board.yaml")

	out := mustRun(t, "--config", path, "config", "init")
	assert.Contains(t, out, path)

	_, err := run(t, "--config", path, "config", "init")
	assert.Error(t, err)
	mustRun(t, "--config", path, "config", "init", "--force")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DriverFile, cfg.Store.Driver)

	t.Setenv("BOARD_ADMIN_USER", "admin")
	t.Setenv("BOARD_ADMIN_PASSWORD", "secret")
	out = mustRun(t, "--config", path, "config", "show")
	assert.Contains(t, out, "admin_user: admin")
	assert.NotContains(t, out, "secret")
}

func TestMissingExplicitConfig(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "schedule", "list")
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	setupEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "other.json")
	opts := &rootOptions{timezone: "Asia/Seoul", storeFile: file}
	require.NoError(t, opts.applyOverrides(cfg))
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, file, cfg.Store.FilePath)

	opts = &rootOptions{timezone: "Mars/Olympus"}
	assert.Error(t, opts.applyOverrides(cfg))
}

func TestFileFlagSelectsStore(t *testing.T) {
	storeFile := setupEnv(t)
	other := filepath.Join(t.TempDir(), "other.json")

	mustRun(t, "--file", other, "schedule", "add", "10:00", "Elsewhere")
	assert.FileExists(t, other)
	assert.NoFileExists(t, storeFile)
	assert.Len(t, listJSON(t, "--file", other).Rows, 1)
}

func TestRefreshInterval(t *testing.T) {
	d, err := refreshInterval(1)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	d, err = refreshInterval(20)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, d)

	d, err = refreshInterval(0.1)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	_, err = refreshInterval(25)
	assert.Error(t, err)
}

func TestParseEntryID(t *testing.T) {
	id, err := parseEntryID("#7")
	require.NoError(t, err)
	assert.Equal(t, model.EntryID(7), id)

	for _, bad := range []string{"", "0", "-1", "x"} {
		_, err := parseEntryID(bad)
		assert.Error(t, err, bad)
	}
}

func TestHelpNeedsNoConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("BOARD_TIMEZONE", "Mars/Olympus")

	out := mustRun(t, "--help")
	assert.True(t, strings.HasPrefix(out, "hackathon-board keeps"), out)
}

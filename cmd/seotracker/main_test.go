package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aleister1102/seotracker/internal/sheetstore"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<html><head><title>Home &amp; Garden</title>
<meta name="description" content="Plants and tools"></head>
<body><h1>Welcome</h1></body></html>`)
		case "/moved":
			http.Redirect(w, r, "/", http.StatusMovedPermanently)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := fmt.Sprintf(`mode: onetime
log_config:
  log_level: error
sheet_config:
  path: %s
scheduler_config:
  history_db_path: %s
`, filepath.Join(dir, "targets.xlsx"), filepath.Join(dir, "history.db"))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func TestRun_StatusCommand(t *testing.T) {
	srv := newSiteServer(t)
	cfgPath := writeTestConfig(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "status", srv.URL + "/", srv.URL + "/moved", srv.URL + "/gone", ""}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], "\t200"))
	assert.True(t, strings.HasSuffix(lines[1], "\t301"))
	assert.True(t, strings.HasSuffix(lines[2], "\t404"))
	assert.True(t, strings.HasSuffix(lines[3], "\tError: Empty URL"))
}

func TestRun_InitSheetThenOnetimeCycle(t *testing.T) {
	srv := newSiteServer(t)
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	targets := filepath.Join(dir, "targets.csv")
	require.NoError(t, os.WriteFile(targets, []byte(fmt.Sprintf("# client,url\nAcme,%s/\nAcme,%s/gone\n", srv.URL, srv.URL)), 0644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-config", cfgPath, "init-sheet", targets}, &stdout, &stderr), stderr.String())
	require.Equal(t, 0, run([]string{"-config", cfgPath, "run"}, &stdout, &stderr), stderr.String())

	store := sheetstore.NewExcelStore(sheetstore.ExcelOptions{Path: filepath.Join(dir, "targets.xlsx"), HeaderRows: 1}, zerolog.Nop())
	rows, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Home & Garden", rows[0].CurrentTitle)
	assert.Equal(t, "Plants and tools", rows[0].CurrentMeta)
	assert.Equal(t, "Welcome", rows[0].CurrentH1)
	assert.Equal(t, "200", rows[0].CurrentStatus)

	// A 404 body is still a fetched page, so the row rotates.
	assert.Equal(t, "404", rows[1].CurrentStatus)

	stdout.Reset()
	require.Equal(t, 0, run([]string{"-config", cfgPath, "history"}, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "COMPLETED")
}

func TestRun_InitSheetRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	targets := filepath.Join(dir, "targets.csv")
	require.NoError(t, os.WriteFile(targets, []byte("Acme,https://acme.test\n"), 0644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-config", cfgPath, "init-sheet", targets}, &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"-config", cfgPath, "init-sheet", targets}, &stdout, &stderr))
}

func TestRun_BadConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Could not load configuration")

	code = run([]string{"-mode", "sometimes", "-config", writeTestConfig(t, t.TempDir())}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "rule 'mode'")
}

func TestRun_UsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"bogus"}, &stdout, &stderr))
	assert.Equal(t, 0, run([]string{"-h"}, &stdout, &stderr))
}

func TestReadTargets(t *testing.T) {
	targets, err := readTargets(strings.NewReader("# comment\nAcme, https://acme.test\n\nGlobex,https://globex.test\n"))
	require.NoError(t, err)
	assert.Equal(t, [][2]string{
		{"Acme", "https://acme.test"},
		{"Globex", "https://globex.test"},
	}, targets)

	_, err = readTargets(strings.NewReader("just-a-url\n"))
	assert.Error(t, err)
}

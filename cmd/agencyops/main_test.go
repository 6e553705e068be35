package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestCLI_APIKeyAndDashboard(t *testing.T) {
	t.Setenv("AGENCYOPS_CONFIG_PATH", "")
	t.Setenv("AGENCYOPS_EXPORT_DIR", t.TempDir())
	dsn := filepath.Join(t.TempDir(), "data", "agency.db")

	out := runCLI(t, "--db-dsn", dsn, "apikey", "add", "ana", "--token", "secret")
	require.Equal(t, "secret\n", out)

	out = runCLI(t, "--db-dsn", dsn, "dashboard")
	var dash map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &dash))
	require.EqualValues(t, 0, dash["total_clients"])
	require.Equal(t, "0", dash["revenue"])

	out = runCLI(t, "--db-dsn", dsn, "export", "--type", "income")
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.EqualValues(t, 0, report["rows"])

	out = runCLI(t, "--db-dsn", dsn, "apikey", "revoke", "ana")
	require.Contains(t, out, "ana")
}

func TestCLI_RejectsBadFlag(t *testing.T) {
	t.Setenv("AGENCYOPS_CONFIG_PATH", "")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--db-driver", "mysql", "dashboard"})
	require.ErrorContains(t, root.Execute(), "mysql")
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestLogFileWriter_TrimsOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "agencyops.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("a"), maxLogSizeBytes), 0o644))

	w, err := newLogFileWriter(path)
	require.NoError(t, err)
	t.Cleanup(func() { w.file.Close() })

	_, err = w.Write([]byte(strings.Repeat("b", 10)))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(keepLogSizeBytes), info.Size())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "bbbbbbbbbb"))
}

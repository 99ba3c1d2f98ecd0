package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Emes13/habittrax/internal/config"
	"github.com/Emes13/habittrax/internal/server"
	"github.com/Emes13/habittrax/internal/storage/bolt"
	"github.com/Emes13/habittrax/pkg/versioninfo"
)

// writeConfig points HABITS_CONFIG at a fresh config file and returns the
// database path it names.
func writeConfig(t *testing.T, apiBase string) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "habits.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("api_base_url: %s\ntimezone: UTC\nlog_level: error\nstorage:\n  driver: bolt\n  path: %s\n", apiBase, dbPath)
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("HABITS_CONFIG", cfgPath)
	t.Setenv("HABITS_API_BASE", "")
	t.Setenv("HABITS_DB_PATH", "")
	return dbPath
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// startAPI serves a bolt-backed API from its own temporary database.
func startAPI(t *testing.T) string {
	t.Helper()
	st, err := bolt.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	srv, err := server.New(&config.Config{Timezone: "UTC"}, st)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestClientCommands(t *testing.T) {
	writeConfig(t, startAPI(t))

	out, err := runCmd(t, "add", "Stretch", "--category", "wellness", "--reminder", "anytime")
	if err != nil {
		t.Fatalf("add failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Created Stretch (") {
		t.Fatalf("unexpected add output %q", out)
	}
	id := strings.TrimSuffix(strings.TrimSpace(out[strings.Index(out, "(")+1:]), ")")

	out, err = runCmd(t, "list", "--date", "2024-03-06")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "Stretch") || !strings.Contains(out, "incomplete") {
		t.Fatalf("unexpected list output %q", out)
	}

	out, err = runCmd(t, "toggle", id, "--date", "2024-03-06")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(out, "2024-03-06: complete") {
		t.Fatalf("unexpected toggle output %q", out)
	}

	out, err = runCmd(t, "status", id, "partial", "--date", "2024-03-06")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "partial") {
		t.Fatalf("unexpected status output %q", out)
	}

	out, err = runCmd(t, "today", "--date", "2024-03-06")
	if err != nil {
		t.Fatalf("today failed: %v", err)
	}
	if !strings.Contains(out, "0 of 1 done") || !strings.Contains(out, "1 partial") {
		t.Fatalf("unexpected today output %q", out)
	}

	out, err = runCmd(t, "summary", id)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !strings.Contains(out, "Stretch") || !strings.Contains(out, "first logged:   2024-03-06") {
		t.Fatalf("unexpected summary output %q", out)
	}

	out, err = runCmd(t, "remind", "--dry-run")
	if err != nil {
		t.Fatalf("remind failed: %v", err)
	}
	if !strings.Contains(out, "Nothing due") {
		t.Fatalf("unexpected remind output %q", out)
	}

	out, _ = runCmd(t, "version")
	if !strings.Contains(out, "Client Version: "+versioninfo.Version) || !strings.Contains(out, "Server Version: ") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestClientCommandErrors(t *testing.T) {
	writeConfig(t, startAPI(t))

	if _, err := runCmd(t, "status", "some-id", "done", "--date", "2024-03-06"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
	if _, err := runCmd(t, "toggle", "missing", "--date", "2024-03-06"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 for missing habit, got %v", err)
	}
	if _, err := runCmd(t, "list", "--date", "06/03/2024"); err == nil {
		t.Fatal("expected malformed date to fail")
	}
	if _, err := runCmd(t, "add", "Nope", "--category", "no-such-category"); err == nil {
		t.Fatal("expected unknown category to fail")
	}
}

func TestSeedCommand(t *testing.T) {
	dbPath := writeConfig(t, "http://127.0.0.1:0")

	out, err := runCmd(t, "seed", "--user", "demo", "--seed", "7")
	if err != nil {
		t.Fatalf("seed failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Created 4 habits") {
		t.Fatalf("unexpected seed output %q", out)
	}

	st, err := bolt.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open seeded store: %v", err)
	}
	defer st.Close()
	habits, err := st.ListHabits(context.Background(), "demo")
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 4 {
		t.Fatalf("got %d habits, want 4", len(habits))
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	for _, driver := range []string{"bolt", "sqlite"} {
		st, err := openStore(config.Config{Storage: config.StorageConfig{Driver: driver, Path: filepath.Join(dir, driver+".db")}})
		if err != nil {
			t.Fatalf("%s: %v", driver, err)
		}
		if err := st.Close(); err != nil {
			t.Fatalf("%s: close failed: %v", driver, err)
		}
	}
	if _, err := openStore(config.Config{Storage: config.StorageConfig{Driver: "mongo"}}); err == nil {
		t.Fatal("expected unknown driver to fail")
	}
}

func TestStartServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := config.Config{
		ListenAddr: "127.0.0.1:0",
		Timezone:   "UTC",
		Storage:    config.StorageConfig{Driver: "bolt", Path: filepath.Join(t.TempDir(), "habits.db")},
	}
	if err := startServer(ctx, c); err != nil {
		t.Fatalf("startServer returned %v", err)
	}
}

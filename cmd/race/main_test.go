package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/vango-dev/race/internal/config"
	"github.com/vango-dev/race/pkg/snapshot"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// run executes the CLI with a config directory holding race.toml.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func configDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := "[snapshot]\ndir = \"snaps\"\n\n[log]\nlevel = \"warn\"\n"
	if err := os.WriteFile(filepath.Join(dir, config.TOMLFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version", "--short")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version output = %q, want %q", out, version)
	}
}

func TestDemo(t *testing.T) {
	out, err := run(t, configDir(t), "demo", "counter", "--click", "2", "--ops")
	if err != nil {
		t.Fatalf("demo error = %v", err)
	}
	for _, want := range []string{
		"Mounted Counter",
		"Click 2 on button",
		"SetText",
		`<button>Increment2</button>`,
		`<div>1</div>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("demo output missing %q:\n%s", want, out)
		}
	}
}

func TestDemoErrors(t *testing.T) {
	dir := configDir(t)
	if _, err := run(t, dir, "demo", "nope"); err == nil || !strings.Contains(err.Error(), "unknown app") {
		t.Errorf("demo nope error = %v, want unknown app", err)
	}
	if _, err := run(t, dir, "demo", "counter", "--click", "1", "--target", "#missing"); err == nil {
		t.Error("demo with missing target succeeded")
	}
	if _, err := run(t, dir, "demo", "--log-level", "loud"); err == nil {
		t.Error("demo with invalid log level succeeded")
	}
}

func TestSnapshotCommands(t *testing.T) {
	dir := configDir(t)

	out, err := run(t, dir, "snapshot", "save", "todo")
	if err != nil {
		t.Fatalf("snapshot save error = %v", err)
	}
	if !strings.Contains(out, "Saved todo.mp") {
		t.Errorf("save output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "snaps", "todo.mp")); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}

	out, err = run(t, dir, "snapshot", "list")
	if err != nil {
		t.Fatalf("snapshot list error = %v", err)
	}
	if strings.TrimSpace(out) != "todo.mp" {
		t.Errorf("list output = %q, want todo.mp", out)
	}

	out, err = run(t, dir, "snapshot", "show", "todo.mp")
	if err != nil {
		t.Fatalf("snapshot show error = %v", err)
	}
	if !strings.Contains(out, "TodoApp") || !strings.Contains(out, "<h1>Todo List</h1>") {
		t.Errorf("show output = %q", out)
	}

	if _, err := run(t, dir, "snapshot", "show", "missing.mp"); err == nil {
		t.Error("show missing snapshot succeeded")
	}
}

func TestOpenStoreS3(t *testing.T) {
	cfg := config.New()
	cfg.Snapshot.S3 = config.S3Config{Bucket: "b", Region: "us-east-1", Endpoint: "http://localhost:9000"}
	store, err := openStore(cfg)
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	if _, ok := store.(*snapshot.S3Store); !ok {
		t.Errorf("openStore() = %T, want *snapshot.S3Store", store)
	}
}

func TestServe(t *testing.T) {
	cfg := config.New()
	cfg.Live.Host = "127.0.0.1"
	cfg.Live.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, io.Discard, cfg, "todo", ready) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("runServe() error = %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	for _, path := range []string{"/healthz", "/", "/metrics"} {
		resp, err := http.Get("http://" + addr + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

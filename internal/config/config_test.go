package config

import (
    "errors"
    "os"
    "path/filepath"
    "reflect"
    "testing"
    "time"

    "github.com/adrg/xdg"
)

func writeConfig(t *testing.T, body string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "config.yaml")
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatalf("write config: %v", err)
    }
    return path
}

func TestLoadDefaults(t *testing.T) {
    t.Setenv(EnvListen, "")
    cfg, err := Load("")
    if err != nil {
        t.Fatalf("load failed: %v", err)
    }
    if !reflect.DeepEqual(*cfg, Default()) {
        t.Fatalf("expected defaults, got %+v", cfg)
    }
}

func TestLoadFile(t *testing.T) {
    t.Setenv(EnvListen, "")
    path := writeConfig(t, `
listen: "127.0.0.1:9000"
log_level: debug
log_development: true
heartbeat: 5s
allowed_origins:
  - example.com
subscriber_buffer: 4
`)
    cfg, err := Load(path)
    if err != nil {
        t.Fatalf("load failed: %v", err)
    }
    want := Config{
        Listen:           "127.0.0.1:9000",
        LogLevel:         "debug",
        LogDevelopment:   true,
        Heartbeat:        5 * time.Second,
        AllowedOrigins:   []string{"example.com"},
        SubscriberBuffer: 4,
    }
    if !reflect.DeepEqual(*cfg, want) {
        t.Fatalf("got %+v, want %+v", *cfg, want)
    }
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
    t.Setenv(EnvListen, "")
    cfg, err := Load(writeConfig(t, "log_level: warn\n"))
    if err != nil {
        t.Fatalf("load failed: %v", err)
    }
    if cfg.Listen != ":8080" || cfg.Heartbeat != 15*time.Second || cfg.LogLevel != "warn" {
        t.Fatalf("unexpected config %+v", cfg)
    }
}

func TestEnvOverridesListen(t *testing.T) {
    t.Setenv(EnvListen, ":7000")
    cfg, err := Load(writeConfig(t, "listen: \":9000\"\n"))
    if err != nil {
        t.Fatalf("load failed: %v", err)
    }
    if cfg.Listen != ":7000" {
        t.Fatalf("expected env override, got %q", cfg.Listen)
    }
}

func TestLoadInvalid(t *testing.T) {
    t.Setenv(EnvListen, "")
    cases := []string{
        "log_level: chatty\n",
        "heartbeat: 0s\n",
        "subscriber_buffer: 0\n",
    }
    for _, body := range cases {
        if _, err := Load(writeConfig(t, body)); !errors.Is(err, ErrInvalid) {
            t.Fatalf("expected ErrInvalid for %q, got %v", body, err)
        }
    }
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
    t.Setenv(EnvListen, "")
    if _, err := Load(writeConfig(t, "board_size: 4\n")); err == nil {
        t.Fatalf("expected unknown key to be rejected")
    }
}

func TestLoadMissingFile(t *testing.T) {
    if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
        t.Fatalf("expected not-exist error, got %v", err)
    }
}

func TestLocateExplicitPath(t *testing.T) {
    if got := Locate("/etc/tantfant.yaml"); got != "/etc/tantfant.yaml" {
        t.Fatalf("expected explicit path, got %q", got)
    }
}

func TestLocateSearchesXDGConfigHome(t *testing.T) {
    dir := t.TempDir()
    t.Setenv("XDG_CONFIG_HOME", dir)
    t.Setenv("XDG_CONFIG_DIRS", dir)
    xdg.Reload()
    t.Cleanup(xdg.Reload)

    if got := Locate(""); got != "" {
        t.Fatalf("expected no config file, got %q", got)
    }
    want := filepath.Join(dir, RelPath)
    if err := os.MkdirAll(filepath.Dir(want), 0o755); err != nil {
        t.Fatal(err)
    }
    if err := os.WriteFile(want, []byte("listen: \":9000\"\n"), 0o644); err != nil {
        t.Fatal(err)
    }
    if got := Locate(""); got != want {
        t.Fatalf("expected %q, got %q", want, got)
    }
}

func TestLogger(t *testing.T) {
    cfg := Default()
    cfg.LogLevel = "debug"
    log, err := cfg.Logger()
    if err != nil {
        t.Fatalf("logger failed: %v", err)
    }
    if !log.Core().Enabled(-1) {
        t.Fatalf("expected debug level to be enabled")
    }
}

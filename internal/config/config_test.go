package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Queue.Capacity != 16 {
		t.Errorf("default capacity = %d, want 16", cfg.Queue.Capacity)
	}
	if cfg.Loop.IdleWait() != 500*time.Microsecond {
		t.Errorf("default idle wait = %v, want 500us", cfg.Loop.IdleWait())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Queue.Capacity != 16 {
		t.Errorf("capacity = %d, want default 16", cfg.Queue.Capacity)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "microloop.toml")
	content := `
[queue]
capacity = 4

[loop]
idle_wait_us = 1000

[trace]
enabled = true
path = "out.json"
limit = 32
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Queue.Capacity != 4 {
		t.Errorf("capacity = %d, want 4", cfg.Queue.Capacity)
	}
	if cfg.Loop.IdleWaitUS != 1000 {
		t.Errorf("idle_wait_us = %d, want 1000", cfg.Loop.IdleWaitUS)
	}
	if !cfg.Trace.Enabled || cfg.Trace.Path != "out.json" || cfg.Trace.Limit != 32 {
		t.Errorf("trace = %+v", cfg.Trace)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[queue\ncapacity = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed TOML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MICROLOOP_QUEUE_CAPACITY", "8")
	t.Setenv("MICROLOOP_IDLE_WAIT_US", "250")
	t.Setenv("MICROLOOP_TRACE", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Queue.Capacity != 8 {
		t.Errorf("capacity = %d, want env override 8", cfg.Queue.Capacity)
	}
	if cfg.Loop.IdleWaitUS != 250 {
		t.Errorf("idle_wait_us = %d, want env override 250", cfg.Loop.IdleWaitUS)
	}
	if !cfg.Trace.Enabled {
		t.Error("trace not enabled by env override")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "microloop.toml")
	if err := os.WriteFile(path, []byte("[queue]\ncapacity = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MICROLOOP_QUEUE_CAPACITY", "32")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Queue.Capacity != 32 {
		t.Errorf("capacity = %d, env should win over file (32)", cfg.Queue.Capacity)
	}
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("MICROLOOP_QUEUE_CAPACITY", "lots")
	if _, err := Load(""); err == nil {
		t.Error("Load accepted non-numeric capacity")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero capacity", func(c *Config) { c.Queue.Capacity = 0 }, ErrInvalidCapacity},
		{"negative capacity", func(c *Config) { c.Queue.Capacity = -1 }, ErrInvalidCapacity},
		{"zero idle wait", func(c *Config) { c.Loop.IdleWaitUS = 0 }, ErrInvalidIdleWait},
		{"negative trace limit", func(c *Config) { c.Trace.Limit = -1 }, ErrInvalidTraceLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

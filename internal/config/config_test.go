package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
logging:
  level: debug
  console: true
storage:
  path: data/shotarc.db
  busy_timeout: 5s
posting:
  enabled: true
  schedule: "0 * * * *"
  timezone: Europe/Moscow
  maintenance: true
telegram:
  enabled: true
  token: "123:abc"
  chat_id: -100200300
  rate_per_min: 15
github:
  repo: someone/archive
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	m := NewManager(writeConfig(t, sampleYAML))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Storage.Path != "data/shotarc.db" {
		t.Fatalf("unexpected storage path %q", cfg.Storage.Path)
	}
	if !cfg.Posting.Enabled || cfg.Posting.Schedule != "0 * * * *" {
		t.Fatalf("unexpected posting config: %+v", cfg.Posting)
	}
	if cfg.Telegram == nil || cfg.Telegram.ChatID != -100200300 || cfg.Telegram.RatePerMin != 15 {
		t.Fatalf("unexpected telegram config: %+v", cfg.Telegram)
	}
	if got := m.Get(); got != cfg {
		t.Fatalf("Get returned a different config")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	m := NewManager(writeConfig(t, sampleYAML+"\nbogus: 1\n"))
	if _, err := m.Parse(); err == nil {
		t.Fatal("expected error for unknown top-level field")
	}
}

func TestNormalizeYAMLLeavesInputAlone(t *testing.T) {
	in := map[string]any{
		"outer": map[string]any{"inner": 1},
		"list":  []any{map[string]any{"k": "v"}},
	}
	out := normalizeYAML(in).(map[string]any)

	out["added"] = true
	if _, ok := in["added"]; ok {
		t.Fatal("normalizeYAML returned the input map instead of a copy")
	}
	out["outer"].(map[string]any)["added"] = true
	if _, ok := in["outer"].(map[string]any)["added"]; ok {
		t.Fatal("normalizeYAML returned a nested input map instead of a copy")
	}
}

func TestParseMissingFile(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := m.Parse(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSubscribePublish(t *testing.T) {
	m := NewManager(writeConfig(t, sampleYAML))
	if _, err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	ch := m.Subscribe(1)
	next := &Config{}
	m.publish(next)

	select {
	case got := <-ch:
		if got != next {
			t.Fatalf("received unexpected config")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published config")
	}

	m.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}
}

func TestSlowSubscriberKeepsNewest(t *testing.T) {
	m := NewManager(writeConfig(t, sampleYAML))
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	first := &Config{}
	second := &Config{}
	m.publish(first)
	m.publish(second)

	select {
	case got := <-ch:
		if got != second {
			t.Fatal("expected newest config after overflow")
		}
	default:
		t.Fatal("expected a queued config")
	}
}

func TestParseDurationField(t *testing.T) {
	if _, err := ParseDurationField("storage.busy_timeout", "nope"); err == nil {
		t.Fatal("expected error for bad duration")
	}
	d, err := ParseDurationOrDefault("telegram.poll_timeout", "", 10*time.Second)
	if err != nil {
		t.Fatalf("default duration: %v", err)
	}
	if d != 10*time.Second {
		t.Fatalf("got %v, want 10s", d)
	}
}

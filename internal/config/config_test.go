package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Load is once-per-process, so the file and env paths are exercised through
// the unexported pieces.

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	body := `{"game_addr":"0.0.0.0:9999","tick_interval_ms":100}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.GameAddr != "0.0.0.0:9999" {
		t.Errorf("game addr not overridden: %s", c.GameAddr)
	}
	if c.TickIntervalMs != 100 {
		t.Errorf("tick interval not overridden: %d", c.TickIntervalMs)
	}
	if c.HTTPAddr != Default().HTTPAddr {
		t.Errorf("untouched key lost its default: %s", c.HTTPAddr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HIDDENCARD_GAME_ADDR", "10.0.0.1:4000")
	t.Setenv("HIDDENCARD_MAX_CLIENTS", "8")
	t.Setenv("HIDDENCARD_TOKEN_TTL_HOURS", "not-a-number")

	c := Default()
	applyEnv(c)

	if c.GameAddr != "10.0.0.1:4000" {
		t.Errorf("string override missed: %s", c.GameAddr)
	}
	if c.MaxClients != 8 {
		t.Errorf("int override missed: %d", c.MaxClients)
	}
	if c.TokenTTLHours != Default().TokenTTLHours {
		t.Errorf("garbage int should be ignored, got %d", c.TokenTTLHours)
	}
}

func TestDurationHelpers(t *testing.T) {
	c := Default()
	if c.TickInterval().Milliseconds() != int64(c.TickIntervalMs) {
		t.Error("tick interval conversion wrong")
	}
	if c.TokenTTL().Hours() != float64(c.TokenTTLHours) {
		t.Error("token ttl conversion wrong")
	}
}

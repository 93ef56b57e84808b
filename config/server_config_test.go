package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseArenas(t *testing.T) {
	got, err := ParseArenas(" classic:1, maze:5 ,open")
	if err != nil {
		t.Fatalf("ParseArenas: %v", err)
	}
	want := []ArenaConfig{{"classic", 1}, {"maze", 5}, {"open", DefaultLevel}}
	if len(got) != len(want) {
		t.Fatalf("got %d arenas, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arena %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseArenasRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "classic:x", "classic:0", ":3", "a:1,a:2"} {
		if _, err := ParseArenas(in); err == nil {
			t.Fatalf("ParseArenas(%q) should fail", in)
		}
	}
}

func TestLoadReadsDotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("PORT=7070\nSNAKE_ARENAS=maze:5\nHTTP_READ_TIMEOUT=3s\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	// godotenv never overrides variables that are already set.
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("SNAKE_ARENAS", "")
	os.Unsetenv("SNAKE_ARENAS")
	t.Setenv("HTTP_READ_TIMEOUT", "")
	os.Unsetenv("HTTP_READ_TIMEOUT")

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("port = %q, want 7070", cfg.Port)
	}
	if len(cfg.Arenas) != 1 || cfg.Arenas[0] != (ArenaConfig{ID: "maze", Level: 5}) {
		t.Fatalf("arenas = %+v", cfg.Arenas)
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Fatalf("read timeout = %v", cfg.ReadTimeout)
	}
}

func TestLoadMissingEnvFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SNAKE_ARENAS", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Arenas[0].ID != DefaultArenaID {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

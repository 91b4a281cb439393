package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/engine"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.Depth != engine.DefaultDepth {
		t.Errorf("Depth = %d, want %d", c.Depth, engine.DefaultDepth)
	}
}

func TestFromEnv(t *testing.T) {
	base := Config{Depth: 3, DataDir: "/data", LogLevel: "info", Pretty: true}
	got, err := base.FromEnv(envOf(map[string]string{
		EnvDepth:    "4",
		EnvSeed:     "42",
		EnvDataDir:  "/tmp/chess",
		EnvLogLevel: "debug",
		EnvPretty:   "false",
		EnvTimeout:  "1500ms",
	}))
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Depth:    4,
		Seed:     42,
		Timeout:  1500 * time.Millisecond,
		DataDir:  "/tmp/chess",
		LogLevel: "debug",
		Pretty:   false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromEnv (-want +got):\n%s", diff)
	}
}

func TestFromEnvUnsetKeepsValues(t *testing.T) {
	base := Default()
	got, err := base.FromEnv(envOf(nil))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(base, got); diff != "" {
		t.Errorf("FromEnv changed config (-want +got):\n%s", diff)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvDepth, "deep"},
		{EnvSeed, "x"},
		{EnvPretty, "maybe"},
		{EnvTimeout, "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := Default().FromEnv(envOf(map[string]string{tt.key: tt.value}))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero depth", func(c *Config) { c.Depth = 0 }},
		{"depth too large", func(c *Config) { c.Depth = MaxDepth + 1 }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	c := Default()
	c.Depth = 2
	c.Seed = 9
	eng := engine.New(c.EngineOptions(zerolog.Nop())...)
	if eng.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", eng.Depth())
	}
}

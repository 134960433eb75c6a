package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "non positive chunk size",
			mutate: func(cfg *Config) {
				cfg.Chunk.Size = 0
			},
			wantErr: "chunk.size must be positive",
		},
		{
			name: "unload radius inside load radius",
			mutate: func(cfg *Config) {
				cfg.Chunk.LoadRadius = 3
				cfg.Chunk.UnloadRadius = 2
			},
			wantErr: "chunk.unloadRadius must be >= chunk.loadRadius",
		},
		{
			name: "non positive tile size",
			mutate: func(cfg *Config) {
				cfg.Tile.Size = -4
			},
			wantErr: "tile.size must be positive",
		},
		{
			name: "persistence out of range",
			mutate: func(cfg *Config) {
				cfg.Terrain.Persistence = 1.5
			},
			wantErr: "terrain.persistence must be between 0 and 1",
		},
		{
			name: "negative terrain workers",
			mutate: func(cfg *Config) {
				cfg.Terrain.Workers = -1
			},
			wantErr: "terrain.workers cannot be negative",
		},
		{
			name: "unknown noise backend",
			mutate: func(cfg *Config) {
				cfg.Noise.Backend = "worley"
			},
			wantErr: `noise.backend "worley" is not supported`,
		},
		{
			name: "negative obstruction budget",
			mutate: func(cfg *Config) {
				cfg.Interaction.MaxObstructions = -1
			},
			wantErr: "interaction.maxObstructions cannot be negative",
		},
		{
			name: "zero tick rate",
			mutate: func(cfg *Config) {
				cfg.Simulation.TickRate = 0
			},
			wantErr: "simulation.tickRate must be positive",
		},
		{
			name: "empty view",
			mutate: func(cfg *Config) {
				cfg.View.Height = 0
			},
			wantErr: "view dimensions must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected an error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("unexpected error: got %q want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if want := Default(); !reflect.DeepEqual(cfg, want) {
		t.Fatalf("default configuration mismatch:\nwant: %#v\n got: %#v", want, cfg)
	}
}

func TestLoadReadsFileAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.World.Seed = 99
	cfg.Noise.Backend = "simplex"
	cfg.Simulation.TickRate = Duration(50 * time.Millisecond)

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("loaded configuration mismatch:\nwant: %#v\n got: %#v", cfg, got)
	}
}

func TestLoadYAMLMergesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")

	doc := "world:\n  seed: 7\nchunk:\n  size: 16\nsimulation:\n  tickRate: 100ms\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	want := Default()
	want.World.Seed = 7
	want.Chunk.Size = 16
	want.Simulation.TickRate = Duration(100 * time.Millisecond)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("yaml configuration mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{"chunk":{"sise":16}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected load to fail")
	}
	if !strings.Contains(err.Error(), "schema config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Chunk.LoadRadius = 4

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err = Load(path)
	if err == nil {
		t.Fatalf("expected load to fail")
	}
	if !strings.Contains(err.Error(), "validate config: chunk.unloadRadius must be >= chunk.loadRadius") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDurationDecodesStringsAndNumbers(t *testing.T) {
	var fromJSON struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"250ms","b":1000}`), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if fromJSON.A.Duration() != 250*time.Millisecond || fromJSON.B.Duration() != time.Microsecond {
		t.Fatalf("unexpected json durations: %v %v", fromJSON.A, fromJSON.B)
	}

	var fromYAML struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	if err := yaml.Unmarshal([]byte("a: 2s\nb: 5\n"), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if fromYAML.A.Duration() != 2*time.Second || fromYAML.B.Duration() != 5 {
		t.Fatalf("unexpected yaml durations: %v %v", fromYAML.A, fromYAML.B)
	}

	var bad Duration
	if err := json.Unmarshal([]byte(`"soon"`), &bad); err == nil {
		t.Fatalf("expected parse error for invalid duration")
	}
}

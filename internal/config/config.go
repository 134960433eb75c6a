package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a JSON and YAML friendly wrapper around time.Duration that
// accepts human readable strings such as "16ms" in configuration files while
// still allowing numeric representations when necessary.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalYAML encodes the duration as its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML scalars.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration: expected scalar, got kind %d", node.Kind)
	}
	switch node.Tag {
	case "!!null":
		*d = 0
		return nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("duration: decode int: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("duration: decode float: %w", err)
		}
		*d = Duration(time.Duration(f))
		return nil
	}
	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures the tunable parameters of a tile world process.
type Config struct {
	World       WorldConfig       `json:"world" yaml:"world"`
	Chunk       ChunkConfig       `json:"chunk" yaml:"chunk"`
	Tile        TileConfig        `json:"tile" yaml:"tile"`
	Terrain     TerrainConfig     `json:"terrain" yaml:"terrain"`
	Cave        CaveConfig        `json:"cave" yaml:"cave"`
	Vegetation  VegetationConfig  `json:"vegetation" yaml:"vegetation"`
	Noise       NoiseConfig       `json:"noise" yaml:"noise"`
	Interaction InteractionConfig `json:"interaction" yaml:"interaction"`
	Simulation  SimulationConfig  `json:"simulation" yaml:"simulation"`
	View        ViewConfig        `json:"view" yaml:"view"`
}

type WorldConfig struct {
	Seed int64 `json:"seed" yaml:"seed"`
}

type ChunkConfig struct {
	Size              int `json:"size" yaml:"size"`                           // tiles per chunk edge
	LoadRadius        int `json:"loadRadius" yaml:"loadRadius"`               // chunks kept around the player
	UnloadRadius      int `json:"unloadRadius" yaml:"unloadRadius"`           // Chebyshev distance before eviction
	GenerationWorkers int `json:"generationWorkers" yaml:"generationWorkers"` // 0 = GOMAXPROCS
}

type TileConfig struct {
	Size int `json:"size" yaml:"size"` // pixels per tile edge
}

type TerrainConfig struct {
	BaseHeight       float64 `json:"baseHeight" yaml:"baseHeight"`
	HeightMultiplier float64 `json:"heightMultiplier" yaml:"heightMultiplier"`
	NoiseScale       float64 `json:"noiseScale" yaml:"noiseScale"`
	Persistence      float64 `json:"persistence" yaml:"persistence"`
	Lacunarity       float64 `json:"lacunarity" yaml:"lacunarity"`
	Workers          int     `json:"workers" yaml:"workers"` // row workers per chunk, 0 = auto
}

type CaveConfig struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

type VegetationConfig struct {
	Density             float64 `json:"density" yaml:"density"`
	Threshold           float64 `json:"threshold" yaml:"threshold"`
	TreeVsBushThreshold float64 `json:"treeVsBushThreshold" yaml:"treeVsBushThreshold"`
}

type NoiseConfig struct {
	Backend string `json:"backend" yaml:"backend"` // perlin, simplex or value
}

type InteractionConfig struct {
	Range           float64 `json:"range" yaml:"range"` // world pixels
	MaxObstructions int     `json:"maxObstructions" yaml:"maxObstructions"`
}

type SimulationConfig struct {
	TickRate        Duration `json:"tickRate" yaml:"tickRate"`
	MaxEditsPerTick int      `json:"maxEditsPerTick" yaml:"maxEditsPerTick"`
}

type ViewConfig struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Format identifies a configuration encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads configuration from a JSON or YAML file if provided. An empty
// path returns defaults. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := Decode(data, FormatForPath(path), cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Decode checks data against the configuration schema and merges it into cfg.
func Decode(data []byte, format Format, cfg *Config) error {
	doc, err := parseDocument(data, format)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return fmt.Errorf("schema config: %w", err)
	}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed: 12345,
		},
		Chunk: ChunkConfig{
			Size:              32,
			LoadRadius:        1,
			UnloadRadius:      2,
			GenerationWorkers: 0,
		},
		Tile: TileConfig{
			Size: 48,
		},
		Terrain: TerrainConfig{
			BaseHeight:       15,
			HeightMultiplier: 50,
			NoiseScale:       0.035,
			Persistence:      0.2,
			Lacunarity:       2.5,
			Workers:          0,
		},
		Cave: CaveConfig{
			Threshold: 0.3,
		},
		Vegetation: VegetationConfig{
			Density:             0.35,
			Threshold:           0.3,
			TreeVsBushThreshold: 0.0,
		},
		Noise: NoiseConfig{
			Backend: "perlin",
		},
		Interaction: InteractionConfig{
			Range:           160,
			MaxObstructions: 1,
		},
		Simulation: SimulationConfig{
			TickRate:        Duration(time.Second / 60),
			MaxEditsPerTick: 8,
		},
		View: ViewConfig{
			Width:  800,
			Height: 600,
		},
	}
}

var noiseBackends = map[string]struct{}{
	"perlin":  {},
	"simplex": {},
	"value":   {},
}

func (c *Config) Validate() error {
	if c.Chunk.Size <= 0 {
		return errors.New("chunk.size must be positive")
	}
	if c.Chunk.LoadRadius < 0 {
		return errors.New("chunk.loadRadius cannot be negative")
	}
	if c.Chunk.UnloadRadius < c.Chunk.LoadRadius {
		return errors.New("chunk.unloadRadius must be >= chunk.loadRadius")
	}
	if c.Chunk.GenerationWorkers < 0 {
		return errors.New("chunk.generationWorkers cannot be negative")
	}
	if c.Tile.Size <= 0 {
		return errors.New("tile.size must be positive")
	}
	if c.Terrain.NoiseScale <= 0 {
		return errors.New("terrain.noiseScale must be positive")
	}
	if c.Terrain.Persistence < 0 || c.Terrain.Persistence > 1 {
		return errors.New("terrain.persistence must be between 0 and 1")
	}
	if c.Terrain.Lacunarity <= 0 {
		return errors.New("terrain.lacunarity must be positive")
	}
	if c.Terrain.Workers < 0 {
		return errors.New("terrain.workers cannot be negative")
	}
	if c.Vegetation.Density < 0 {
		return errors.New("vegetation.density cannot be negative")
	}
	if _, ok := noiseBackends[c.Noise.Backend]; !ok {
		return fmt.Errorf("noise.backend %q is not supported", c.Noise.Backend)
	}
	if c.Interaction.Range <= 0 {
		return errors.New("interaction.range must be positive")
	}
	if c.Interaction.MaxObstructions < 0 {
		return errors.New("interaction.maxObstructions cannot be negative")
	}
	if c.Simulation.TickRate <= 0 {
		return errors.New("simulation.tickRate must be positive")
	}
	if c.Simulation.MaxEditsPerTick <= 0 {
		return errors.New("simulation.maxEditsPerTick must be positive")
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return errors.New("view dimensions must be positive")
	}
	return nil
}

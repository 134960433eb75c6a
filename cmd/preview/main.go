package main

import (
	"flag"
	"log"

	"tileworld/internal/config"
	"tileworld/internal/terrain"
	"tileworld/internal/world"
)

func main() {
	var (
		cfgPath string
		x, y    int
		w, h    int
		scale   int
		out     string
	)
	flag.StringVar(&cfgPath, "config", "", "path to tile world configuration file (json or yaml)")
	flag.IntVar(&x, "x", -64, "left tile column")
	flag.IntVar(&y, "y", -20, "top tile row")
	flag.IntVar(&w, "w", 128, "width in tiles")
	flag.IntVar(&h, "h", 96, "height in tiles")
	flag.IntVar(&scale, "scale", 4, "pixels per tile")
	flag.StringVar(&out, "out", "previews/world.png", "output PNG path")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := log.New(log.Writer(), "preview ", log.LstdFlags|log.Lmicroseconds)
	gen, err := terrain.FromConfig(cfg, logger)
	if err != nil {
		log.Fatalf("build generator: %v", err)
	}
	tw := world.New(cfg.World.Seed, gen, world.StoreOptions{
		ChunkSize: cfg.Chunk.Size,
		TileSize:  cfg.Tile.Size,
		Logger:    logger,
	})

	area := world.TileSpan{MinX: x, MaxX: x + w - 1, MinY: y, MaxY: y + h - 1}
	if err := world.SavePreview(tw, area, world.DefaultPaletteAtlas(), scale, out); err != nil {
		log.Fatalf("save preview: %v", err)
	}
	logger.Printf("wrote %dx%d tile preview of seed %d to %s", w, h, cfg.World.Seed, out)
}

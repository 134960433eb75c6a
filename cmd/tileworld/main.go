package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tileworld/internal/config"
	"tileworld/internal/sim"
)

func main() {
	var (
		cfgPath string
		walk    float64
		ticks   int
	)
	flag.StringVar(&cfgPath, "config", "", "path to tile world configuration file (json or yaml)")
	flag.Float64Var(&walk, "walk", 4, "horizontal player speed in pixels per tick")
	flag.IntVar(&ticks, "ticks", 0, "number of ticks to simulate, 0 runs until interrupted")
	flag.Parse()

	if wrote, err := writeConfigFromEnv(cfgPath); err != nil {
		log.Fatalf("sync config from environment: %v", err)
	} else if wrote {
		log.Printf("wrote environment configuration to %s", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := log.New(log.Writer(), "tileworld ", log.LstdFlags|log.Lmicroseconds)
	s, err := sim.New(cfg, logger)
	if err != nil {
		log.Fatalf("initialise simulation: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := walker{sim: s, speed: walk, start: s.SpawnPoint(0).X()}
	w.place(0)
	logger.Printf("seed %d, spawn at tile column 0 height %d", cfg.World.Seed, s.World().HeightAt(0))

	if ticks > 0 {
		for i := 1; i <= ticks; i++ {
			frame, err := s.Step(ctx)
			if err != nil {
				log.Fatalf("tick %d: %v", i, err)
			}
			w.place(i)
			if i == ticks {
				broken, added := s.World().EditCounts()
				logger.Printf("finished %d ticks: center %v, %d chunks resident, %d obstacles in view, edits %d/%d",
					frame.Tick, frame.Center, len(frame.LoadedChunks), len(frame.Obstacles), broken, added)
			}
		}
		return
	}

	go w.run(ctx, cfg.Simulation.TickRate.Duration())
	if err := s.Run(ctx); err != nil {
		log.Fatalf("simulation exited with error: %v", err)
	}
	logger.Printf("stopped after %d ticks", s.Latest().Tick)
}

// walker moves the player along the surface at a constant speed.
type walker struct {
	sim   *sim.Simulation
	speed float64
	start float64
}

func (w walker) place(step int) {
	world := w.sim.World()
	ts := float64(world.TileSize())
	x := w.start + w.speed*float64(step)
	column := int(math.Floor(x / ts))
	w.sim.SetPlayer(x, float64(world.HeightAt(column))*ts)
}

func (w walker) run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for step := 1; ; step++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.place(step)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
			return
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}

package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tileworld/internal/config"
	"tileworld/internal/sim"
	"tileworld/internal/world"
)

const (
	panSpeed     = 6.0
	brokenAlpha  = 0x50
	playerMarker = 8
)

var (
	skyColor    = color.RGBA{R: 110, G: 170, B: 220, A: 255}
	playerColor = color.RGBA{R: 230, G: 60, B: 60, A: 255}
)

type App struct {
	sim    *sim.Simulation
	atlas  *world.PaletteAtlas
	width  int
	height int
	camera mgl64.Vec2
	ctx    context.Context
}

func NewApp(ctx context.Context, s *sim.Simulation, cfg *config.Config) *App {
	spawn := s.SpawnPoint(0)
	app := &App{
		sim:    s,
		atlas:  world.DefaultPaletteAtlas(),
		width:  cfg.View.Width,
		height: cfg.View.Height,
		camera: spawn,
		ctx:    ctx,
	}
	app.syncCamera()
	return app
}

func (a *App) view() world.Rect {
	w := float64(a.width)
	h := float64(a.height)
	return world.Rect{X: a.camera.X() - w/2, Y: a.camera.Y() - h/2, W: w, H: h}
}

func (a *App) syncCamera() {
	a.sim.SetPlayer(a.camera.X(), a.camera.Y())
	a.sim.SetView(a.view())
}

func (a *App) Layout(outsideW, outsideH int) (int, int) {
	return a.width, a.height
}

func (a *App) Update() error {
	var move mgl64.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		move[0] -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		move[0] += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		move[1] -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		move[1] += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	a.camera = a.camera.Add(move)
	a.syncCamera()

	view := a.view()
	cx, cy := ebiten.CursorPosition()
	target := a.sim.World().TileAtPoint(view.X+float64(cx), view.Y+float64(cy))
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		a.sim.RequestBreak(a.camera, target)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		a.sim.RequestPlace(a.camera, target)
	}

	if _, err := a.sim.Step(a.ctx); err != nil {
		return err
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)

	frame := a.sim.Latest()
	w := a.sim.World()
	ts := float32(w.TileSize())
	for tile := range w.RenderTiles(frame.View, a.atlas) {
		c := a.atlas.Color(tile.Type, tile.Variant)
		if tile.Broken {
			c.A = brokenAlpha
		}
		vector.DrawFilledRect(screen, float32(tile.ScreenX), float32(tile.ScreenY), ts, ts, c, false)
	}

	px := float32(frame.Player.X() - frame.View.X)
	py := float32(frame.Player.Y() - frame.View.Y)
	vector.DrawFilledRect(screen, px-playerMarker/2, py-playerMarker, playerMarker, playerMarker, playerColor, false)

	broken, added := w.EditCounts()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("tick %d  chunk %v  resident %d  obstacles %d  broken %d  placed %d",
		frame.Tick, frame.Center, len(frame.LoadedChunks), len(frame.Obstacles), broken, added))
}

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to tile world configuration file (json or yaml)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := log.New(log.Writer(), "tileview ", log.LstdFlags|log.Lmicroseconds)
	s, err := sim.New(cfg, logger)
	if err != nil {
		log.Fatalf("initialise simulation: %v", err)
	}

	ebiten.SetWindowTitle("tileworld")
	ebiten.SetWindowSize(cfg.View.Width, cfg.View.Height)

	app := NewApp(context.Background(), s, cfg)
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}

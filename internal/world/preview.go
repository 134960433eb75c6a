package world

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	previewBrokenLight = 0.35
	previewMaxPixels   = 64 << 20
)

var previewBackground = color.NRGBA{R: 24, G: 0, B: 12, A: 255}

// RenderPreview draws the tiles of area into an image, scale pixels per tile,
// using the same tile sequence a live renderer consumes.
func RenderPreview(w *World, area TileSpan, atlas *PaletteAtlas, scale int) (*image.NRGBA, error) {
	if w == nil {
		return nil, fmt.Errorf("world is nil")
	}
	if area.Count() == 0 {
		return nil, fmt.Errorf("preview area %+v is empty", area)
	}
	if scale <= 0 {
		scale = 1
	}
	width := (area.MaxX - area.MinX + 1) * scale
	height := (area.MaxY - area.MinY + 1) * scale
	if width*height > previewMaxPixels {
		return nil, fmt.Errorf("preview of %dx%d pixels is too large", width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{previewBackground}, image.Point{}, draw.Src)

	ts := float64(w.TileSize())
	view := Rect{
		X: float64(area.MinX) * ts,
		Y: float64(area.MinY) * ts,
		W: float64(area.MaxX-area.MinX+1) * ts,
		H: float64(area.MaxY-area.MinY+1) * ts,
	}
	for tile := range w.RenderTiles(view, atlas) {
		if tile.Tile.X < area.MinX || tile.Tile.X > area.MaxX ||
			tile.Tile.Y < area.MinY || tile.Tile.Y > area.MaxY {
			continue
		}
		col := atlas.Color(tile.Type, tile.Variant)
		if tile.Broken {
			col = applyLighting(col, previewBrokenLight)
		}
		x := (tile.Tile.X - area.MinX) * scale
		y := (tile.Tile.Y - area.MinY) * scale
		fillRect(img, image.Rect(x, y, x+scale, y+scale), col)
	}
	return img, nil
}

// WritePreview encodes the preview as PNG.
func WritePreview(out io.Writer, img image.Image) error {
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

// SavePreview renders area and writes it to path, creating parent directories.
func SavePreview(w *World, area TileSpan, atlas *PaletteAtlas, scale int, path string) error {
	img, err := RenderPreview(w, area, atlas, scale)
	if err != nil {
		return err
	}
	if err := ensurePreviewDir(filepath.Dir(path)); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()
	return WritePreview(file, img)
}

func fillRect(img *image.NRGBA, r image.Rectangle, col color.NRGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			idx := img.PixOffset(x, y)
			img.Pix[idx] = col.R
			img.Pix[idx+1] = col.G
			img.Pix[idx+2] = col.B
			img.Pix[idx+3] = col.A
		}
	}
}

func parseHexColor(value string) (color.NRGBA, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return color.NRGBA{}, false
	}
	trimmed = strings.TrimPrefix(trimmed, "#")
	if len(trimmed) != 6 {
		return color.NRGBA{}, false
	}
	r, ok := parseHexByte(trimmed[0:2])
	if !ok {
		return color.NRGBA{}, false
	}
	g, ok := parseHexByte(trimmed[2:4])
	if !ok {
		return color.NRGBA{}, false
	}
	b, ok := parseHexByte(trimmed[4:6])
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, true
}

func parseHexByte(value string) (uint8, bool) {
	if len(value) != 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(value, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func applyLighting(base color.NRGBA, factor float64) color.NRGBA {
	factor = clamp(factor, 0, 1)
	r := uint8(math.Round(float64(base.R) * factor))
	g := uint8(math.Round(float64(base.G) * factor))
	b := uint8(math.Round(float64(base.B) * factor))
	return color.NRGBA{R: r, G: g, B: b, A: base.A}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func ensurePreviewDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is empty")
	}
	return os.MkdirAll(dir, 0o755)
}

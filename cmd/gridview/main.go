// Command gridview is the graphical journey viewer: one window, the active
// map drawn as a cell grid, one simulation tick every few frames. Useful for
// eyeballing journey balance; the terminal viewer (fellrun) is the primary
// front end.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"fellrun/internal/sim"
)

const (
	cellSize      = 28
	borderWidth   = 16
	framesPerTick = 12 // 60fps → 5 ticks/sec
)

var (
	colourGround  = color.RGBA{R: 30, G: 48, B: 30, A: 255}
	colourTerrain = color.RGBA{R: 70, G: 66, B: 58, A: 255}
	colourEntry   = color.RGBA{R: 40, G: 110, B: 50, A: 255}
	colourExit    = color.RGBA{R: 180, G: 160, B: 40, A: 255}
	colourEvader  = color.RGBA{R: 70, G: 160, B: 220, A: 255}
	colourPursuer = color.RGBA{R: 200, G: 40, B: 40, A: 255}
)

type viewer struct {
	engine     *sim.Engine
	frameCount int
	paused     bool
	prevSpace  bool
}

func (v *viewer) Update() error {
	space := ebiten.IsKeyPressed(ebiten.KeySpace)
	if space && !v.prevSpace {
		v.paused = !v.paused
	}
	v.prevSpace = space

	if v.paused || v.engine.Done() {
		return nil
	}
	v.frameCount++
	if v.frameCount < framesPerTick {
		return nil
	}
	v.frameCount = 0
	return v.engine.Step()
}

func (v *viewer) Draw(screen *ebiten.Image) {
	w := v.engine.World()

	cell := func(p sim.Position, c color.RGBA) {
		vector.DrawFilledRect(screen,
			float32(borderWidth+p.X*cellSize), float32(borderWidth+p.Y*cellSize),
			cellSize-1, cellSize-1, c, false)
	}
	dot := func(p sim.Position, c color.RGBA) {
		vector.DrawFilledCircle(screen,
			float32(borderWidth+p.X*cellSize+cellSize/2),
			float32(borderWidth+p.Y*cellSize+cellSize/2),
			cellSize*0.35, c, true)
	}

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			cell(sim.Position{X: x, Y: y}, colourGround)
		}
	}
	for p := range w.Terrain {
		cell(p, colourTerrain)
	}
	cell(w.Entry, colourEntry)
	cell(w.Exit, colourExit)
	for _, e := range w.Evaders() {
		dot(e.Pos, colourEvader)
	}
	for _, p := range w.Pursuers() {
		dot(p, colourPursuer)
	}

	hud := fmt.Sprintf("map %d  tick %d (cum %d)  active %d  captured %d",
		w.MapIndex+1, w.Tick, w.CumTick, len(w.Evaders()), w.Captured)
	if v.engine.Done() {
		hud += "  — " + v.engine.Outcome().String()
	}
	ebitenutil.DebugPrint(screen, hud)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := v.engine.World()
	return borderWidth*2 + w.Width*cellSize, borderWidth*2 + w.Height*cellSize
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "journey YAML (built-in journey when empty)")
	flag.Parse()

	cfg := sim.DefaultRunConfig()
	if configPath != "" {
		var err error
		cfg, err = sim.LoadRunConfig(configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	engine, err := sim.NewEngine(cfg, nil)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Fellrun")
	w := engine.World()
	ebiten.SetWindowSize(borderWidth*2+w.Width*cellSize, borderWidth*2+w.Height*cellSize)
	if err := ebiten.RunGame(&viewer{engine: engine}); err != nil {
		log.Fatal(err)
	}
}

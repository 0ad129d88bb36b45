package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RimDiversion/planet-simulation/pkg/physics"
	"github.com/RimDiversion/planet-simulation/pkg/simulation"
)

const (
	screenWidth  = 1000
	screenHeight = 1000

	// UI
	uiBtnW   = 100
	uiBtnH   = 28
	uiBtnPad = 12

	au = 149.6e9
)

var (
	colorBackground = color.RGBA{0, 0, 0, 255}
	colorLabel      = color.RGBA{255, 255, 255, 255}
)

// Game ---
type Game struct {
	sim    *simulation.Simulator
	paused bool

	shortcutsVisible bool

	// scenario file, reloaded on reset
	configPath string
	logger     kitlog.Logger
}

// Update ---
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.shortcutsVisible = !g.shortcutsVisible
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.resetSimulation(); err != nil {
			level.Error(g.logger).Log("msg", "reset failed", "err", err)
		}
		return nil
	}
	step := false
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && g.paused {
		step = true
	}

	// UI clicks
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mouse := image.Pt(ebiten.CursorPosition())
		switch {
		case mouse.In(pauseBtn):
			g.paused = !g.paused
		case mouse.In(stepBtn):
			step = g.paused
		case mouse.In(resetBtn):
			if err := g.resetSimulation(); err != nil {
				level.Error(g.logger).Log("msg", "reset failed", "err", err)
			}
			return nil
		case mouse.In(quitBtn):
			return ebiten.Termination
		}
	}

	if g.paused && !step {
		return nil
	}
	// one tick per frame; a failed tick ends the game loop
	return g.sim.Update()
}

// toScreen maps simulation metres to window pixels with the sun at the centre.
func (g *Game) toScreen(p r2.Vec) (float32, float32) {
	return float32(p.X*g.sim.Scale + screenWidth/2), float32(p.Y*g.sim.Scale + screenHeight/2)
}

// Draw ---
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, b := range g.sim.Bodies() {
		g.drawTrajectory(screen, b)
	}
	for _, b := range g.sim.Bodies() {
		x, y := g.toScreen(b.Pos)
		vector.DrawFilledCircle(screen, x, y, float32(b.Radius()), b.Color, true)
		w := len(b.Name) * 7
		text.Draw(screen, b.Name, basicfont.Face7x13, int(x)-w/2, int(y-float32(b.Radius())*2), colorLabel)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("Env: %s\nPaused: %v\nTick: %d\nDate: %s\nJD: %.2f",
		g.sim.Name, g.paused, g.sim.Ticks(), g.sim.Now().Format("2006-01-02"), g.sim.JulianDate()))
	drawShortcuts(screen, g)

	mouse := image.Pt(ebiten.CursorPosition())
	if g.paused {
		drawButton(screen, pauseBtn, "Resume", buttonActive, mouse)
		drawButton(screen, stepBtn, "Step", buttonIdle, mouse)
	} else {
		drawButton(screen, pauseBtn, "Pause", buttonIdle, mouse)
		drawButton(screen, stepBtn, "Step", buttonDisabled, mouse)
	}
	drawButton(screen, resetBtn, "Reset", buttonIdle, mouse)
	drawButton(screen, quitBtn, "Quit", buttonIdle, mouse)

	if g.paused {
		g.drawTooltip(screen, mouse)
	}
}

// drawTrajectory draws the orbit as a polyline, skipping points that land on
// the same pixel as the previous one.
func (g *Game) drawTrajectory(screen *ebiten.Image, b *physics.Body) {
	if b.Trajectory.Len() <= 2 {
		return
	}
	var px, py float32
	b.Trajectory.Each(func(i int, p r2.Vec) {
		x, y := g.toScreen(p)
		if i == 0 {
			px, py = x, y
			return
		}
		if dx, dy := x-px, y-py; dx*dx+dy*dy < 1 {
			return
		}
		vector.StrokeLine(screen, px, py, x, y, 2, b.Color, true)
		px, py = x, y
	})
}

// drawTooltip shows the state of the body under the cursor.
func (g *Game) drawTooltip(screen *ebiten.Image, mouse image.Point) {
	var hovered *physics.Body
	minD := 1e18
	for _, b := range g.sim.Bodies() {
		x, y := g.toScreen(b.Pos)
		dx, dy := float64(x)-float64(mouse.X), float64(y)-float64(mouse.Y)
		d := dx*dx + dy*dy
		r := b.Radius() + 3
		if d <= r*r && d < minD {
			hovered = b
			minD = d
		}
	}
	if hovered == nil {
		return
	}
	lines := []string{
		hovered.Name,
		fmt.Sprintf("Mass: %.3e kg", hovered.Mass()),
		fmt.Sprintf("Pos: (%.3e, %.3e) m", hovered.Pos.X, hovered.Pos.Y),
		fmt.Sprintf("Vel: (%.1f, %.1f) m/s", hovered.Vel.X, hovered.Vel.Y),
		fmt.Sprintf("Speed: %.1f m/s", hovered.Speed()),
	}
	if !hovered.Primary {
		lines = append(lines, fmt.Sprintf("Distance: %.4f AU", hovered.DistanceToPrimary/au))
	}
	drawPanel(screen, lines, mouse.Add(image.Pt(12, 12)), 13)
}

func drawShortcuts(screen *ebiten.Image, g *Game) {
	if !g.shortcutsVisible {
		return
	}
	lines := []string{
		"P - Pause/Resume",
		"N - Step (when paused)",
		"R - Reset",
		"H - hide shortcuts",
		"Esc - quit",
	}
	drawPanel(screen, lines, image.Pt(12, 100), 14)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

// resetSimulation reloads the scenario file and starts over.
func (g *Game) resetSimulation() error {
	if g.configPath == "" {
		return errors.New("no scenario path set")
	}
	sim, err := simulation.LoadSimulator(g.configPath, g.logger)
	if err != nil {
		return err
	}
	g.sim = sim
	g.paused = false
	return nil
}

func newLogger(verbose bool) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func main() {
	envName := flag.String("env", "solar", "scenario in pkg/assets (solar, inner, outer)")
	configPath := flag.String("config", "", "scenario file; overrides -env")
	verbose := flag.Bool("v", false, "log every tick")
	flag.Parse()

	logger := newLogger(*verbose)
	path := *configPath
	if path == "" {
		path = filepath.Join("pkg/assets", fmt.Sprintf("%s.json", *envName))
	}

	sim, err := simulation.LoadSimulator(path, logger)
	if err != nil {
		level.Error(logger).Log("msg", "cannot load scenario", "path", path, "err", err)
		os.Exit(1)
	}
	game := &Game{
		sim:              sim,
		shortcutsVisible: true,
		configPath:       path,
		logger:           logger,
	}
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Planet Simulation - " + sim.Name)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(game); err != nil {
		level.Error(logger).Log("msg", "simulation stopped", "err", err)
		os.Exit(1)
	}
}

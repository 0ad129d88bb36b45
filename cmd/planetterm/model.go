package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RimDiversion/planet-simulation/pkg/physics"
	"github.com/RimDiversion/planet-simulation/pkg/simulation"
)

const (
	au         = 149.6e9
	historyMax = 120
	trailDots  = 60
)

var (
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statsStyle  = lipgloss.NewStyle().Padding(0, 2).Width(52)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).MarginTop(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type tickMsg time.Time

type model struct {
	sim      *simulation.Simulator
	interval time.Duration
	paused   bool
	err      error

	width, height int
	extent        float64 // metres from the centre to the grid edge
	energy0       float64
	angular0      float64
	drift         []float64 // relative energy drift, parts per million
}

func newModel(sim *simulation.Simulator, fps int) model {
	if fps <= 0 {
		fps = 30
	}
	extent := 0.0
	for _, b := range sim.Bodies() {
		extent = math.Max(extent, r2.Norm(b.Pos))
	}
	if extent == 0 {
		extent = au
	}
	return model{
		sim:      sim,
		interval: time.Second / time.Duration(fps),
		width:    80,
		height:   24,
		extent:   extent * 1.1,
		energy0:  sim.Energy(),
		angular0: physics.AngularMomentum(sim.Registry),
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ", "space", "p":
			m.paused = !m.paused
		case "n":
			if m.paused {
				return m.advance(nil)
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		if m.paused {
			return m, m.tick()
		}
		return m.advance(m.tick())
	}
	return m, nil
}

// advance runs one simulation tick and records the energy drift.
func (m model) advance(next tea.Cmd) (tea.Model, tea.Cmd) {
	if err := m.sim.Update(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.drift = append(m.drift, physics.RelativeDrift(m.energy0, m.sim.Energy())*1e6)
	if len(m.drift) > historyMax {
		m.drift = m.drift[len(m.drift)-historyMax:]
	}
	return m, next
}

func (m model) View() string {
	if m.err != nil {
		return errStyle.Render("halted: "+m.err.Error()) + "\n"
	}
	stats := m.statsView()
	cols := m.width - lipgloss.Width(stats) - 2
	rows := m.height - 3
	canvas := canvasStyle.Render(m.canvasView(cols, rows))
	help := helpStyle.Render("q quit • space pause • n step")
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, canvas, stats), help)
}

// canvasView plots trails and bodies on a character grid. Terminal cells are
// about twice as tall as wide, so x is stretched accordingly.
func (m model) canvasView(cols, rows int) string {
	if cols < 10 {
		cols = 10
	}
	if rows < 5 {
		rows = 5
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	half := math.Min(float64(cols)/2, float64(rows))
	cell := func(p r2.Vec) (int, int, bool) {
		c := int(math.Round(float64(cols)/2 + p.X/m.extent*half))
		r := int(math.Round(float64(rows)/2 + p.Y/m.extent*half/2))
		return c, r, c >= 0 && c < cols && r >= 0 && r < rows
	}

	for _, b := range m.sim.Bodies() {
		pts := b.Trajectory.Points()
		if len(pts) > trailDots {
			pts = pts[len(pts)-trailDots:]
		}
		for _, p := range pts {
			if c, r, ok := cell(p); ok {
				grid[r][c] = '·'
			}
		}
	}
	for _, b := range m.sim.Bodies() {
		if c, r, ok := cell(b.Pos); ok {
			grid[r][c] = glyph(b)
		}
	}

	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func glyph(b *physics.Body) rune {
	if b.Primary {
		return '☉'
	}
	for _, r := range b.Name {
		return r
	}
	return '•'
}

func (m model) statsView() string {
	var s strings.Builder
	state := "running"
	if m.paused {
		state = "paused"
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", m.sim.Name, state)))
	s.WriteString("\n")
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("start", m.sim.Epoch().Format("2006-01-02"))
	row("date", m.sim.Now().Format("2006-01-02"))
	row("JD", fmt.Sprintf("%.2f", m.sim.JulianDate()))
	row("tick", fmt.Sprintf("%d", m.sim.Ticks()))
	row("L drift", fmt.Sprintf("%.2e", physics.RelativeDrift(m.angular0, physics.AngularMomentum(m.sim.Registry))))
	for _, b := range m.sim.Bodies() {
		if b.Primary {
			continue
		}
		row(b.Name, fmt.Sprintf("%.4f AU  %6.2f km/s", b.DistanceToPrimary/au, b.Speed()/1000))
	}
	if len(m.drift) > 1 {
		chart := asciigraph.Plot(m.drift, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("energy drift (ppm)"))
		s.WriteString(graphStyle.Render(chart))
	}
	return statsStyle.Render(s.String())
}

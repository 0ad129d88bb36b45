package simulation

import (
	"context"
	"fmt"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RimDiversion/planet-simulation/pkg/physics"
)

func vec(x, y float64) r2.Vec {
	return r2.Vec{X: x, Y: y}
}

// --- Simulator ---

// Simulator owns the bodies of one scenario and advances them one fixed
// step per Update call.
type Simulator struct {
	Name     string
	Dt       float64
	G        float64
	Scale    float64
	Registry *physics.Registry

	integrator *physics.Integrator
	epoch      time.Time
	ticks      int
	err        error
	logger     kitlog.Logger
}

// NewSimulator builds every body up front; an invalid body stops here,
// before any tick runs.
func NewSimulator(cfg EnvironmentConfig, logger kitlog.Logger) (*Simulator, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	epoch, _ := cfg.StartTime()

	reg := physics.NewRegistry()
	primaries := 0
	for _, b := range cfg.Bodies {
		x, y := b.Position()
		vx, vy := b.Velocity()
		body, err := physics.NewBody(b.Name, vec(x, y), vec(vx, vy), b.Mass, b.Radius, parseColor(b.Color), b.Primary, cfg.TrailMax)
		if err != nil {
			return nil, err
		}
		if b.Primary {
			primaries++
		}
		reg.Add(body)
	}

	s := &Simulator{
		Name:       cfg.Name,
		Dt:         cfg.Dt,
		G:          cfg.G,
		Scale:      cfg.View.Scale,
		Registry:   reg,
		integrator: physics.NewIntegrator(cfg.G, cfg.Dt),
		epoch:      epoch,
		logger:     kitlog.With(logger, "subsys", "sim", "env", cfg.Name),
	}
	switch {
	case primaries == 0:
		level.Warn(s.logger).Log("msg", "no primary body, distances will not be reported")
	case primaries > 1:
		level.Warn(s.logger).Log("msg", "several primary bodies, the last one wins", "count", primaries)
	}
	level.Info(s.logger).Log("msg", "scenario loaded", "bodies", reg.Len(), "dt", s.Dt, "epoch", epoch.Format(time.RFC3339))
	return s, nil
}

// LoadSimulator reads the scenario at path and builds a simulator from it.
func LoadSimulator(path string, logger kitlog.Logger) (*Simulator, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewSimulator(*cfg, logger)
}

// --- Tick ---

// Update advances every body by one tick. Once a tick has failed the
// simulator is halted and keeps returning that error.
func (s *Simulator) Update() error {
	if s.err != nil {
		return s.err
	}
	if err := s.integrator.Advance(s.Registry); err != nil {
		s.err = fmt.Errorf("tick %d: %w", s.ticks+1, err)
		level.Error(s.logger).Log("msg", "simulation halted", "err", s.err)
		return s.err
	}
	s.ticks++
	level.Debug(s.logger).Log("tick", s.ticks, "date", s.Now().Format("2006-01-02"))
	return nil
}

// Run ticks n times, or until ctx is done when n is 0.
func (s *Simulator) Run(ctx context.Context, n int) error {
	for i := 0; n == 0 || i < n; i++ {
		select {
		case <-ctx.Done():
			level.Info(s.logger).Log("msg", "stopped", "ticks", s.ticks)
			return ctx.Err()
		default:
		}
		if err := s.Update(); err != nil {
			return err
		}
	}
	level.Info(s.logger).Log("msg", "run finished", "ticks", s.ticks, "date", s.Now().Format("2006-01-02"))
	return nil
}

func (s *Simulator) Bodies() []*physics.Body {
	return s.Registry.Bodies()
}

func (s *Simulator) Ticks() int {
	return s.ticks
}

// Err returns the error that halted the simulator, if any.
func (s *Simulator) Err() error {
	return s.err
}

// Elapsed simulated time in seconds. A time.Duration would overflow after
// about 292 simulated years.
func (s *Simulator) Elapsed() float64 {
	return float64(s.ticks) * s.Dt
}

func (s *Simulator) Epoch() time.Time {
	return s.epoch
}

// JulianDate of the current simulated instant.
func (s *Simulator) JulianDate() float64 {
	return julian.TimeToJD(s.epoch) + s.Elapsed()/86400
}

// Now is the simulated date.
func (s *Simulator) Now() time.Time {
	return julian.JDToTime(s.JulianDate())
}

// Energy returns the total mechanical energy of the system.
func (s *Simulator) Energy() float64 {
	return physics.TotalEnergy(s.Registry, s.G)
}

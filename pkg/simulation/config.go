package simulation

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RimDiversion/planet-simulation/pkg/physics"
)

// J2000 is used when a scenario does not set an epoch.
var J2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

var defaultColor = color.RGBA{200, 200, 255, 255}

// --- Environment configuration ---
type EnvironmentConfig struct {
	Name      string       `mapstructure:"name"`
	Dt        float64      `mapstructure:"dt"`
	G         float64      `mapstructure:"g"`
	TrailMax  int          `mapstructure:"trail_max"`
	AutoOrbit bool         `mapstructure:"auto_orbit"`
	Epoch     string       `mapstructure:"epoch"`
	View      ViewConfig   `mapstructure:"view"`
	Bodies    []BodyConfig `mapstructure:"bodies"`
}

// ViewConfig only matters to the presentation layers.
type ViewConfig struct {
	Scale float64 `mapstructure:"scale"` // pixels per metre
}

type BodyConfig struct {
	Name    string    `mapstructure:"name"`
	Mass    float64   `mapstructure:"mass"`
	Pos     []float64 `mapstructure:"pos"`
	Vel     []float64 `mapstructure:"vel"`
	Radius  float64   `mapstructure:"radius"`
	Color   string    `mapstructure:"color"`
	Primary bool      `mapstructure:"primary"`
}

func (b BodyConfig) vec(v []float64) (x, y float64) {
	if len(v) > 0 {
		x = v[0]
	}
	if len(v) > 1 {
		y = v[1]
	}
	return
}

// Position returns the initial position in metres.
func (b BodyConfig) Position() (x, y float64) {
	return b.vec(b.Pos)
}

// Velocity returns the initial velocity in m/s.
func (b BodyConfig) Velocity() (x, y float64) {
	return b.vec(b.Vel)
}

// LoadConfig reads a scenario file. The format follows the file extension
// (json, toml, yaml).
func LoadConfig(path string) (*EnvironmentConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("dt", float64(physics.DefaultDt))
	v.SetDefault("g", physics.G)
	v.SetDefault("trail_max", 0)
	v.SetDefault("view.scale", 15/149.6e9)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var env EnvironmentConfig
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if env.Name == "" {
		env.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if env.AutoOrbit {
		SetOrbitalVelocities(env.Bodies, env.G)
	}
	return &env, nil
}

// Validate rejects scenarios that must never reach the tick loop.
func (e *EnvironmentConfig) Validate() error {
	if len(e.Bodies) == 0 {
		return errors.New("no bodies")
	}
	if !(e.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %g", e.Dt)
	}
	if !(e.G > 0) {
		return fmt.Errorf("g must be positive, got %g", e.G)
	}
	if e.TrailMax < 0 {
		return fmt.Errorf("trail_max must not be negative, got %d", e.TrailMax)
	}
	if _, err := e.StartTime(); err != nil {
		return err
	}
	seen := make(map[[2]float64]string, len(e.Bodies))
	for i, b := range e.Bodies {
		if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
			return fmt.Errorf("body %d (%s): %w (got %g)", i, b.Name, physics.ErrNonPositiveMass, b.Mass)
		}
		if len(b.Pos) > 2 || len(b.Vel) > 2 {
			return fmt.Errorf("body %d (%s): pos and vel take two components", i, b.Name)
		}
		x, y := b.Position()
		vx, vy := b.Velocity()
		if !physics.Finite(r2.Vec{X: x, Y: y}) || !physics.Finite(r2.Vec{X: vx, Y: vy}) {
			return fmt.Errorf("body %d (%s): %w: pos=(%g, %g) vel=(%g, %g)", i, b.Name, physics.ErrNonFinite, x, y, vx, vy)
		}
		if other, ok := seen[[2]float64{x, y}]; ok {
			return fmt.Errorf("body %d (%s): %w with %s", i, b.Name, physics.ErrCoincident, other)
		}
		seen[[2]float64{x, y}] = b.Name
	}
	return nil
}

// StartTime parses the epoch, RFC 3339 or a plain date.
func (e *EnvironmentConfig) StartTime() (time.Time, error) {
	if e.Epoch == "" {
		return J2000, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, e.Epoch); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse epoch %q", e.Epoch)
}

// SetOrbitalVelocities gives every resting body the circular-orbit velocity
// around the central body: the first primary, or the first body when none
// is flagged.
func SetOrbitalVelocities(bodies []BodyConfig, g float64) {
	if len(bodies) == 0 {
		return
	}
	c := 0
	for i, b := range bodies {
		if b.Primary {
			c = i
			break
		}
	}
	central := bodies[c]
	cx, cy := central.Position()
	cvx, cvy := central.Velocity()
	for i := range bodies {
		if i == c {
			continue
		}
		vx, vy := bodies[i].Velocity()
		if vx != 0 || vy != 0 {
			continue
		}
		x, y := bodies[i].Position()
		dx, dy := x-cx, y-cy
		r := math.Hypot(dx, dy)
		if r == 0 {
			continue
		}
		v := math.Sqrt(g * central.Mass / r)
		// perpendicular to the radius vector, counter-clockwise
		bodies[i].Vel = []float64{cvx - dy/r*v, cvy + dx/r*v}
	}
}

// --- Hex color parser ---
func parseColor(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return defaultColor
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

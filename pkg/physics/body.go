package physics

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrNonPositiveMass is returned when a body is built with a mass that is
// zero, negative or not finite.
var ErrNonPositiveMass = errors.New("mass must be positive")

// ErrNonFinite is returned when a position or velocity component is NaN or
// infinite.
var ErrNonFinite = errors.New("non-finite state")

// --- Physical body ---

// Body is one gravitating object: a star or a planet. Mass and radius are
// fixed at construction; position, velocity and the derived fields change
// every tick.
type Body struct {
	Name  string
	Pos   r2.Vec // m
	Vel   r2.Vec // m/s
	Color color.RGBA

	// Primary marks the anchor used for distance reporting.
	Primary bool
	// DistanceToPrimary is overwritten every tick; it stays stale when no
	// other body is primary.
	DistanceToPrimary float64

	Trajectory *Trajectory

	mass   float64
	radius float64
}

// NewBody validates the mass and returns a body with an empty trajectory of
// the given capacity (0 keeps every point).
func NewBody(name string, pos, vel r2.Vec, mass, radius float64, clr color.RGBA, primary bool, trailCap int) (*Body, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("body %q: %w (got %g)", name, ErrNonPositiveMass, mass)
	}
	if !Finite(pos) || !Finite(vel) {
		return nil, fmt.Errorf("body %q: %w: pos=%v vel=%v", name, ErrNonFinite, pos, vel)
	}
	return &Body{
		Name:       name,
		Pos:        pos,
		Vel:        vel,
		Color:      clr,
		Primary:    primary,
		Trajectory: NewTrajectory(trailCap),
		mass:       mass,
		radius:     radius,
	}, nil
}

// Mass in kilograms.
func (b *Body) Mass() float64 {
	return b.mass
}

// Radius is the display radius; the core never reads it.
func (b *Body) Radius() float64 {
	return b.radius
}

func (b *Body) Speed() float64 {
	return r2.Norm(b.Vel)
}

func (b *Body) String() string {
	return fmt.Sprintf("%s m=%.4e pos=(%.4e, %.4e) vel=(%.4e, %.4e)", b.Name, b.mass, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y)
}

// Finite reports whether both components of v are neither NaN nor infinite.
func Finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

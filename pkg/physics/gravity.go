package physics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// G is the gravitational constant in m^3 kg^-1 s^-2.
const G = 6.67428e-11

// ErrCoincident is returned when two bodies share a position; the force
// between them is undefined.
var ErrCoincident = errors.New("coincident bodies")

// PairwiseForce returns the attraction exerted on a by b, pointing from a
// toward b.
func PairwiseForce(a, b *Body, g float64) (r2.Vec, error) {
	dx := b.Pos.X - a.Pos.X
	dy := b.Pos.Y - a.Pos.Y
	distance := math.Sqrt(dx*dx + dy*dy)
	if distance == 0 {
		return r2.Vec{}, fmt.Errorf("%w: %s and %s at (%g, %g)", ErrCoincident, a.Name, b.Name, a.Pos.X, a.Pos.Y)
	}

	magnitude := g * a.mass * b.mass / (distance * distance)
	theta := math.Atan2(dy, dx)
	sin, cos := math.Sincos(theta)
	return r2.Vec{X: magnitude * cos, Y: magnitude * sin}, nil
}

// Distance between the centres of a and b.
func Distance(a, b *Body) float64 {
	return r2.Norm(r2.Sub(b.Pos, a.Pos))
}

// UpdatePrimaryDistances sets DistanceToPrimary on every body from the
// current positions. A body keeps its previous value when no other body is
// primary; with several primaries the last one in registry order wins.
func UpdatePrimaryDistances(r *Registry) {
	for i, a := range r.bodies {
		for j, b := range r.bodies {
			if i == j || !b.Primary {
				continue
			}
			a.DistanceToPrimary = Distance(a, b)
		}
	}
}

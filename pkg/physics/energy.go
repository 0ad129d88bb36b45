package physics

import "math"

func KineticEnergy(r *Registry) float64 {
	ke := 0.0
	for _, b := range r.bodies {
		ke += 0.5 * b.mass * (b.Vel.X*b.Vel.X + b.Vel.Y*b.Vel.Y)
	}
	return ke
}

// PotentialEnergy sums -g*mi*mj/r over unordered pairs. Coincident pairs are
// skipped.
func PotentialEnergy(r *Registry, g float64) float64 {
	pe := 0.0
	for i := 0; i < len(r.bodies); i++ {
		for j := i + 1; j < len(r.bodies); j++ {
			d := Distance(r.bodies[i], r.bodies[j])
			if d == 0 {
				continue
			}
			pe -= g * r.bodies[i].mass * r.bodies[j].mass / d
		}
	}
	return pe
}

func TotalEnergy(r *Registry, g float64) float64 {
	return KineticEnergy(r) + PotentialEnergy(r, g)
}

// Momentum returns the total linear momentum.
func Momentum(r *Registry) (px, py float64) {
	for _, b := range r.bodies {
		px += b.mass * b.Vel.X
		py += b.mass * b.Vel.Y
	}
	return
}

// AngularMomentum about the origin (z component).
func AngularMomentum(r *Registry) float64 {
	l := 0.0
	for _, b := range r.bodies {
		l += b.mass * (b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X)
	}
	return l
}

// RelativeDrift is |now-ref|/|ref|, or |now| when ref is zero.
func RelativeDrift(ref, now float64) float64 {
	if ref == 0 {
		return math.Abs(now)
	}
	return math.Abs((now - ref) / ref)
}

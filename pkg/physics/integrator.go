package physics

import "gonum.org/v1/gonum/spatial/r2"

// DefaultDt is twelve hours, in seconds.
const DefaultDt = 3600 * 12

// Integrator advances a registry with semi-implicit (symplectic) Euler.
type Integrator struct {
	G  float64
	Dt float64

	forces []r2.Vec
}

func NewIntegrator(g, dt float64) *Integrator {
	return &Integrator{G: g, Dt: dt}
}

// NetForces returns the total force on every body, indexed like the
// registry, computed from the current positions only.
func NetForces(r *Registry, g float64, dst []r2.Vec) ([]r2.Vec, error) {
	n := len(r.bodies)
	if cap(dst) < n {
		dst = make([]r2.Vec, n)
	}
	dst = dst[:n]
	for i, a := range r.bodies {
		var total r2.Vec
		for j, b := range r.bodies {
			if i == j {
				continue
			}
			f, err := PairwiseForce(a, b, g)
			if err != nil {
				return nil, err
			}
			total = r2.Add(total, f)
		}
		dst[i] = total
	}
	return dst, nil
}

// Advance runs one tick. All forces are evaluated on the start-of-tick
// snapshot before any body moves, so the result does not depend on the
// registry order. On error no body is modified.
func (in *Integrator) Advance(r *Registry) error {
	forces, err := NetForces(r, in.G, in.forces)
	if err != nil {
		return err
	}
	in.forces = forces

	UpdatePrimaryDistances(r)

	for i, b := range r.bodies {
		// velocity first, then position from the new velocity
		b.Vel.X += forces[i].X / b.mass * in.Dt
		b.Vel.Y += forces[i].Y / b.mass * in.Dt
		b.Pos.X += b.Vel.X * in.Dt
		b.Pos.Y += b.Vel.Y * in.Dt
		b.Trajectory.Append(b.Pos)
	}
	return nil
}

// IntegrateEulerSymplectic advances r by a single step of dt seconds.
func IntegrateEulerSymplectic(r *Registry, g, dt float64) error {
	return NewIntegrator(g, dt).Advance(r)
}

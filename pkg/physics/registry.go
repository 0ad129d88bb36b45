package physics

// Registry is the ordered set of bodies of one run. Order only matters for
// drawing; physics results do not depend on it.
type Registry struct {
	bodies []*Body
}

func NewRegistry(bodies ...*Body) *Registry {
	r := &Registry{bodies: make([]*Body, 0, len(bodies))}
	for _, b := range bodies {
		r.Add(b)
	}
	return r
}

// Add appends b and returns its stable index.
func (r *Registry) Add(b *Body) int {
	r.bodies = append(r.bodies, b)
	return len(r.bodies) - 1
}

func (r *Registry) Len() int {
	return len(r.bodies)
}

func (r *Registry) At(i int) *Body {
	return r.bodies[i]
}

// Bodies exposes the backing slice; callers must not reorder it.
func (r *Registry) Bodies() []*Body {
	return r.bodies
}

// Primary returns the index of the first body flagged primary.
func (r *Registry) Primary() (int, bool) {
	for i, b := range r.bodies {
		if b.Primary {
			return i, true
		}
	}
	return -1, false
}

// Find looks a body up by name.
func (r *Registry) Find(name string) (int, bool) {
	for i, b := range r.bodies {
		if b.Name == name {
			return i, true
		}
	}
	return -1, false
}

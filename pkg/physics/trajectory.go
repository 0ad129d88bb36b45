package physics

import "gonum.org/v1/gonum/spatial/r2"

// Trajectory is the position history of a body. With a positive capacity it
// behaves as a ring buffer and keeps only the newest points.
type Trajectory struct {
	points []r2.Vec
	limit  int
	start  int // index of the oldest point once the buffer is full
	total  int
}

func NewTrajectory(capacity int) *Trajectory {
	if capacity < 0 {
		capacity = 0
	}
	t := &Trajectory{limit: capacity}
	if capacity > 0 {
		t.points = make([]r2.Vec, 0, capacity)
	}
	return t
}

func (t *Trajectory) Append(p r2.Vec) {
	t.total++
	if t.limit == 0 || len(t.points) < t.limit {
		t.points = append(t.points, p)
		return
	}
	t.points[t.start] = p
	t.start = (t.start + 1) % t.limit
}

// Len is the number of retained points.
func (t *Trajectory) Len() int {
	return len(t.points)
}

// Total is the number of points ever appended, including overwritten ones.
func (t *Trajectory) Total() int {
	return t.total
}

// Points returns a copy of the retained points, oldest first.
func (t *Trajectory) Points() []r2.Vec {
	out := make([]r2.Vec, 0, len(t.points))
	out = append(out, t.points[t.start:]...)
	return append(out, t.points[:t.start]...)
}

// Each calls fn for every retained point in order without copying.
func (t *Trajectory) Each(fn func(i int, p r2.Vec)) {
	n := len(t.points)
	for i := 0; i < n; i++ {
		fn(i, t.points[(t.start+i)%n])
	}
}

func (t *Trajectory) Last() (r2.Vec, bool) {
	n := len(t.points)
	if n == 0 {
		return r2.Vec{}, false
	}
	return t.points[(t.start+n-1)%n], true
}

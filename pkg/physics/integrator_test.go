package physics

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

const au = 149.6e9

func mustBody(t *testing.T, name string, x, y, vx, vy, mass float64, primary bool) *Body {
	t.Helper()
	b, err := NewBody(name, r2.Vec{X: x, Y: y}, r2.Vec{X: vx, Y: vy}, mass, 1, color.RGBA{255, 255, 255, 255}, primary, 0)
	if err != nil {
		t.Fatalf("NewBody(%s): %s", name, err)
	}
	return b
}

func innerSystem(t *testing.T) []*Body {
	return []*Body{
		mustBody(t, "Sun", 0, 0, 0, 0, 1.98892e30, true),
		mustBody(t, "Mercury", -0.387*au, 0, 0, 47400, 0.33e24, false),
		mustBody(t, "Venus", -0.723*au, 0, 0, 35050, 4.8685e24, false),
		mustBody(t, "Earth", -1*au, 0, 0, 29783, 5.9742e24, false),
		mustBody(t, "Mars", -1.524*au, 0, 0, 24077, 6.39e23, false),
	}
}

func TestNewBodyRejectsMass(t *testing.T) {
	for _, m := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewBody("bad", r2.Vec{}, r2.Vec{}, m, 1, color.RGBA{}, false, 0)
		if !errors.Is(err, ErrNonPositiveMass) {
			t.Fatalf("mass %g: expected ErrNonPositiveMass, got %v", m, err)
		}
	}
}

func TestPairwiseForceSymmetry(t *testing.T) {
	a := mustBody(t, "a", 1.2e10, -3.4e9, 0, 0, 7.1e24, false)
	b := mustBody(t, "b", -5.5e10, 8.8e10, 0, 0, 3.3e28, false)
	fab, err := PairwiseForce(a, b, G)
	if err != nil {
		t.Fatal(err)
	}
	fba, err := PairwiseForce(b, a, G)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinRel(r2.Norm(fab), r2.Norm(fba), 1e-12) {
		t.Fatalf("magnitudes differ: %e vs %e", r2.Norm(fab), r2.Norm(fba))
	}
	if !scalar.EqualWithinAbsOrRel(fab.X, -fba.X, 1e-9, 1e-12) || !scalar.EqualWithinAbsOrRel(fab.Y, -fba.Y, 1e-9, 1e-12) {
		t.Fatalf("forces are not opposite: %+v vs %+v", fab, fba)
	}
	// attraction points from a toward b
	if r2.Dot(fab, r2.Sub(b.Pos, a.Pos)) <= 0 {
		t.Fatal("force on a does not point toward b")
	}
	expMag := G * a.Mass() * b.Mass() / math.Pow(Distance(a, b), 2)
	if !scalar.EqualWithinRel(r2.Norm(fab), expMag, 1e-12) {
		t.Fatalf("magnitude: expected %e got %e", expMag, r2.Norm(fab))
	}
}

func TestPairwiseForceHasNoSideEffect(t *testing.T) {
	a := mustBody(t, "a", 0, 0, 0, 0, 1e24, false)
	b := mustBody(t, "b", 1e10, 0, 0, 0, 1e30, true)
	if _, err := PairwiseForce(a, b, G); err != nil {
		t.Fatal(err)
	}
	if a.DistanceToPrimary != 0 {
		t.Fatalf("PairwiseForce wrote DistanceToPrimary=%e", a.DistanceToPrimary)
	}
}

func TestSingleBodyStasis(t *testing.T) {
	sun := mustBody(t, "Sun", 3, 4, 0, 0, 1.98892e30, true)
	r := NewRegistry(sun)
	in := NewIntegrator(G, DefaultDt)
	for i := 0; i < 100; i++ {
		if err := in.Advance(r); err != nil {
			t.Fatal(err)
		}
	}
	if sun.Pos != (r2.Vec{X: 3, Y: 4}) || sun.Vel != (r2.Vec{}) {
		t.Fatalf("lone body moved: %s", sun)
	}
	if sun.Trajectory.Len() != 100 {
		t.Fatalf("expected 100 trajectory points, got %d", sun.Trajectory.Len())
	}
	if sun.DistanceToPrimary != 0 {
		t.Fatalf("primary should not measure distance to itself, got %e", sun.DistanceToPrimary)
	}
}

func TestTwoBodyConcreteTick(t *testing.T) {
	const (
		m1 = 1.0e30
		m2 = 1.0e24
		x2 = 1.496e11
		vy = 29783.0
		dt = 43200.0
	)
	b1 := mustBody(t, "heavy", 0, 0, 0, 0, m1, false)
	b2 := mustBody(t, "light", x2, 0, 0, vy, m2, false)
	if err := IntegrateEulerSymplectic(NewRegistry(b1, b2), G, dt); err != nil {
		t.Fatal(err)
	}

	mag := G * m1 * m2 / (x2 * x2)
	theta := math.Atan2(0-0, 0-x2)
	ax2 := mag * math.Cos(theta) / m2
	ay2 := mag * math.Sin(theta) / m2
	exp2 := r2.Vec{X: x2 + ax2*dt*dt, Y: (vy + ay2*dt) * dt}
	if !scalar.EqualWithinRel(b2.Pos.X, exp2.X, 1e-6) || !scalar.EqualWithinRel(b2.Pos.Y, exp2.Y, 1e-6) {
		t.Fatalf("light body: expected %+v got %+v", exp2, b2.Pos)
	}
	if !scalar.EqualWithinRel(b2.Vel.X, ax2*dt, 1e-6) {
		t.Fatalf("light body vx: expected %e got %e", ax2*dt, b2.Vel.X)
	}

	ax1 := mag / m1
	if !scalar.EqualWithinRel(b1.Pos.X, ax1*dt*dt, 1e-6) || math.Abs(b1.Pos.Y) > 1e-6 {
		t.Fatalf("heavy body: expected (%e, 0) got %+v", ax1*dt*dt, b1.Pos)
	}
}

func TestAdvanceOrderIndependent(t *testing.T) {
	forward := innerSystem(t)
	backward := innerSystem(t)
	for i, j := 0, len(backward)-1; i < j; i, j = i+1, j-1 {
		backward[i], backward[j] = backward[j], backward[i]
	}
	// rotate as well so the primary is neither first nor last
	rotated := innerSystem(t)
	shuffled := append(append([]*Body{}, rotated[2:]...), rotated[:2]...)

	regs := []*Registry{NewRegistry(forward...), NewRegistry(backward...), NewRegistry(shuffled...)}
	for _, r := range regs {
		in := NewIntegrator(G, DefaultDt)
		for i := 0; i < 50; i++ {
			if err := in.Advance(r); err != nil {
				t.Fatal(err)
			}
		}
	}

	for _, want := range regs[0].Bodies() {
		for k, r := range regs[1:] {
			idx, ok := r.Find(want.Name)
			if !ok {
				t.Fatalf("%s missing from registry %d", want.Name, k+1)
			}
			got := r.At(idx)
			for _, pair := range [][2]float64{
				{want.Pos.X, got.Pos.X}, {want.Pos.Y, got.Pos.Y},
				{want.Vel.X, got.Vel.X}, {want.Vel.Y, got.Vel.Y},
			} {
				if !scalar.EqualWithinAbsOrRel(pair[0], pair[1], 1e-6, 1e-9) {
					t.Fatalf("%s differs with order %d: %s vs %s", want.Name, k+1, want, got)
				}
			}
		}
	}
}

func TestCircularOrbitStaysBounded(t *testing.T) {
	const mSun = 1.98892e30
	v := math.Sqrt(G * mSun / au)
	sun := mustBody(t, "Sun", 0, 0, 0, 0, mSun, true)
	earth := mustBody(t, "Earth", au, 0, 0, v, 5.9742e24, false)
	r := NewRegistry(sun, earth)
	in := NewIntegrator(G, DefaultDt)

	period := 2 * math.Pi * math.Sqrt(au*au*au/(G*mSun))
	ticks := int(math.Ceil(period / DefaultDt))
	e0 := TotalEnergy(r, G)
	for i := 0; i < ticks; i++ {
		if err := in.Advance(r); err != nil {
			t.Fatal(err)
		}
		d := Distance(sun, earth)
		if math.Abs(d-au)/au > 0.05 {
			t.Fatalf("tick %d: distance %e drifted more than 5%% from %e", i, d, au)
		}
	}
	if drift := RelativeDrift(e0, TotalEnergy(r, G)); drift > 0.05 {
		t.Fatalf("energy drift %e over one period", drift)
	}
	// the orbit should close near its start
	if math.Abs(earth.Pos.Y)/au > 0.05 || earth.Pos.X < 0 {
		t.Fatalf("orbit did not close: %+v", earth.Pos)
	}
}

func TestTrajectoryGrowth(t *testing.T) {
	bodies := innerSystem(t)
	bodies[1].Trajectory.Append(bodies[1].Pos)
	r := NewRegistry(bodies...)
	before := make([]int, r.Len())
	for i, b := range r.Bodies() {
		before[i] = b.Trajectory.Len()
	}
	const n = 37
	in := NewIntegrator(G, DefaultDt)
	for i := 0; i < n; i++ {
		if err := in.Advance(r); err != nil {
			t.Fatal(err)
		}
	}
	for i, b := range r.Bodies() {
		if b.Trajectory.Len() != before[i]+n {
			t.Fatalf("%s: expected %d points, got %d", b.Name, before[i]+n, b.Trajectory.Len())
		}
		last, _ := b.Trajectory.Last()
		if last != b.Pos {
			t.Fatalf("%s: last trajectory point %+v != position %+v", b.Name, last, b.Pos)
		}
	}
}

func TestDistanceToPrimaryBookkeeping(t *testing.T) {
	bodies := innerSystem(t)
	r := NewRegistry(bodies...)
	sun := bodies[0]
	start := make([]r2.Vec, r.Len())
	for i, b := range r.Bodies() {
		start[i] = b.Pos
	}
	if err := NewIntegrator(G, DefaultDt).Advance(r); err != nil {
		t.Fatal(err)
	}
	for i, b := range r.Bodies() {
		if b == sun {
			if b.DistanceToPrimary != 0 {
				t.Fatalf("primary distance should stay 0, got %e", b.DistanceToPrimary)
			}
			continue
		}
		exp := r2.Norm(r2.Sub(start[0], start[i]))
		if !scalar.EqualWithinRel(b.DistanceToPrimary, exp, 1e-12) {
			t.Fatalf("%s: expected %e got %e", b.Name, exp, b.DistanceToPrimary)
		}
	}
}

func TestDistanceToPrimaryStaleWithoutPrimary(t *testing.T) {
	a := mustBody(t, "a", 0, 0, 0, 0, 1e30, false)
	b := mustBody(t, "b", au, 0, 0, 30000, 1e24, false)
	b.DistanceToPrimary = 42
	if err := IntegrateEulerSymplectic(NewRegistry(a, b), G, DefaultDt); err != nil {
		t.Fatal(err)
	}
	if b.DistanceToPrimary != 42 || a.DistanceToPrimary != 0 {
		t.Fatalf("distances should be untouched: a=%e b=%e", a.DistanceToPrimary, b.DistanceToPrimary)
	}
}

func TestCoincidentBodiesHaltTick(t *testing.T) {
	a := mustBody(t, "a", 1, 1, 5, 0, 1e20, false)
	b := mustBody(t, "b", 1, 1, 0, 5, 1e20, false)
	c := mustBody(t, "c", 1e9, 0, 0, 0, 1e20, false)
	r := NewRegistry(c, a, b)
	err := NewIntegrator(G, DefaultDt).Advance(r)
	if !errors.Is(err, ErrCoincident) {
		t.Fatalf("expected ErrCoincident, got %v", err)
	}
	for _, body := range r.Bodies() {
		if body.Trajectory.Len() != 0 {
			t.Fatalf("%s was updated despite the error", body.Name)
		}
	}
	if c.Pos != (r2.Vec{X: 1e9}) || a.Vel != (r2.Vec{X: 5}) {
		t.Fatal("state mutated despite the error")
	}
}

func TestMomentumConserved(t *testing.T) {
	r := NewRegistry(innerSystem(t)...)
	px0, py0 := Momentum(r)
	in := NewIntegrator(G, DefaultDt)
	for i := 0; i < 200; i++ {
		if err := in.Advance(r); err != nil {
			t.Fatal(err)
		}
	}
	px, py := Momentum(r)
	// the sum of pairwise forces is zero, so only rounding can change it
	scale := 5.9742e24 * 29783.0
	if math.Abs(px-px0) > 1e-9*scale || math.Abs(py-py0) > 1e-9*scale {
		t.Fatalf("momentum changed: (%e, %e) -> (%e, %e)", px0, py0, px, py)
	}
}

func TestNewBodyRejectsNonFiniteState(t *testing.T) {
	for _, bad := range []r2.Vec{{X: math.NaN()}, {Y: math.Inf(1)}, {X: math.Inf(-1)}} {
		if _, err := NewBody("bad", bad, r2.Vec{}, 1, 1, color.RGBA{}, false, 0); !errors.Is(err, ErrNonFinite) {
			t.Fatalf("pos %+v: expected ErrNonFinite, got %v", bad, err)
		}
		if _, err := NewBody("bad", r2.Vec{}, bad, 1, 1, color.RGBA{}, false, 0); !errors.Is(err, ErrNonFinite) {
			t.Fatalf("vel %+v: expected ErrNonFinite, got %v", bad, err)
		}
	}
}

func TestDistanceToLastPrimary(t *testing.T) {
	first := mustBody(t, "first", 0, 0, 0, 0, 1e30, true)
	planet := mustBody(t, "planet", 3e10, 0, 0, 0, 1e24, false)
	second := mustBody(t, "second", 3e10, 4e10, 0, 0, 1e30, true)
	if err := IntegrateEulerSymplectic(NewRegistry(first, planet, second), G, DefaultDt); err != nil {
		t.Fatal(err)
	}
	// the planet sees both primaries; the later one in the registry is kept
	if !scalar.EqualWithinRel(planet.DistanceToPrimary, 4e10, 1e-12) {
		t.Fatalf("planet: expected 4e10, got %e", planet.DistanceToPrimary)
	}
	// each primary only measures the other one
	if !scalar.EqualWithinRel(first.DistanceToPrimary, 5e10, 1e-12) || !scalar.EqualWithinRel(second.DistanceToPrimary, 5e10, 1e-12) {
		t.Fatalf("primaries: %e, %e", first.DistanceToPrimary, second.DistanceToPrimary)
	}
}

func TestAngularMomentumConserved(t *testing.T) {
	r := NewRegistry(innerSystem(t)...)
	l0 := AngularMomentum(r)
	if l0 == 0 {
		t.Fatal("test system has no angular momentum")
	}
	in := NewIntegrator(G, DefaultDt)
	for i := 0; i < 500; i++ {
		if err := in.Advance(r); err != nil {
			t.Fatal(err)
		}
	}
	// central forces only: semi-implicit Euler keeps L up to rounding
	if drift := RelativeDrift(l0, AngularMomentum(r)); drift > 1e-9 {
		t.Fatalf("angular momentum drift %e", drift)
	}
}

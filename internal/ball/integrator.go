package ball

// Integrator owns the state of one ball. The zero value is not usable;
// construct it with New.
type Integrator struct {
	params Params

	pos    Vec2
	vel    Vec2
	bounds Bounds

	lastMs  int64
	hasLast bool
	ready   bool

	collision Collision
}

func New(p Params) *Integrator {
	return &Integrator{params: p}
}

// OnViewportReady sets the bounds and recentres the ball. Velocity and the
// last sample time are kept. Every call recentres, including resizes.
func (in *Integrator) OnViewportReady(width, height float64) {
	in.bounds = Bounds{Width: width, Height: height}
	in.pos = in.bounds.Center()
	in.ready = true
}

// Step consumes one acceleration sample taken at nowMs and returns the new
// ball centre.
func (in *Integrator) Step(ax, ay float64, nowMs int64) Vec2 {
	// The first sample seeds the clock before dt is taken, so it integrates
	// over a zero interval.
	if !in.hasLast {
		in.lastMs = nowMs
		in.hasLast = true
	}
	dt := float64(nowMs-in.lastMs) / 1000.0
	in.lastMs = nowMs

	dx := in.vel.X*dt + ax*dt*dt/2
	dy := in.vel.Y*dt + ay*dt*dt/2
	in.pos.X += dx * in.params.AccelerationScale
	in.pos.Y += dy * in.params.AccelerationScale
	in.vel.X += ax * dt
	in.vel.Y += ay * dt

	in.collision = in.collide()
	return in.pos
}

// collide reflects velocity off any wall the ball has crossed while still
// moving into it. Axes are independent; a corner produces two hits.
func (in *Integrator) collide() Collision {
	r := in.params.Radius
	hits := NoCollision

	if in.pos.X-r < 0 && in.vel.X < 0 {
		in.vel.X = in.reflect(in.vel.X)
		in.pos.X = r
		hits |= HitLeft
	} else if in.pos.X+r > in.bounds.Width && in.vel.X > 0 {
		in.vel.X = in.reflect(in.vel.X)
		in.pos.X = in.bounds.Width - r
		hits |= HitRight
	}

	if in.pos.Y-r < 0 && in.vel.Y < 0 {
		in.vel.Y = in.reflect(in.vel.Y)
		in.pos.Y = r
		hits |= HitTop
	} else if in.pos.Y+r > in.bounds.Height && in.vel.Y > 0 {
		in.vel.Y = in.reflect(in.vel.Y)
		in.pos.Y = in.bounds.Height - r
		hits |= HitBottom
	}

	return hits
}

func (in *Integrator) reflect(v float64) float64 {
	return -v / (1 / in.params.Restitution)
}

func (in *Integrator) Position() Vec2  { return in.pos }
func (in *Integrator) Velocity() Vec2  { return in.vel }
func (in *Integrator) Bounds() Bounds  { return in.bounds }
func (in *Integrator) Radius() float64 { return in.params.Radius }
func (in *Integrator) Params() Params  { return in.params }

// Ready reports whether OnViewportReady has been called.
func (in *Integrator) Ready() bool { return in.ready }

// LastSampleTime returns the timestamp of the previous Step, if any.
func (in *Integrator) LastSampleTime() (int64, bool) { return in.lastMs, in.hasLast }

// ResetClock forgets the previous timestamp, so the next Step seeds the
// clock again and moves nothing. Position and velocity are kept.
func (in *Integrator) ResetClock() {
	in.lastMs = 0
	in.hasLast = false
}

// LastCollision returns the walls hit by the most recent Step.
func (in *Integrator) LastCollision() Collision { return in.collision }

func (in *Integrator) Snapshot() Snapshot {
	return Snapshot{
		Position:     in.pos,
		Velocity:     in.vel,
		Bounds:       in.bounds,
		LastSampleMs: in.lastMs,
		HasSample:    in.hasLast,
		Collision:    in.collision,
	}
}

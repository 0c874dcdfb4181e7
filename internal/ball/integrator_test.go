package ball

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const tol = 1e-9

var _ = Describe("Integrator", func() {
	var in *Integrator

	BeforeEach(func() {
		in = New(DefaultParams())
	})

	Describe("lifecycle", func() {
		It("starts uninitialized", func() {
			Expect(in.Ready()).To(BeFalse())
			_, ok := in.LastSampleTime()
			Expect(ok).To(BeFalse())
		})

		It("centres the ball when the viewport is reported", func() {
			in.OnViewportReady(400, 800)
			Expect(in.Ready()).To(BeTrue())
			Expect(in.Position()).To(Equal(Vec2{200, 400}))
			Expect(in.Velocity()).To(Equal(Vec2{}))
			Expect(in.Bounds()).To(Equal(Bounds{400, 800}))
		})

		It("recentres on every report without touching velocity or the clock", func() {
			in.OnViewportReady(400, 800)
			in.Step(3, -2, 1000)
			in.Step(3, -2, 1050)
			vel := in.Velocity()
			last, _ := in.LastSampleTime()

			in.OnViewportReady(400, 800)
			Expect(in.Position()).To(Equal(Vec2{200, 400}))
			Expect(in.Velocity()).To(Equal(vel))
			now, ok := in.LastSampleTime()
			Expect(ok).To(BeTrue())
			Expect(now).To(Equal(last))

			in.OnViewportReady(600, 300)
			Expect(in.Position()).To(Equal(Vec2{300, 150}))
			Expect(in.Bounds()).To(Equal(Bounds{600, 300}))
		})
	})

	Describe("first step", func() {
		It("integrates over a zero interval", func() {
			in.OnViewportReady(400, 800)
			pos := in.Step(9.8, 9.8, 1_700_000_000_000)
			Expect(pos).To(Equal(Vec2{200, 400}))
			Expect(in.Velocity()).To(Equal(Vec2{}))
			last, ok := in.LastSampleTime()
			Expect(ok).To(BeTrue())
			Expect(last).To(Equal(int64(1_700_000_000_000)))
		})
	})

	Describe("rest", func() {
		It("never moves without force", func() {
			in.OnViewportReady(400, 800)
			t := int64(5000)
			for i := 0; i < 500; i++ {
				t += int64(i % 40)
				Expect(in.Step(0, 0, t)).To(Equal(Vec2{200, 400}))
			}
			Expect(in.Velocity()).To(Equal(Vec2{}))
		})
	})

	Describe("scaling", func() {
		It("scales displacement but not velocity", func() {
			in.OnViewportReady(400, 800)
			in.Step(2, -1, 0)
			pos := in.Step(2, -1, 100)

			// dx = 2 * 0.1² / 2 = 0.01, scaled by 1000.
			Expect(pos.X).To(BeNumerically("~", 210, tol))
			Expect(pos.Y).To(BeNumerically("~", 395, tol))
			Expect(in.Velocity().X).To(BeNumerically("~", 0.2, tol))
			Expect(in.Velocity().Y).To(BeNumerically("~", -0.1, tol))
		})

		It("uses the velocity from before the step for displacement", func() {
			in.OnViewportReady(400, 800)
			in.vel = Vec2{0.05, 0}
			in.Step(0, 0, 0)
			pos := in.Step(1, 0, 200)
			// (0.05*0.2 + 1*0.04/2) * 1000 = 10 + 20
			Expect(pos.X).To(BeNumerically("~", 230, tol))
			Expect(in.Velocity().X).To(BeNumerically("~", 0.25, tol))
		})
	})

	Describe("bounces", func() {
		BeforeEach(func() {
			in.OnViewportReady(400, 800)
			in.Step(0, 0, 0)
		})

		It("clamps and reflects at the left wall", func() {
			in.pos = Vec2{45, 400}
			in.vel = Vec2{-10, 0}

			pos := in.Step(0, 0, 1)
			Expect(pos.X).To(Equal(50.0))
			Expect(in.Velocity().X).To(BeNumerically("~", 10/1.5, tol))
			Expect(in.LastCollision()).To(Equal(HitLeft))
		})

		It("clamps and reflects at the right wall", func() {
			in.pos = Vec2{349, 400}
			in.vel = Vec2{3, 0}

			pos := in.Step(0, 0, 1)
			Expect(pos.X).To(Equal(350.0))
			Expect(in.Velocity().X).To(BeNumerically("~", -2, tol))
			Expect(in.LastCollision()).To(Equal(HitRight))
		})

		It("clamps and reflects at the top and bottom", func() {
			in.pos = Vec2{200, 55}
			in.vel = Vec2{0, -6}
			Expect(in.Step(0, 0, 1).Y).To(Equal(50.0))
			Expect(in.Velocity().Y).To(BeNumerically("~", 4, tol))
			Expect(in.LastCollision()).To(Equal(HitTop))

			in.pos = Vec2{200, 748}
			in.vel = Vec2{0, 6}
			Expect(in.Step(0, 0, 2).Y).To(Equal(750.0))
			Expect(in.Velocity().Y).To(BeNumerically("~", -4, tol))
			Expect(in.LastCollision()).To(Equal(HitBottom))
		})

		It("bounces on both axes in a corner", func() {
			in.pos = Vec2{52, 52}
			in.vel = Vec2{-3, -3}

			pos := in.Step(0, 0, 1)
			Expect(pos).To(Equal(Vec2{50, 50}))
			Expect(in.Velocity().X).To(BeNumerically("~", 2, tol))
			Expect(in.Velocity().Y).To(BeNumerically("~", 2, tol))
			Expect(in.LastCollision()).To(Equal(HitLeft | HitTop))
		})

		It("keeps exactly the restitution fraction of the post-integration velocity", func() {
			in.pos = Vec2{60, 400}
			in.vel = Vec2{-2, 0}

			in.Step(-5, 0, 20)
			before := -2 + -5*0.02
			Expect(in.Velocity().X).To(BeNumerically("~", -before*DefaultRestitution, tol))
			Expect(math.Abs(in.Velocity().X)).To(BeNumerically("<", math.Abs(before)))
		})

		It("leaves an escaped ball alone while it moves away from the wall", func() {
			in.pos = Vec2{380, 400}
			in.vel = Vec2{-0.001, 0}

			pos := in.Step(0, 0, 1)
			Expect(pos.X).To(BeNumerically("~", 379.999, tol))
			Expect(pos.X + in.Radius()).To(BeNumerically(">", in.Bounds().Width))
			Expect(in.LastCollision()).To(Equal(NoCollision))
		})

		It("does not bounce at the wall while the velocity is zero", func() {
			in.pos = Vec2{30, 400}
			in.vel = Vec2{}

			Expect(in.Step(0, 0, 10).X).To(Equal(30.0))
			Expect(in.LastCollision()).To(Equal(NoCollision))
		})
	})

	Describe("containment", func() {
		It("keeps the ball inside, up to one step of overshoot from a velocity reversal", func() {
			rng := rand.New(rand.NewSource(7))
			in.OnViewportReady(400, 800)
			r := in.Radius()

			const maxAcc = 20.0
			const maxDtMs = 40
			dt := float64(maxDtMs) / 1000
			slack := maxAcc*dt*dt/2*in.Params().AccelerationScale + 1e-6

			t := int64(0)
			for i := 0; i < 20000; i++ {
				t += int64(rng.Intn(maxDtMs + 1))
				ax := (rng.Float64()*2 - 1) * maxAcc
				ay := (rng.Float64()*2 - 1) * maxAcc
				pos := in.Step(ax, ay, t)

				Expect(pos.X).To(BeNumerically(">=", r-slack))
				Expect(pos.X).To(BeNumerically("<=", 400-r+slack))
				Expect(pos.Y).To(BeNumerically(">=", r-slack))
				Expect(pos.Y).To(BeNumerically("<=", 800-r+slack))
			}
		})

		It("keeps the ball strictly inside under a steady tilt", func() {
			in.OnViewportReady(400, 800)
			for i := 0; i <= 5000; i++ {
				pos := in.Step(4, -7, int64(i*20))
				Expect(in.Bounds().Contains(pos, in.Radius())).To(BeTrue())
			}
		})
	})

	Describe("unguarded inputs", func() {
		It("keeps a NaN velocity across a recentre", func() {
			in.OnViewportReady(400, 800)
			in.Step(0, 0, 0)
			in.Step(math.NaN(), 0, 20)
			Expect(in.Position().IsFinite()).To(BeFalse())

			in.OnViewportReady(400, 800)
			Expect(in.Position()).To(Equal(Vec2{200, 400}))
			Expect(in.Velocity().IsFinite()).To(BeFalse())

			in.Step(0, 0, 40)
			Expect(in.Position().IsFinite()).To(BeFalse())
		})

		It("treats the step after ResetClock as a first step", func() {
			in.OnViewportReady(400, 800)
			in.Step(0, 0, 0)
			in.Step(1, 0, 20)
			before := in.Position()
			vel := in.Velocity()

			in.ResetClock()
			_, ok := in.LastSampleTime()
			Expect(ok).To(BeFalse())

			Expect(in.Step(1, 0, 10_000)).To(Equal(before))
			Expect(in.Velocity()).To(Equal(vel))
			last, _ := in.LastSampleTime()
			Expect(last).To(Equal(int64(10_000)))
		})

		It("integrates backwards on a decreasing timestamp", func() {
			in.OnViewportReady(400, 800)
			in.Step(0, 0, 1000)
			in.Step(1, 0, 900)
			Expect(in.Velocity().X).To(BeNumerically("~", -0.1, tol))
		})
	})
})

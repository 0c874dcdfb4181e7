// Package ball implements the motion integrator for a single ball rolling
// inside a rectangular viewport under a time-varying 2D acceleration.
//
// The integrator is fed one sample at a time:
//
//	in := ball.New(ball.DefaultParams())
//	in.OnViewportReady(400, 800)
//	pos := in.Step(ax, ay, nowMs)
//
// Each step integrates constant-acceleration kinematics over the interval
// since the previous sample, scales the displacement (not the velocity) by
// [Params.AccelerationScale], and reflects the ball off any wall it has
// crossed while moving into it.
//
// # Caller contract
//
// The integrator performs no validation and no locking. Callers must:
//
//   - call [Integrator.OnViewportReady] before the first [Integrator.Step];
//   - deliver timestamps in non-decreasing order;
//   - pass finite accelerations;
//   - serialize all calls against one Integrator.
//
// Non-finite inputs propagate into position and velocity. Reporting the
// viewport again recentres the position but leaves the velocity as it is,
// so a non-finite velocity corrupts the position on the next step.
// Decreasing timestamps produce a negative interval and integrate
// backwards.
package ball

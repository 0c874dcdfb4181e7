// Package engine drives a sensor source into a ball integrator.
//
// A [Session] wraps one integrator behind a mutex so hosts that receive
// samples on other goroutines can share it. A [Simulator] pulls samples
// from a source, orients them, applies them to the session and fans each
// resulting [Frame] out to metrics, observers and an optional renderer.
package engine

// Package parts implements the primitive components spec.md calls
// out in its component-design section: clocks, registers, buses,
// memories and the memory-mapped I/O devices the CPU variants in
// cpu8, cpunor, cpuidx and cpupaged wire together into full netlists.
package parts

import "github.com/jimmo/cpld-cpu/circuit"

// Clock drives a phase counter of width w (typically 1 or 2 bits).
// Tick advances the phase modulo 2^w; nothing else in the netlist
// calls Tick except the top-level scheduler.
type Clock struct {
	circuit.Base
	w int
	v uint32

	Clk *circuit.Signal
}

// NewClock creates a clock with the given phase-counter width.
func NewClock(w int) *Clock {
	c := &Clock{Base: circuit.NewBase("clock"), w: w}
	c.Clk = circuit.NewSignal(c, "clk", w)
	return c
}

// Reset zeroes the phase counter.
func (c *Clock) Reset() {
	c.v = 0
	c.Clk.Drive(0)
}

// Update is a no-op: a clock has no inputs, only Tick changes it.
func (c *Clock) Update(s *circuit.Signal) {}

// Tick advances the phase counter by one and drives the result. The
// caller must run circuit.Sim.Settle afterward to let the resulting
// cascade quiesce before reading any component's state.
func (c *Clock) Tick() {
	c.v = (c.v + 1) % (1 << uint(c.w))
	c.Clk.Drive(c.v)
}

// Phase returns the current phase without driving anything.
func (c *Clock) Phase() uint32 { return c.v }

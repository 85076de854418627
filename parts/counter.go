package parts

import "github.com/jimmo/cpld-cpu/circuit"

// Counter increments modulo 2^W on every 0->1 edge of Clk and drives
// the result on Out.
type Counter struct {
	circuit.Base
	mod uint32
	v   uint32

	Clk *circuit.Signal
	Out *circuit.Signal
}

// NewCounter creates a counter of the given bit width.
func NewCounter(name string, width int) *Counter {
	c := &Counter{Base: circuit.NewBase(name), mod: uint32(1) << uint(width)}
	c.Clk = circuit.NewNotifySignal(c, "clk", 1)
	c.Out = circuit.NewSignal(c, "out", width)
	return c
}

// Reset zeroes the counter.
func (c *Counter) Reset() {
	c.v = 0
	c.Out.Drive(c.v)
}

// Update implements circuit.Component.
func (c *Counter) Update(s *circuit.Signal) {
	if c.Clk.HadEdge(1) {
		c.v = (c.v + 1) % c.mod
		c.Out.Drive(c.v)
	}
}

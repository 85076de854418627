package parts

import "github.com/jimmo/cpld-cpu/circuit"

// Multiplexer drives Out from A when Sel is 0, or from B when Sel is
// 1. It never releases Out (no tri-state).
type Multiplexer struct {
	circuit.Base
	A   *circuit.Signal
	B   *circuit.Signal
	Sel *circuit.Signal
	Out *circuit.Signal
}

// NewMultiplexer creates a 2-to-1 multiplexer of the given bit width.
func NewMultiplexer(name string, width int) *Multiplexer {
	m := &Multiplexer{Base: circuit.NewBase(name)}
	m.A = circuit.NewNotifySignal(m, "a", width)
	m.B = circuit.NewNotifySignal(m, "b", width)
	m.Sel = circuit.NewNotifySignal(m, "sel", 1)
	m.Out = circuit.NewSignal(m, "out", width)
	return m
}

// Reset drives Out from A (Sel defaults to 0).
func (m *Multiplexer) Reset() {
	m.Out.Drive(m.A.Value())
}

// Update implements circuit.Component.
func (m *Multiplexer) Update(s *circuit.Signal) {
	if m.Sel.Value() == 1 {
		m.Out.Drive(m.B.Value())
	} else {
		m.Out.Drive(m.A.Value())
	}
}

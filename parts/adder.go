package parts

import "github.com/jimmo/cpld-cpu/circuit"

// Adder combinationally drives Out = (A+B) mod 2^W and raises C on
// overflow.
type Adder struct {
	circuit.Base
	mod uint32
	A   *circuit.Signal
	B   *circuit.Signal
	Out *circuit.Signal
	C   *circuit.Signal
}

// NewAdder creates a combinational adder of the given bit width.
func NewAdder(name string, width int) *Adder {
	a := &Adder{Base: circuit.NewBase(name), mod: uint32(1) << uint(width)}
	a.A = circuit.NewNotifySignal(a, "a", width)
	a.B = circuit.NewNotifySignal(a, "b", width)
	a.Out = circuit.NewSignal(a, "out", width)
	a.C = circuit.NewSignal(a, "c", 1)
	return a
}

// Reset drives the adder's combinational outputs from zero inputs.
func (a *Adder) Reset() {
	a.recompute()
}

// Update implements circuit.Component.
func (a *Adder) Update(s *circuit.Signal) {
	a.recompute()
}

func (a *Adder) recompute() {
	sum := a.A.Value() + a.B.Value()
	a.Out.Drive(sum % a.mod)
	if sum >= a.mod {
		a.C.Drive(1)
	} else {
		a.C.Drive(0)
	}
}

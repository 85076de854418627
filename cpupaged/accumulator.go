package cpupaged

import (
	"github.com/jimmo/cpld-cpu/circuit"
	"github.com/jimmo/cpld-cpu/parts"
)

// AccumulatorRegister is a 9-bit IORegister (bit 8 is the carry out of
// the last ALU add) that also exposes a Z (zero) flag on its low 8
// bits, and a Cc (clear-carry) control line for the "branch not taken"
// decoder state.
type AccumulatorRegister struct {
	*parts.IORegister
	Z  *circuit.Signal
	Cc *circuit.Signal
}

// NewAccumulatorRegister creates the accumulator.
func NewAccumulatorRegister() *AccumulatorRegister {
	inner := parts.NewIORegister("accumulator", 9)
	a := &AccumulatorRegister{IORegister: inner}
	inner.Inp = circuit.NewSignal(a, "inp", 9)
	inner.Out = circuit.NewSignal(a, "out", 9)
	inner.We = circuit.NewNotifySignal(a, "we", 1)
	inner.Oe = circuit.NewNotifySignal(a, "oe", 1)
	inner.State = circuit.NewSignal(a, "state", 9)
	a.Z = circuit.NewSignal(a, "z", 1)
	a.Cc = circuit.NewNotifySignal(a, "cc", 1)
	return a
}

// Reset implements circuit.Component.
func (a *AccumulatorRegister) Reset() {
	a.IORegister.Reset()
	a.Z.Drive(1)
}

// Update implements circuit.Component.
func (a *AccumulatorRegister) Update(s *circuit.Signal) {
	if a.Cc.HadEdge(1) {
		a.clearCarry()
	}
	a.IORegister.Update(s)
	if a.Value()&0xff == 0 {
		a.Z.Drive(1)
	} else {
		a.Z.Drive(0)
	}
}

func (a *AccumulatorRegister) clearCarry() {
	a.SetValue(a.Value() & 0xff)
}

// Package cpupaged implements the paged-memory CPU variant: a
// register-file machine (accumulator, index register, address and
// instruction registers, a split program counter) sharing a 20-bit
// physical address space reached through a page table, a hardware
// random-number generator, and a display, all addressed through the
// same chained memory-mapped-device bus. It is grounded in the
// original simulator's cpu_ax_13/cpu.py.
package cpupaged

import "github.com/jimmo/cpld-cpu/circuit"

// ALU function codes.
const (
	FnNor = 0
	FnAdd = 1
)

// ALU computes nor or add of A (9 bits, carry in bit 8) and B (8
// bits), latching nothing itself: the caller latches Out into the
// accumulator or index register on its own We edge.
type ALU struct {
	circuit.Base
	v uint32

	A  *circuit.Signal
	B  *circuit.Signal
	Fn *circuit.Signal
	Oe *circuit.Signal
	We *circuit.Signal

	Out *circuit.Signal
}

// NewALU creates the ALU.
func NewALU() *ALU {
	a := &ALU{Base: circuit.NewBase("alu")}
	a.A = circuit.NewSignal(a, "a", 9)
	a.B = circuit.NewSignal(a, "b", 8)
	a.Fn = circuit.NewSignal(a, "fn", 1)
	a.Oe = circuit.NewNotifySignal(a, "oe", 1)
	a.We = circuit.NewNotifySignal(a, "we", 1)
	a.Out = circuit.NewSignal(a, "out", 9)
	return a
}

// Reset releases Out.
func (a *ALU) Reset() {
	a.v = 0
	a.Out.Release()
}

// Update implements circuit.Component.
func (a *ALU) Update(s *circuit.Signal) {
	if a.We.HadEdge(1) {
		if a.Fn.Value() == FnNor {
			carry := a.A.Value() & 0x100
			value := a.A.Value() & 0xff
			a.v = carry | (^(value | a.B.Value()) & 0xff)
		} else {
			a.v = (a.A.Value()&0xff + a.B.Value()) & 0x1ff
		}
	}
	if a.Oe.Value() == 1 {
		a.Out.Drive(a.v)
	} else {
		a.Out.Release()
	}
}

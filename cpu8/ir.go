package cpu8

import "github.com/jimmo/cpld-cpu/circuit"

// InstructionRegister latches the fetched opcode byte on a 0->1 edge
// of Ie, and while Oe is high drives the low nibble of the latched
// byte replicated into both nibbles of Imm (the ALU-width immediate
// data path used during the m3 phase of an imm-load instruction).
type InstructionRegister struct {
	circuit.Base
	v uint32

	Data  *circuit.Signal
	Instr *circuit.Signal
	Imm   *circuit.Signal
	Ie    *circuit.Signal
	Oe    *circuit.Signal
}

// NewInstructionRegister creates the instruction register.
func NewInstructionRegister() *InstructionRegister {
	r := &InstructionRegister{Base: circuit.NewBase("ir")}
	r.Data = circuit.NewNotifySignal(r, "data", 8)
	r.Instr = circuit.NewSignal(r, "instr", 8)
	r.Imm = circuit.NewSignal(r, "imm", 8)
	r.Ie = circuit.NewNotifySignal(r, "ie", 1)
	r.Oe = circuit.NewNotifySignal(r, "oe", 1)
	return r
}

// Reset zeroes the latch and releases Imm.
func (r *InstructionRegister) Reset() {
	r.v = 0
	r.Instr.Drive(0)
	r.Imm.Release()
}

// Update implements circuit.Component.
func (r *InstructionRegister) Update(s *circuit.Signal) {
	if r.Ie.HadEdge(1) {
		r.v = r.Data.Value()
		r.Instr.Drive(r.v)
	}
	if r.Oe.Value() == 1 {
		imm := r.v & 0xf
		r.Imm.Drive(imm | imm<<4)
	} else {
		r.Imm.Release()
	}
}

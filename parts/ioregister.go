package parts

import "github.com/jimmo/cpld-cpu/circuit"

// IORegister has distinct write (Inp) and read (Out) ports, so it can
// sit on two one-directional buses without the tri-state hazard a
// single shared bus would create. State is the always-driven direct
// read-out, as with Register.
type IORegister struct {
	circuit.Base
	mod uint32
	v   uint32

	Inp   *circuit.Signal
	Out   *circuit.Signal
	We    *circuit.Signal
	Oe    *circuit.Signal
	State *circuit.Signal
}

// NewIORegister creates an I/O register of the given bit width.
func NewIORegister(name string, width int) *IORegister {
	r := &IORegister{Base: circuit.NewBase(name), mod: uint32(1) << uint(width)}
	r.Inp = circuit.NewSignal(r, "inp", width)
	r.Out = circuit.NewSignal(r, "out", width)
	r.We = circuit.NewNotifySignal(r, "we", 1)
	r.Oe = circuit.NewNotifySignal(r, "oe", 1)
	r.State = circuit.NewSignal(r, "state", width)
	return r
}

// Reset zeroes the register and releases Out.
func (r *IORegister) Reset() {
	r.v = 0
	r.State.Drive(r.v)
	r.Out.Release()
}

// Value returns the register's current latched value.
func (r *IORegister) Value() uint32 { return r.v }

// SetValue overwrites the latched value directly, bypassing We, for
// components built on IORegister that need to alter their own state
// outside the normal write port (e.g. clearing a carry bit).
func (r *IORegister) SetValue(v uint32) { r.v = v % r.mod }

// Update implements circuit.Component.
func (r *IORegister) Update(s *circuit.Signal) {
	if r.We.HadEdge(1) {
		r.v = r.Inp.Value() % r.mod
	}
	r.State.Drive(r.v)
	if r.Oe.Value() == 1 {
		r.Out.Drive(r.v)
	} else {
		r.Out.Release()
	}
}

// IncRegister extends IORegister with a self-increment: on a 0->1 edge
// of Inc it increments modulo 2^W and raises Carry on wraparound, so a
// chain of IncRegisters can form a wider counter (e.g. a 16-bit PC
// split into two 8-bit halves).
type IncRegister struct {
	*IORegister
	Inc   *circuit.Signal
	Carry *circuit.Signal
}

// NewIncRegister creates a self-incrementing I/O register.
func NewIncRegister(name string, width int) *IncRegister {
	inner := &IORegister{Base: circuit.NewBase(name), mod: uint32(1) << uint(width)}
	r := &IncRegister{IORegister: inner}
	inner.Inp = circuit.NewSignal(r, "inp", width)
	inner.Out = circuit.NewSignal(r, "out", width)
	inner.We = circuit.NewNotifySignal(r, "we", 1)
	inner.Oe = circuit.NewNotifySignal(r, "oe", 1)
	inner.State = circuit.NewSignal(r, "state", width)
	r.Inc = circuit.NewNotifySignal(r, "inc", 1)
	r.Carry = circuit.NewSignal(r, "carry", 1)
	return r
}

// Reset zeroes the register, its carry flag, and releases Out.
func (r *IncRegister) Reset() {
	r.IORegister.Reset()
	r.Carry.Drive(0)
}

// Update implements circuit.Component.
func (r *IncRegister) Update(s *circuit.Signal) {
	if r.We.HadEdge(1) {
		r.v = r.Inp.Value() % r.mod
	}
	if r.Inc.HadEdge(1) {
		next := r.v + 1
		if next >= r.mod {
			next = 0
			r.Carry.Drive(1)
		} else {
			r.Carry.Drive(0)
		}
		r.v = next
	}
	r.State.Drive(r.v)
	if r.Oe.Value() == 1 {
		r.Out.Drive(r.v)
	} else {
		r.Out.Release()
	}
}

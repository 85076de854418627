package parts

import "github.com/jimmo/cpld-cpu/circuit"

// ROM holds 2^addrWidth bytes and drives Data from Rom[Addr] while Oe
// is high, else releases it.
type ROM struct {
	circuit.Base
	Rom []uint8

	Addr *circuit.Signal
	Data *circuit.Signal
	Oe   *circuit.Signal
}

// NewROM creates a ROM of the given address and data width.
func NewROM(name string, addrWidth, dataWidth int) *ROM {
	r := &ROM{Base: circuit.NewBase(name)}
	r.Rom = make([]uint8, 1<<uint(addrWidth))
	r.Addr = circuit.NewNotifySignal(r, "addr", addrWidth)
	r.Data = circuit.NewSignal(r, "data", dataWidth)
	r.Oe = circuit.NewNotifySignal(r, "oe", 1)
	return r
}

// Reset releases Data; ROM contents are not cleared by Reset (they
// hold whatever program has been loaded).
func (r *ROM) Reset() {
	r.Data.Release()
}

// Update implements circuit.Component.
func (r *ROM) Update(s *circuit.Signal) {
	if r.Oe.Value() == 1 {
		r.Data.Drive(uint32(r.Rom[r.Addr.Value()]))
	} else {
		r.Data.Release()
	}
}

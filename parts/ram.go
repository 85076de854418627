package parts

import "github.com/jimmo/cpld-cpu/circuit"

// RAM holds 2^addrWidth bytes. On a 0->1 edge of We it writes Data
// into Ram[Addr]; while Oe is high it drives Data from Ram[Addr].
type RAM struct {
	circuit.Base
	Ram []uint8

	Addr *circuit.Signal
	Data *circuit.Signal
	We   *circuit.Signal
	Oe   *circuit.Signal
}

// NewRAM creates a RAM of the given address and data width.
func NewRAM(name string, addrWidth, dataWidth int) *RAM {
	r := &RAM{Base: circuit.NewBase(name)}
	r.Ram = make([]uint8, 1<<uint(addrWidth))
	r.Addr = circuit.NewNotifySignal(r, "addr", addrWidth)
	r.Data = circuit.NewSignal(r, "data", dataWidth)
	r.We = circuit.NewNotifySignal(r, "we", 1)
	r.Oe = circuit.NewNotifySignal(r, "oe", 1)
	return r
}

// Reset releases Data; RAM contents are preserved (the assembler or
// loader populates Ram before Reset is called).
func (r *RAM) Reset() {
	r.Data.Release()
}

// Update implements circuit.Component.
func (r *RAM) Update(s *circuit.Signal) {
	if r.We.HadEdge(1) {
		r.Ram[r.Addr.Value()] = uint8(r.Data.Value())
	}
	if r.Oe.Value() == 1 {
		r.Data.Drive(uint32(r.Ram[r.Addr.Value()]))
	} else {
		r.Data.Release()
	}
}

package cpupaged

import "github.com/jimmo/cpld-cpu/circuit"

// RamIndex adds the index register's value onto the 12-bit logical
// address whenever En is asserted by the decoder (for instructions
// that index through X), and passes the address through unchanged
// otherwise.
type RamIndex struct {
	circuit.Base
	Addr *circuit.Signal
	X    *circuit.Signal
	En   *circuit.Signal
	Out  *circuit.Signal
}

// NewRamIndex creates the index-offset adder.
func NewRamIndex() *RamIndex {
	r := &RamIndex{Base: circuit.NewBase("ram_index")}
	r.Addr = circuit.NewNotifySignal(r, "addr", 12)
	r.X = circuit.NewNotifySignal(r, "x", 8)
	r.En = circuit.NewNotifySignal(r, "en", 1)
	r.Out = circuit.NewSignal(r, "out", 12)
	return r
}

// Reset drives Out from the unoffset address (En defaults to 0).
func (r *RamIndex) Reset() {
	r.Out.Drive(r.Addr.Value())
}

// Update implements circuit.Component.
func (r *RamIndex) Update(s *circuit.Signal) {
	if r.En.Value() != 0 {
		r.Out.Drive((r.Addr.Value() + r.X.Value()) & 0xfff)
	} else {
		r.Out.Drive(r.Addr.Value())
	}
}

package cpu8

import "github.com/jimmo/cpld-cpu/circuit"

// ProgramCounter is one 8-bit half of the 16-bit program counter
// (two are wired together, low half's Co driving high half's Inc, to
// form the full address). Rst takes priority, then a jump load via
// Ie, then a 0->1 edge of Inc which ripples Co on wraparound.
type ProgramCounter struct {
	circuit.Base
	name string
	v    uint32

	Addr *circuit.Signal
	Data *circuit.Signal
	Rst  *circuit.Signal
	Inc  *circuit.Signal
	Ie   *circuit.Signal
	Co   *circuit.Signal
}

// NewProgramCounter creates one half of the program counter; name
// distinguishes the low and high halves in diagnostics.
func NewProgramCounter(name string) *ProgramCounter {
	p := &ProgramCounter{Base: circuit.NewBase("pc " + name), name: name}
	p.Addr = circuit.NewSignal(p, "addr", 8)
	p.Data = circuit.NewSignal(p, "data", 8)
	p.Rst = circuit.NewNotifySignal(p, "rst", 1)
	p.Inc = circuit.NewNotifySignal(p, "inc", 1)
	p.Ie = circuit.NewNotifySignal(p, "ie", 1)
	p.Co = circuit.NewSignal(p, "co", 1)
	return p
}

// Reset zeroes the counter and drives Addr and Co accordingly.
func (p *ProgramCounter) Reset() {
	p.v = 0
	p.Addr.Drive(p.v)
	p.Co.Drive(0)
}

// Value returns the counter's current value without driving anything.
func (p *ProgramCounter) Value() uint32 { return p.v }

// Update implements circuit.Component.
func (p *ProgramCounter) Update(s *circuit.Signal) {
	switch {
	case p.Rst.Value() == 1:
		p.v = 0
	case p.Ie.Value() == 1:
		p.v = p.Data.Value()
	case p.Inc.HadEdge(1):
		if p.v == 0xff {
			p.v = 0
			p.Co.Drive(1)
		} else {
			p.v++
			p.Co.Drive(0)
		}
	}
	p.Addr.Drive(p.v)
}

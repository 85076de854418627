// Package cpuidx implements the NOR CPU variant augmented with an
// index register X: nor/add/sta address RAM at addr+X, while their
// norx/addx/stx counterparts address RAM directly at addr and operate
// on X instead of the accumulator. It is grounded in the original
// simulator's indexcpu/cpu.py (itself a fork of the plain NOR
// machine implemented here as cpunor).
package cpuidx

import "github.com/jimmo/cpld-cpu/circuit"

// Decoder states, named for the action taken on the clock edge that
// follows entry into that state.
const (
	stateFetch      = 0b000
	stateStx        = 0b001
	stateAddx       = 0b010
	stateNorx       = 0b011
	stateNop        = 0b100 // unreachable: reserved by the ~(top3)&7 encoding
	stateSta        = 0b101
	stateAdd        = 0b110
	stateNor        = 0b111
	stateBranchSkip = 0b1101
)

// Opcode field values (top three bits of the instruction byte).
const (
	OpNor  = 0b000
	OpAdd  = 0b001
	OpSta  = 0b010
	OpJcc  = 0b011
	OpNorx = 0b100
	OpAddx = 0b101
	OpStx  = 0b110
	OpJnz  = 0b111
)

// Decoder is the indexed NOR CPU's combined fetch/ALU/control unit.
type Decoder struct {
	circuit.Base
	acc    uint32 // 9 bits: bit 8 is carry
	x      uint32 // 9 bits: bit 8 is carry
	adreg  uint32 // 5-bit RAM address latch
	pc     uint32 // 5-bit program counter
	states uint32

	Clk  *circuit.Signal
	Addr *circuit.Signal
	Data *circuit.Signal
	Ie   *circuit.Signal
	Oe   *circuit.Signal
}

// NewDecoder creates the decoder.
func NewDecoder() *Decoder {
	d := &Decoder{Base: circuit.NewBase("decoder")}
	d.Clk = circuit.NewNotifySignal(d, "clk", 1)
	d.Addr = circuit.NewSignal(d, "addr", 5)
	d.Data = circuit.NewSignal(d, "data", 8)
	d.Ie = circuit.NewSignal(d, "ie", 1)
	d.Oe = circuit.NewSignal(d, "oe", 1)
	return d
}

// Reset puts the decoder in its power-up fetch state.
func (d *Decoder) Reset() {
	d.acc, d.x, d.adreg, d.pc, d.states = 0, 0, 0, 0, 0
	d.Addr.Drive(0)
	d.Data.Release()
	d.Oe.Drive(1)
	d.Ie.Drive(0)
}

// PC returns the decoder's program counter.
func (d *Decoder) PC() uint32 { return d.pc }

// X returns the index register's current value.
func (d *Decoder) X() uint32 { return d.x & 0xff }

// Update implements circuit.Component.
func (d *Decoder) Update(s *circuit.Signal) {
	if d.Clk.HadEdge(1) {
		data := d.Data.Value()
		if d.states == stateFetch {
			d.pc = (d.adreg + 1) & 0x1f
			d.adreg = data
		} else {
			d.adreg = d.pc

			switch d.states {
			case stateAdd:
				d.acc = (d.acc&0xff + data) & 0x1ff
			case stateNor:
				carry := d.acc & 0x100
				d.acc = carry | (^(d.acc&0xff | data) & 0xff)
			case stateAddx:
				d.x = (d.x&0xff + data) & 0x1ff
			case stateNorx:
				carry := d.x & 0x100
				d.x = carry | (^(d.x&0xff | data) & 0xff)
			case stateBranchSkip:
				d.acc = d.acc & 0xff
			}
		}

		if d.states != stateFetch {
			d.states = stateFetch
		} else if data&0b01100000 == 0b01100000 {
			branchNotTaken := (data&0x80 == 0 && d.acc&0x100 != 0) ||
				(data&0x80 != 0 && d.acc&0xff == 0)
			if branchNotTaken {
				d.states = stateBranchSkip
			} else {
				d.states = stateFetch
			}
		} else {
			d.states = (^(data >> 5) & 0b111)
			if data&0x80 == 0 && data&0b01100000 != 0b01100000 {
				d.adreg = (d.adreg + d.x) & 0x1f
			}
		}
	}

	clk := d.Clk.Value()
	d.Addr.Drive(d.adreg & 0x1f)
	switch d.states {
	case stateSta:
		d.Data.Drive(d.acc & 0xff)
	case stateStx:
		d.Data.Drive(d.x & 0xff)
	default:
		d.Data.Release()
	}
	if clk == 1 || (d.states == stateStx || d.states == stateSta || d.states == stateBranchSkip) {
		d.Oe.Drive(0)
	} else {
		d.Oe.Drive(1)
	}
	if clk == 1 || (d.states != stateStx && d.states != stateSta) {
		d.Ie.Drive(0)
	} else {
		d.Ie.Drive(1)
	}
}

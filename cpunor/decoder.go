// Package cpunor implements the NOR-only minimalist CPU: a single
// instruction format (2-bit opcode, 6-bit RAM address) whose entire
// instruction set is nor/add/sta/jcc, everything else (lda, sub, jmp,
// clr) built as assembler-level macros over those four. It is
// grounded in the MCPU-style machine of the original simulator's
// tinycpu/cpu.py, whose Decoder folds fetch, ALU and control into one
// small state machine driven directly off a shared RAM bus rather
// than a register file.
package cpunor

import "github.com/jimmo/cpld-cpu/circuit"

// Decoder states, named for the action taken on the following clock
// edge while in that state.
const (
	stateFetch     = 0b000
	stateStore     = 0b001
	stateAdd       = 0b010
	stateNor       = 0b011
	stateClearCarry = 0b101
)

// Opcode field values (top two bits of the instruction byte).
const (
	OpNor = 0b00
	OpAdd = 0b01
	OpSta = 0b10
	OpJcc = 0b11
)

// Decoder is the NOR CPU's combined fetch/ALU/control unit. Unlike
// the canonical 8-bit machine's Decoder, it keeps the accumulator,
// address latch and program counter as its own internal state rather
// than driving separate register components: the original design
// folds the entire data path into this one component, with RAM as the
// only other component in the machine.
type Decoder struct {
	circuit.Base
	acc    uint32 // 9 bits: bit 8 is carry
	adreg  uint32 // 6-bit RAM address latch
	pc     uint32 // 6-bit program counter
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
	d.Addr = circuit.NewSignal(d, "addr", 6)
	d.Data = circuit.NewSignal(d, "data", 8)
	d.Ie = circuit.NewSignal(d, "ie", 1)
	d.Oe = circuit.NewSignal(d, "oe", 1)
	return d
}

// Reset puts the decoder in its power-up fetch state.
func (d *Decoder) Reset() {
	d.acc, d.adreg, d.pc, d.states = 0, 0, 0, 0
	d.Addr.Drive(0)
	d.Data.Release()
	d.Oe.Drive(1)
	d.Ie.Drive(0)
}

// PC returns the program counter (the address the decoder will fetch
// from next, once the in-flight instruction completes).
func (d *Decoder) PC() uint32 { return d.pc }

// Update implements circuit.Component.
func (d *Decoder) Update(s *circuit.Signal) {
	if d.Clk.HadEdge(1) {
		data := d.Data.Value()
		if d.states == stateFetch {
			d.pc = (d.adreg + 1) & 0x3f
			d.adreg = data
		} else {
			d.adreg = d.pc
		}

		switch d.states {
		case stateAdd:
			d.acc = (d.acc&0xff + data) & 0x1ff
		case stateNor:
			d.acc = (^(d.acc&0xff | data)) & 0xff
		case stateClearCarry:
			d.acc = d.acc & 0xff
		}

		if d.states != stateFetch {
			d.states = stateFetch
		} else if data&0b11000000 == 0b11000000 && d.acc&0x100 != 0 {
			d.states = stateClearCarry
		} else {
			d.states = (^(data >> 6) & 0b11)
		}
	}

	clk := d.Clk.Value()
	d.Addr.Drive(d.adreg & 0x3f)
	if d.states == stateStore {
		d.Data.Drive(d.acc & 0xff)
	} else {
		d.Data.Release()
	}
	if clk == 1 || d.states == stateStore || d.states == stateClearCarry {
		d.Oe.Drive(0)
	} else {
		d.Oe.Drive(1)
	}
	if clk == 1 || d.states != stateStore {
		d.Ie.Drive(0)
	} else {
		d.Ie.Drive(1)
	}
}

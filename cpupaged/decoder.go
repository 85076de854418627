package cpupaged

import "github.com/jimmo/cpld-cpu/circuit"

// Instruction opcodes (the instruction register's top 3 bits).
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

// Decoder is an 8-state (mod-8) instruction cycle sequencer driving
// every control line in the machine. Unlike cpunor/cpuidx's folded
// decoders, this variant keeps a real register file, so the decoder's
// job is purely to raise/lower control lines per state; the registers
// themselves hold all the data-path state.
type Decoder struct {
	circuit.Base
	state   uint32
	lastClk uint32
	haveClk bool

	Clk   *circuit.Signal
	Instr *circuit.Signal
	Carry *circuit.Signal
	Z     *circuit.Signal

	RamOe *circuit.Signal
	RamWe *circuit.Signal
	ArOe  *circuit.Signal
	ArWe  *circuit.Signal
	IrOe  *circuit.Signal
	IrWe  *circuit.Signal
	PcWe  *circuit.Signal
	PcOe  *circuit.Signal
	PcInc *circuit.Signal
	AOe   *circuit.Signal
	AWe   *circuit.Signal
	ACc   *circuit.Signal
	XOe   *circuit.Signal
	XWe   *circuit.Signal
	AluOe *circuit.Signal
	AluWe *circuit.Signal
	IdxEn *circuit.Signal
}

// NewDecoder creates the decoder.
func NewDecoder() *Decoder {
	d := &Decoder{Base: circuit.NewBase("decoder")}
	d.Clk = circuit.NewNotifySignal(d, "clk", 1)
	d.Instr = circuit.NewNotifySignal(d, "instr", 3)
	d.Carry = circuit.NewNotifySignal(d, "carry", 1)
	d.Z = circuit.NewNotifySignal(d, "z", 1)

	d.RamOe = circuit.NewSignal(d, "ram_oe", 1)
	d.RamWe = circuit.NewSignal(d, "ram_we", 1)
	d.ArOe = circuit.NewSignal(d, "ar_oe", 1)
	d.ArWe = circuit.NewSignal(d, "ar_we", 1)
	d.IrOe = circuit.NewSignal(d, "ir_oe", 1)
	d.IrWe = circuit.NewSignal(d, "ir_we", 1)
	d.PcWe = circuit.NewSignal(d, "pc_we", 1)
	d.PcOe = circuit.NewSignal(d, "pc_oe", 1)
	d.PcInc = circuit.NewSignal(d, "pc_inc", 1)
	d.AOe = circuit.NewSignal(d, "a_oe", 1)
	d.AWe = circuit.NewSignal(d, "a_we", 1)
	d.ACc = circuit.NewSignal(d, "a_cc", 1)
	d.XOe = circuit.NewSignal(d, "x_oe", 1)
	d.XWe = circuit.NewSignal(d, "x_we", 1)
	d.AluOe = circuit.NewSignal(d, "alu_oe", 1)
	d.AluWe = circuit.NewSignal(d, "alu_we", 1)
	d.IdxEn = circuit.NewSignal(d, "idx_en", 1)
	return d
}

// Reset returns the decoder to state 0 with every write/enable line
// low except AluOe, matching the original power-up vector.
func (d *Decoder) Reset() {
	d.state, d.haveClk = 0, false
	d.RamOe.Drive(0)
	d.RamWe.Drive(0)
	d.ArOe.Drive(0)
	d.ArWe.Drive(0)
	d.IrOe.Drive(0)
	d.IrWe.Drive(0)
	d.PcWe.Drive(0)
	d.PcOe.Drive(0)
	d.PcInc.Drive(0)
	d.AOe.Drive(0)
	d.AWe.Drive(0)
	d.ACc.Drive(0)
	d.XOe.Drive(0)
	d.XWe.Drive(0)
	d.AluOe.Drive(1)
	d.AluWe.Drive(0)
	d.IdxEn.Drive(0)
}

func b2b(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// State returns the decoder's current cycle state (0-7), for the
// machine's halt-detection logic.
func (d *Decoder) State() uint32 { return d.state }

// Update implements circuit.Component. The decoder advances one state
// on every clock transition (not just rising edges): the original
// machine's 8-state cycle runs at twice the clock's own toggle rate.
func (d *Decoder) Update(s *circuit.Signal) {
	clk := d.Clk.Value()
	if !d.haveClk || clk != d.lastClk {
		d.state = (d.state + 1) % 8
		d.lastClk = clk
		d.haveClk = true
	} else {
		return
	}

	instr := d.Instr.Value()
	isAluOp := instr == OpNor || instr == OpAdd || instr == OpNorx || instr == OpAddx

	d.RamOe.Drive(b2b(d.state <= 3 || (isAluOp && d.state <= 5)))
	d.ArOe.Drive(b2b(d.state > 3))
	d.IrOe.Drive(b2b(d.state > 3))
	d.PcOe.Drive(b2b(d.state <= 3))
	d.IrWe.Drive(b2b(d.state == 1))
	d.PcInc.Drive(b2b(d.state == 2 || d.state == 4))
	d.ArWe.Drive(b2b(d.state == 3))

	d.AluWe.Drive(b2b(isAluOp && d.state == 5))
	d.AWe.Drive(b2b((instr == OpNor || instr == OpAdd) && d.state == 6))
	d.XWe.Drive(b2b((instr == OpNorx || instr == OpAddx) && d.state == 6))

	d.AOe.Drive(b2b(instr == OpSta && (d.state == 5 || d.state == 6)))
	d.XOe.Drive(b2b(instr == OpStx && (d.state == 5 || d.state == 6)))
	d.RamWe.Drive(b2b((instr == OpSta || instr == OpStx) && d.state == 6))

	d.IdxEn.Drive(b2b((instr == OpNor || instr == OpAdd || instr == OpSta) && d.state > 3))

	jccTaken := instr == OpJcc && d.Carry.Value() == 0
	jnzTaken := instr == OpJnz && d.Z.Value() == 0
	d.PcWe.Drive(b2b((jccTaken || jnzTaken) && d.state == 5))

	jccNotTaken := instr == OpJcc && d.Carry.Value() != 0
	jnzNotTaken := instr == OpJnz && d.Z.Value() != 0
	d.ACc.Drive(b2b((jccNotTaken || jnzNotTaken) && d.state == 5))
}

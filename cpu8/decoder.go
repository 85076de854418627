package cpu8

import "github.com/jimmo/cpld-cpu/circuit"

// Decoder is the instruction decoder: purely combinational on Instr
// and Clk (the 2-bit phase counter), it drives every register's
// enable/output-enable line, the ALU's function select, the memory
// control lines and the program counter controls. Phases follow the
// opcode format:
//
//	0ddnxxxx  load imm       dd=dest(A-D) n=nibble(l/h) xxxx=data
//	10sssddd  mov sss to ddd registers A-H
//	110ffffd  alu ffff to dest d (A or C)
//	1110rrwa  r/w mem       rr=A,B,E,F  a=(C:D, G:H)
//	1111attt  jump          a=(C:D, G:H)
//
// The decoder has no flags input and does not decode a jump's ttt
// condition field: every jump loads the program counter from the
// selected pair.
type Decoder struct {
	circuit.Base
	Instr *circuit.Signal
	Clk   *circuit.Signal

	AlIe, AhIe *circuit.Signal
	BlIe, BhIe *circuit.Signal
	ClIe, ChIe *circuit.Signal
	DlIe, DhIe *circuit.Signal
	EIe        *circuit.Signal
	FIe        *circuit.Signal
	GIe        *circuit.Signal
	HIe        *circuit.Signal
	TIe        *circuit.Signal

	AOe, BOe, COe, DOe *circuit.Signal
	EOe, FOe, GOe, HOe *circuit.Signal
	TOe                *circuit.Signal

	PcInc *circuit.Signal
	PcIe  *circuit.Signal

	IrIe *circuit.Signal
	IrOe *circuit.Signal

	AluFn *circuit.Signal
	AluOe *circuit.Signal

	SelCd *circuit.Signal
	SelGh *circuit.Signal

	MemIe *circuit.Signal
	MemOe *circuit.Signal
}

// NewDecoder creates the decoder and all of its output signals.
func NewDecoder() *Decoder {
	d := &Decoder{Base: circuit.NewBase("decoder")}
	d.Instr = circuit.NewNotifySignal(d, "instr", 8)
	d.Clk = circuit.NewNotifySignal(d, "clk", 2)

	one := func(name string) *circuit.Signal { return circuit.NewSignal(d, name, 1) }

	d.AlIe, d.AhIe = one("al_ie"), one("ah_ie")
	d.BlIe, d.BhIe = one("bl_ie"), one("bh_ie")
	d.ClIe, d.ChIe = one("cl_ie"), one("ch_ie")
	d.DlIe, d.DhIe = one("dl_ie"), one("dh_ie")
	d.EIe, d.FIe, d.GIe, d.HIe = one("e_ie"), one("f_ie"), one("g_ie"), one("h_ie")
	d.TIe = one("t_ie")

	d.AOe, d.BOe, d.COe, d.DOe = one("a_oe"), one("b_oe"), one("c_oe"), one("d_oe")
	d.EOe, d.FOe, d.GOe, d.HOe = one("e_oe"), one("f_oe"), one("g_oe"), one("h_oe")
	d.TOe = one("t_oe")

	d.PcInc = one("pc_inc")
	d.PcIe = one("pc_ie")
	d.IrIe = one("ir_ie")
	d.IrOe = one("ir_oe")

	d.AluFn = circuit.NewSignal(d, "alu_fn", 4)
	d.AluOe = one("alu_oe")

	d.SelCd = one("sel_cd")
	d.SelGh = one("sel_gh")

	d.MemIe = one("mem_ie")
	d.MemOe = one("mem_oe")
	return d
}

// Reset drives the phase-dependent increment line low; every other
// output is recomputed by the first Update call the simulation runs.
func (d *Decoder) Reset() {
	d.PcInc.Drive(0)
}

// Update implements circuit.Component.
func (d *Decoder) Update(s *circuit.Signal) {
	clk := d.Clk.Value()
	m1 := clk <= 1
	m2 := clk == 1
	m3 := clk >= 2
	m4 := clk == 3

	d.IrIe.Drive(b2i(m1))

	instr := d.Instr.Value()
	b7 := instr>>7&1 != 0
	b6 := instr>>6&1 != 0
	b5 := instr>>5&1 != 0
	b4 := instr>>4&1 != 0

	var aIe, bIe, cIe, dIe, eIe, fIe, gIe, hIe bool
	var aOe, bOe, cOe, dOe, eOe, fOe, gOe, hOe bool
	var tIe, tOe bool
	var selCd, selGh bool

	// IMM
	isImm := !b7
	isImmHigh := instr>>4&1 != 0
	immDest := instr >> 5 & 3
	d.IrOe.Drive(b2i(m3 && isImm))

	// MOV
	isMov := b7 && !b6
	movSrc := instr >> 3 & 7
	movDst := instr & 7

	aOe = aOe || (m1 && isMov && movSrc == 0)
	bOe = bOe || (m1 && isMov && movSrc == 1)
	cOe = cOe || (m1 && isMov && movSrc == 2)
	dOe = dOe || (m1 && isMov && movSrc == 3)
	eOe = eOe || (m1 && isMov && movSrc == 4)
	fOe = fOe || (m1 && isMov && movSrc == 5)
	gOe = gOe || (m1 && isMov && movSrc == 6)
	hOe = hOe || (m1 && isMov && movSrc == 7)

	aIe = aIe || (m4 && isMov && movDst == 0)
	bIe = bIe || (m4 && isMov && movDst == 1)
	cIe = cIe || (m4 && isMov && movDst == 2)
	dIe = dIe || (m4 && isMov && movDst == 3)
	eIe = eIe || (m4 && isMov && movDst == 4)
	fIe = fIe || (m4 && isMov && movDst == 5)
	gIe = gIe || (m4 && isMov && movDst == 6)
	hIe = hIe || (m4 && isMov && movDst == 7)

	tIe = tIe || (m2 && isMov)
	tOe = tOe || (m3 && isMov)

	// ALU
	isAlu := b7 && b6 && !b5
	d.AluFn.Drive(instr >> 1 & 0xf)
	d.AluOe.Drive(b2i(m1 && isAlu))
	tIe = tIe || (m2 && isAlu)
	tOe = tOe || (m3 && isAlu)
	aIe = aIe || (m4 && isAlu && instr&1 == 0)
	cIe = cIe || (m4 && isAlu && instr&1 != 0)

	// MEM
	isMem := b7 && b6 && b5 && !b4
	isMemRead := isMem && instr>>1&1 == 0
	isMemWrite := isMem && instr>>1&1 != 0
	selCd = selCd || (m3 && isMem && instr&1 == 0)
	selGh = selGh || (m3 && isMem && instr&1 != 0)
	memReg := instr >> 2 & 3
	aOe = aOe || (m1 && isMemWrite && memReg == 0)
	bOe = bOe || (m1 && isMemWrite && memReg == 1)
	eOe = eOe || (m1 && isMemWrite && memReg == 2)
	fOe = fOe || (m1 && isMemWrite && memReg == 3)
	aIe = aIe || (m4 && isMemRead && memReg == 0)
	bIe = bIe || (m4 && isMemRead && memReg == 1)
	eIe = eIe || (m4 && isMemRead && memReg == 2)
	fIe = fIe || (m4 && isMemRead && memReg == 3)

	tIe = tIe || (m2 && isMemWrite)
	tOe = tOe || (m3 && isMemWrite)

	d.MemIe.Drive(b2i(m4 && isMemWrite))
	d.MemOe.Drive(b2i(m4 && isMemRead))

	// JMP
	isJmp := b7 && b6 && b5 && b4
	d.PcInc.Drive(b2i(m4 && !isJmp))
	d.PcIe.Drive(b2i(m4 && isJmp))
	selCd = selCd || (m3 && isJmp && instr>>3&1 == 0)
	selGh = selGh || (m3 && isJmp && instr>>3&1 != 0)

	d.AlIe.Drive(b2i(aIe || (m4 && isImm && immDest == 0 && !isImmHigh)))
	d.AhIe.Drive(b2i(aIe || (m4 && isImm && immDest == 0 && isImmHigh)))
	d.BlIe.Drive(b2i(bIe || (m4 && isImm && immDest == 1 && !isImmHigh)))
	d.BhIe.Drive(b2i(bIe || (m4 && isImm && immDest == 1 && isImmHigh)))
	d.ClIe.Drive(b2i(cIe || (m4 && isImm && immDest == 2 && !isImmHigh)))
	d.ChIe.Drive(b2i(cIe || (m4 && isImm && immDest == 2 && isImmHigh)))
	d.DlIe.Drive(b2i(dIe || (m4 && isImm && immDest == 3 && !isImmHigh)))
	d.DhIe.Drive(b2i(dIe || (m4 && isImm && immDest == 3 && isImmHigh)))
	d.EIe.Drive(b2i(eIe))
	d.FIe.Drive(b2i(fIe))
	d.GIe.Drive(b2i(gIe))
	d.HIe.Drive(b2i(hIe))

	d.AOe.Drive(b2i(aOe))
	d.BOe.Drive(b2i(bOe))
	d.COe.Drive(b2i(cOe))
	d.DOe.Drive(b2i(dOe))
	d.EOe.Drive(b2i(eOe))
	d.FOe.Drive(b2i(fOe))
	d.GOe.Drive(b2i(gOe))
	d.HOe.Drive(b2i(hOe))

	d.TIe.Drive(b2i(tIe))
	d.TOe.Drive(b2i(tOe))

	d.SelCd.Drive(b2i(selCd))
	d.SelGh.Drive(b2i(selGh))
}

func b2i(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

package cpu8

import (
	"fmt"
	"strings"

	"github.com/jimmo/cpld-cpu/asm"
)

// Opcode prefixes, matching the canonical 8-bit instruction format.
const (
	prefixImm = 0
	prefixMov = 1 << 7
	prefixAlu = 1<<7 | 1<<6
	prefixMem = 1<<7 | 1<<6 | 1<<5
	prefixJmp = 1<<7 | 1<<6 | 1<<5 | 1<<4

	memRead  = 0
	memWrite = 1 << 1
)

var immRegisters = []string{"a", "b", "c", "d"}
var imm16Registers = []string{"a:b", "c:d"}
var movRegisters = []string{"a", "b", "c", "d", "e", "f", "g", "h"}
var mov16Registers = []string{"a:b", "c:d", "e:f", "g:h"}
var aluRegisters = []string{"a", "c"}
var labelRegisters = []string{"a:b", "c:d"}
var addrRegisters = []string{"c:d", "g:h"}

func indexOf(xs []string, v string) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}

// Assembler encodes mnemonic-level instructions for the canonical
// 8-bit CPU into a ROM image via the shared asm.Assembler cursor.
type Assembler struct {
	*asm.Assembler
}

// NewAssembler creates an assembler writing into rom (a parts.ROM's
// Rom field, or any asm.Sink) starting at addr.
func NewAssembler(sink asm.Sink, addr uint32) *Assembler {
	return &Assembler{Assembler: asm.New(sink, addr)}
}

// Load loads a single hex nibble into reg, which names a half of one
// of the A-D registers ("al", "ah", "bl", ...).
func (a *Assembler) Load(reg string, nibble uint8) error {
	reg = strings.ToLower(reg)
	if len(reg) != 2 || indexOf(immRegisters, reg[:1]) < 0 || (reg[1] != 'l' && reg[1] != 'h') {
		return fmt.Errorf("cpu8: invalid register for load: %q", reg)
	}
	index := indexOf(immRegisters, reg[:1])
	high := uint8(0)
	if reg[1] == 'h' {
		high = 0b10000
	}
	a.Write(prefixImm | (nibble & 0xf) | high | uint8(index<<5))
	return nil
}

// Load8 loads an 8-bit immediate into one of the A-D registers, as two
// Load calls (high nibble then low).
func (a *Assembler) Load8(reg string, v uint8) error {
	reg = strings.ToLower(reg)
	if indexOf(immRegisters, reg) < 0 {
		return fmt.Errorf("cpu8: invalid register for load8: %q", reg)
	}
	if err := a.Load(reg+"h", (v>>4)&0xf); err != nil {
		return err
	}
	return a.Load(reg+"l", v&0xf)
}

// Load16 loads a 16-bit immediate into a register pair ("a:b" or
// "c:d"), as four Load calls.
func (a *Assembler) Load16(reg string, v uint16) error {
	reg = strings.ToLower(reg)
	if indexOf(imm16Registers, reg) < 0 {
		return fmt.Errorf("cpu8: invalid register for load16: %q", reg)
	}
	hi, lo := reg[0:1], reg[2:3]
	if err := a.Load(hi+"h", uint8(v>>12)&0xf); err != nil {
		return err
	}
	if err := a.Load(hi+"l", uint8(v>>8)&0xf); err != nil {
		return err
	}
	if err := a.Load(lo+"h", uint8(v>>4)&0xf); err != nil {
		return err
	}
	return a.Load(lo+"l", uint8(v)&0xf)
}

// LoadLabel reserves a 4-byte Load16 sequence that, once l is bound,
// loads reg with l's address.
func (a *Assembler) LoadLabel(reg string, l *asm.Label) error {
	reg = strings.ToLower(reg)
	if indexOf(labelRegisters, reg) < 0 {
		return fmt.Errorf("cpu8: invalid register for loadlabel: %q", reg)
	}
	var ferr error
	a.Reserve(4, l, func(fix *asm.Assembler) {
		sub := &Assembler{Assembler: fix}
		if err := sub.Load16(reg, uint16(l.Addr())); err != nil {
			ferr = err
		}
	})
	return ferr
}

// Mov copies src into dst, any of the eight registers A-H.
func (a *Assembler) Mov(dst, src string) error {
	dst, src = strings.ToLower(dst), strings.ToLower(src)
	di, si := indexOf(movRegisters, dst), indexOf(movRegisters, src)
	if di < 0 {
		return fmt.Errorf("cpu8: invalid destination register: %q", dst)
	}
	if si < 0 {
		return fmt.Errorf("cpu8: invalid source register: %q", src)
	}
	a.Write(prefixMov | uint8(si<<3) | uint8(di))
	return nil
}

// Mov16 copies a register pair into another, as two Mov calls.
func (a *Assembler) Mov16(dst, src string) error {
	dst, src = strings.ToLower(dst), strings.ToLower(src)
	if indexOf(mov16Registers, dst) < 0 {
		return fmt.Errorf("cpu8: invalid destination register: %q", dst)
	}
	if indexOf(mov16Registers, src) < 0 {
		return fmt.Errorf("cpu8: invalid source register: %q", src)
	}
	if err := a.Mov(dst[0:1], src[0:1]); err != nil {
		return err
	}
	return a.Mov(dst[2:3], src[2:3])
}

// Alu emits an ALU instruction applying fn to dst ("a" or "c").
func (a *Assembler) Alu(dst string, fn uint8) error {
	dst = strings.ToLower(dst)
	if indexOf(aluRegisters, dst) < 0 {
		return fmt.Errorf("cpu8: invalid destination register for alu: %q", dst)
	}
	if fn > 15 {
		return fmt.Errorf("cpu8: invalid alu function: %d", fn)
	}
	d := uint8(0)
	if dst != "a" {
		d = 1
	}
	a.Write(prefixAlu | (fn << 1) | d)
	return nil
}

func (a *Assembler) AluNot(dst string) error    { return a.Alu(dst, FnNot) }
func (a *Assembler) AluXor(dst string) error    { return a.Alu(dst, FnXor) }
func (a *Assembler) AluOr(dst string) error     { return a.Alu(dst, FnOr) }
func (a *Assembler) AluAnd(dst string) error    { return a.Alu(dst, FnAnd) }
func (a *Assembler) AluAdd(dst string) error    { return a.Alu(dst, FnAdd) }
func (a *Assembler) AluSub(dst string) error    { return a.Alu(dst, FnSub) }
func (a *Assembler) AluCmp() error              { return a.Alu("a", FnEq) }
func (a *Assembler) AluShl(dst string) error    { return a.Alu(dst, FnShl) }
func (a *Assembler) AluShr(dst string) error    { return a.Alu(dst, FnShr) }
func (a *Assembler) AluInc(dst string) error    { return a.Alu(dst, FnAdd) }
func (a *Assembler) AluDec(dst string) error    { return a.Alu(dst, FnSub) }
func (a *Assembler) AluNeg(dst string) error    { return a.Alu(dst, FnNot) }
func (a *Assembler) AluClf() error              { return a.Alu("a", FnClf) }
func (a *Assembler) AluInv() error              { return a.Alu("a", FnInv) }
func (a *Assembler) AluRol(dst string) error    { return a.Alu(dst, FnRol) }
func (a *Assembler) AluRor(dst string) error    { return a.Alu(dst, FnRor) }

// Jmp emits a jump through an address register pair, with condition
// code t (0 = unconditional) in the instruction's low three bits. The
// decoder does not decode t, so every jump is taken.
func (a *Assembler) Jmp(addr string, t uint8) error {
	addr = strings.ToLower(addr)
	idx := indexOf(addrRegisters, addr)
	if idx < 0 {
		return fmt.Errorf("cpu8: invalid jump register: %q", addr)
	}
	a.Write(prefixJmp | uint8(idx<<3) | t)
	return nil
}

// Rmem reads memory at addr into dst ("a", "b", "e" or "f").
func (a *Assembler) Rmem(dst, addr string) error {
	dst, addr = strings.ToLower(dst), strings.ToLower(addr)
	di := indexOf([]string{"a", "b", "e", "f"}, dst)
	ai := indexOf(addrRegisters, addr)
	if di < 0 {
		return fmt.Errorf("cpu8: invalid mem dst register: %q", dst)
	}
	if ai < 0 {
		return fmt.Errorf("cpu8: invalid addr register: %q", addr)
	}
	a.Write(prefixMem | uint8(di<<2) | memRead | uint8(ai))
	return nil
}

// Wmem writes src to memory at addr.
func (a *Assembler) Wmem(src, addr string) error {
	src, addr = strings.ToLower(src), strings.ToLower(addr)
	si := indexOf([]string{"a", "b", "e", "f"}, src)
	ai := indexOf(addrRegisters, addr)
	if si < 0 {
		return fmt.Errorf("cpu8: invalid mem src register: %q", src)
	}
	if ai < 0 {
		return fmt.Errorf("cpu8: invalid addr register: %q", addr)
	}
	a.Write(prefixMem | uint8(si<<2) | memWrite | uint8(ai))
	return nil
}

// Hlt emits an infinite self-jump: the canonical halt idiom that
// CPU.Run detects as a program-counter fixed point.
func (a *Assembler) Hlt() error {
	l := asm.NewLabel("hlt")
	if err := a.LoadLabel("c:d", l); err != nil {
		return err
	}
	if err := a.Bind(l); err != nil {
		return err
	}
	return a.Jmp("c:d", 0)
}

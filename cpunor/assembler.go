package cpunor

import (
	"fmt"

	"github.com/jimmo/cpld-cpu/asm"
)

// Reserved RAM cells holding the constants the derived mnemonics
// below need, by convention of the program being assembled (nothing
// in hardware special-cases these addresses).
const (
	ZeroAddr   = 61
	OneAddr    = 62
	AllOneAddr = 63
)

// Assembler encodes the NOR CPU's four-instruction ISA (nor/add/sta/
// jcc) plus the derived mnemonics (clr, lda, not, sub, shl, jmp, jcs)
// the original machine built out of them.
type Assembler struct {
	*asm.Assembler
}

// NewAssembler creates an assembler writing into sink (typically a
// parts.RAM's Ram field) starting at addr.
func NewAssembler(sink asm.Sink, addr uint32) *Assembler {
	return &Assembler{Assembler: asm.New(sink, addr)}
}

// Preload writes the reserved zero/one/all-ones constants this
// assembler's derived mnemonics depend on. Call it once before
// assembling a program that uses Clr, Lda, Not, Sub or Shl.
func Preload(sink asm.Sink) {
	sink.Set(ZeroAddr, 0x00)
	sink.Set(OneAddr, 0x01)
	sink.Set(AllOneAddr, 0xff)
}

func (a *Assembler) op(code uint8, addr uint32) error {
	if addr > 0x3f {
		return fmt.Errorf("cpunor: address %#x out of range", addr)
	}
	a.Write(code<<6 | uint8(addr))
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

// Nor sets the accumulator to not(acc | RAM[addr]), with carry.
func (a *Assembler) Nor(addr uint32) error { return a.op(OpNor, addr) }

// Add adds RAM[addr] into the accumulator, with carry.
func (a *Assembler) Add(addr uint32) error { return a.op(OpAdd, addr) }

// Sta stores the accumulator to RAM[addr].
func (a *Assembler) Sta(addr uint32) error { return a.op(OpSta, addr) }

// Jcc jumps to addr if the carry flag is clear; if carry is set, it
// clears carry instead of branching.
func (a *Assembler) Jcc(addr uint32) error { return a.op(OpJcc, addr) }

// NorLabel, AddLabel, StaLabel and JccLabel are the label-taking forms
// of the four primitives, for forward references.
func (a *Assembler) NorLabel(l *asm.Label) error { return a.opLabel(OpNor, l) }
func (a *Assembler) AddLabel(l *asm.Label) error { return a.opLabel(OpAdd, l) }
func (a *Assembler) StaLabel(l *asm.Label) error { return a.opLabel(OpSta, l) }
func (a *Assembler) JccLabel(l *asm.Label) error { return a.opLabel(OpJcc, l) }

// Clr zeroes the accumulator (nor with the all-ones constant).
func (a *Assembler) Clr() error { return a.Nor(AllOneAddr) }

// Lda loads RAM[addr] into the accumulator.
func (a *Assembler) Lda(addr uint32) error {
	if err := a.Clr(); err != nil {
		return err
	}
	return a.Add(addr)
}

// Not inverts the accumulator in place (nor with zero).
func (a *Assembler) Not() error { return a.Nor(ZeroAddr) }

// Sub leaves RAM[addr] minus the accumulator's current value in the
// accumulator (inverting the accumulator in place and adding the
// operand plus one computes RAM[addr]+(-acc), the two's-complement
// negation of acc, not the negation of the operand).
func (a *Assembler) Sub(addr uint32) error {
	if err := a.Not(); err != nil {
		return err
	}
	if err := a.Add(addr); err != nil {
		return err
	}
	return a.Add(OneAddr)
}

// Shl doubles RAM[addr] into the accumulator (load then add itself).
func (a *Assembler) Shl(addr uint32) error {
	if err := a.Lda(addr); err != nil {
		return err
	}
	return a.Add(addr)
}

// JmpLabel is an unconditional jump to l: a single Jcc only branches
// when carry happens to be clear, so two back-to-back Jccs guarantee
// the branch is taken regardless of the incoming carry state (the
// first either jumps or clears carry and falls through; either way
// the second always jumps).
func (a *Assembler) JmpLabel(l *asm.Label) error {
	if err := a.JccLabel(l); err != nil {
		return err
	}
	return a.JccLabel(l)
}

// JcsLabel jumps to l only if carry is set: it jumps over itself (to
// the instruction after the pair) when carry is clear, and falls
// through to the real jump when carry is set.
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

// Hlt emits an infinite self-jump loop, the same fixed-point halt
// idiom used by every CPU variant.
func (a *Assembler) Hlt() error {
	l := asm.NewLabel("hlt")
	if err := a.Bind(l); err != nil {
		return err
	}
	return a.JmpLabel(l)
}

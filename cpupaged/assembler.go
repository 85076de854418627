package cpupaged

import (
	"fmt"

	"github.com/jimmo/cpld-cpu/asm"
)

// Reserved logical addresses the derived mnemonics below depend on.
// logAddrWidth gives a 13-bit (8192-byte) logical address space; the
// page table's select registers, the RNG and the display are mapped
// at pageRegBase (4089) through displayAddr+1 (4092), near the top of
// the low 4096-byte window, so the reserved constants below sit well
// clear of them.
const (
	ZeroAddr   = 100
	OneAddr    = 101
	AllOneAddr = 102
)

// Assembler encodes the paged CPU's eight two-byte instructions
// (nor/add/sta/jcc and their indexed-by-X-free norx/addx/stx/jnz
// counterparts) over a 13-bit logical address, plus the clr/lda/not
// derived mnemonics shared with the other NOR-family variants.
type Assembler struct {
	*asm.Assembler
}

// NewAssembler creates an assembler writing into sink starting at addr.
func NewAssembler(sink asm.Sink, addr uint32) *Assembler {
	return &Assembler{Assembler: asm.New(sink, addr)}
}

// Preload writes the reserved constants this assembler's derived
// mnemonics depend on.
func Preload(sink asm.Sink) {
	sink.Set(ZeroAddr, 0x00)
	sink.Set(OneAddr, 0x01)
	sink.Set(AllOneAddr, 0xff)
}

func (a *Assembler) op(code uint8, addr uint32) error {
	if addr >= 1<<logAddrWidth {
		return fmt.Errorf("cpupaged: address %#x out of range", addr)
	}
	a.Write(code<<5 | uint8(addr>>8)&0x1f)
	a.Write(uint8(addr))
	return nil
}

func (a *Assembler) opLabel(code uint8, l *asm.Label) error {
	var ferr error
	a.Reserve(2, l, func(fix *asm.Assembler) {
		sub := &Assembler{Assembler: fix}
		if err := sub.op(code, l.Addr()); err != nil {
			ferr = err
		}
	})
	return ferr
}

func (a *Assembler) Nor(addr uint32) error  { return a.op(OpNor, addr) }
func (a *Assembler) Add(addr uint32) error  { return a.op(OpAdd, addr) }
func (a *Assembler) Sta(addr uint32) error  { return a.op(OpSta, addr) }
func (a *Assembler) Norx(addr uint32) error { return a.op(OpNorx, addr) }
func (a *Assembler) Addx(addr uint32) error { return a.op(OpAddx, addr) }
func (a *Assembler) Stx(addr uint32) error  { return a.op(OpStx, addr) }
func (a *Assembler) Jcc(addr uint32) error  { return a.op(OpJcc, addr) }
func (a *Assembler) Jnz(addr uint32) error  { return a.op(OpJnz, addr) }

func (a *Assembler) JccLabel(l *asm.Label) error { return a.opLabel(OpJcc, l) }
func (a *Assembler) JnzLabel(l *asm.Label) error { return a.opLabel(OpJnz, l) }

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

// Not inverts the accumulator in place.
func (a *Assembler) Not() error { return a.Nor(ZeroAddr) }

// JmpLabel is an unconditional jump to l (two back-to-back Jccs, the
// same idiom as cpunor/cpuidx).
func (a *Assembler) JmpLabel(l *asm.Label) error {
	if err := a.JccLabel(l); err != nil {
		return err
	}
	return a.JccLabel(l)
}

// Hlt emits an infinite self-jump loop.
func (a *Assembler) Hlt() error {
	l := asm.NewLabel("hlt")
	if err := a.Bind(l); err != nil {
		return err
	}
	return a.JmpLabel(l)
}

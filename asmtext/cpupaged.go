package asmtext

import (
	"fmt"

	"github.com/jimmo/cpld-cpu/asm"
	"github.com/jimmo/cpld-cpu/cpupaged"
)

// CPUPagedEmitter drives a cpupaged.Assembler from parsed source: the
// eight hardware primitives (nor/add/sta indexed by X, their
// norx/addx/stx unindexed counterparts, and the unindexed jcc/jnz
// jumps) plus the derived
// clr/clrx/lda/ldx/not/jmp/hlt mnemonics, and the paged variant's own
// `.page name target` directive, which this variant alone supports.
type CPUPagedEmitter struct {
	sink   asm.Sink
	asm    *cpupaged.Assembler
	labels map[string]*asm.Label
	pages  map[string]uint32
}

// NewCPUPagedEmitter creates an emitter writing into sink, preloading
// the reserved constants the derived mnemonics depend on.
func NewCPUPagedEmitter(sink asm.Sink) *CPUPagedEmitter {
	cpupaged.Preload(sink)
	return &CPUPagedEmitter{sink: sink, labels: map[string]*asm.Label{}, pages: map[string]uint32{}}
}

func (e *CPUPagedEmitter) ensure() *cpupaged.Assembler {
	if e.asm == nil {
		e.asm = cpupaged.NewAssembler(e.sink, 0)
	}
	return e.asm
}

func (e *CPUPagedEmitter) label(name string) *asm.Label {
	if l, ok := e.labels[name]; ok {
		return l
	}
	l := asm.NewLabel(name)
	e.labels[name] = l
	return l
}

// SetOrg implements Emitter.
func (e *CPUPagedEmitter) SetOrg(addr uint32) error {
	if e.asm != nil {
		return fmt.Errorf("asmtext: .org must precede the first instruction or label")
	}
	e.asm = cpupaged.NewAssembler(e.sink, addr)
	return nil
}

// Label implements Emitter.
func (e *CPUPagedEmitter) Label(name string) error {
	return e.ensure().Bind(e.label(name))
}

// Close implements Emitter.
func (e *CPUPagedEmitter) Close() error {
	if e.asm == nil {
		return nil
	}
	return e.asm.Close()
}

// SetPage implements PageSetter. name identifies one of the bank-
// select registers at the top of page 0 (assigned a slot index the
// first time it's named, in order of appearance); target is the
// physical bank number written into that slot. The slot is just a
// preloaded memory cell (parts.PagedRamController reads its table from
// RAM-backed state at reset), so this pokes the sink directly rather
// than emitting an instruction.
func (e *CPUPagedEmitter) SetPage(name string, target uint32) error {
	idx, ok := e.pages[name]
	if !ok {
		idx = uint32(len(e.pages))
		e.pages[name] = idx
	}
	e.sink.Set(cpupaged.PageRegBase+idx, uint8(target))
	return nil
}

func (e *CPUPagedEmitter) addrOrLabel(arg string, numFn func(uint32) error, labelFn func(*asm.Label) error) error {
	if n, err := ParseNumber(arg); err == nil {
		return numFn(uint32(n))
	}
	if labelFn == nil {
		return fmt.Errorf("this instruction has no label-taking form")
	}
	return labelFn(e.label(arg))
}

var cpuPagedNumericOnlyOps = map[string]func(*cpupaged.Assembler, uint32) error{
	"norx": (*cpupaged.Assembler).Norx,
	"addx": (*cpupaged.Assembler).Addx,
	"stx":  (*cpupaged.Assembler).Stx,
}

var cpuPagedOneArgAddrOps = map[string]func(*cpupaged.Assembler, uint32) error{
	"lda": (*cpupaged.Assembler).Lda, "ldx": (*cpupaged.Assembler).Ldx,
}

var cpuPagedNoArgOps = map[string]func(*cpupaged.Assembler) error{
	"clr": (*cpupaged.Assembler).Clr, "clrx": (*cpupaged.Assembler).Clrx,
	"not": (*cpupaged.Assembler).Not, "hlt": (*cpupaged.Assembler).Hlt,
}

// Instruction implements Emitter.
func (e *CPUPagedEmitter) Instruction(mnemonic string, args []string) error {
	a := e.ensure()
	one := func(name string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%s takes one address or label", name)
		}
		return args[0], nil
	}
	switch mnemonic {
	case "nor":
		arg, err := one("nor")
		if err != nil {
			return err
		}
		// nor/add/sta have no label-taking form in this variant's
		// backend assembler (only jcc/jnz, the instructions that
		// plausibly target code, do).
		return e.addrOrLabel(arg, a.Nor, nil)
	case "add":
		arg, err := one("add")
		if err != nil {
			return err
		}
		return e.addrOrLabel(arg, a.Add, nil)
	case "sta":
		arg, err := one("sta")
		if err != nil {
			return err
		}
		return e.addrOrLabel(arg, a.Sta, nil)
	case "jcc":
		arg, err := one("jcc")
		if err != nil {
			return err
		}
		return e.addrOrLabel(arg, a.Jcc, a.JccLabel)
	case "jnz":
		arg, err := one("jnz")
		if err != nil {
			return err
		}
		return e.addrOrLabel(arg, a.Jnz, a.JnzLabel)
	case "jmp":
		arg, err := one("jmp")
		if err != nil {
			return err
		}
		return a.JmpLabel(e.label(arg))
	}
	if fn, ok := cpuPagedNoArgOps[mnemonic]; ok {
		if len(args) != 0 {
			return fmt.Errorf("%s takes no arguments", mnemonic)
		}
		return fn(a)
	}
	if fn, ok := cpuPagedOneArgAddrOps[mnemonic]; ok {
		arg, err := one(mnemonic)
		if err != nil {
			return err
		}
		n, err := ParseNumber(arg)
		if err != nil {
			return fmt.Errorf("%s takes a numeric address: %w", mnemonic, err)
		}
		return fn(a, uint32(n))
	}
	if fn, ok := cpuPagedNumericOnlyOps[mnemonic]; ok {
		arg, err := one(mnemonic)
		if err != nil {
			return err
		}
		n, err := ParseNumber(arg)
		if err != nil {
			return fmt.Errorf("%s takes a numeric address: %w", mnemonic, err)
		}
		return fn(a, uint32(n))
	}
	return fmt.Errorf("unknown cpupaged mnemonic %q", mnemonic)
}

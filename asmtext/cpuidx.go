package asmtext

import (
	"fmt"

	"github.com/jimmo/cpld-cpu/asm"
	"github.com/jimmo/cpld-cpu/cpuidx"
)

// CPUIdxEmitter drives a cpuidx.Assembler from parsed source: the
// eight hardware primitives (nor/add/sta indexed by X, their
// norx/addx/stx unindexed X-register counterparts, and the unindexed
// jcc/jnz jumps) plus the
// derived mnemonics (clr/clrx/lda/ldx/not/notx/sub/subx/shl, the
// or/and/nand/xnor/xor logic gates, and jmp/jcs/jz/hlt).
type CPUIdxEmitter struct {
	sink   asm.Sink
	asm    *cpuidx.Assembler
	labels map[string]*asm.Label
}

// NewCPUIdxEmitter creates an emitter writing into sink, preloading
// the reserved constants the derived mnemonics depend on.
func NewCPUIdxEmitter(sink asm.Sink) *CPUIdxEmitter {
	cpuidx.Preload(sink)
	return &CPUIdxEmitter{sink: sink, labels: map[string]*asm.Label{}}
}

func (e *CPUIdxEmitter) ensure() *cpuidx.Assembler {
	if e.asm == nil {
		e.asm = cpuidx.NewAssembler(e.sink, 0)
	}
	return e.asm
}

func (e *CPUIdxEmitter) label(name string) *asm.Label {
	if l, ok := e.labels[name]; ok {
		return l
	}
	l := asm.NewLabel(name)
	e.labels[name] = l
	return l
}

// SetOrg implements Emitter.
func (e *CPUIdxEmitter) SetOrg(addr uint32) error {
	if e.asm != nil {
		return fmt.Errorf("asmtext: .org must precede the first instruction or label")
	}
	e.asm = cpuidx.NewAssembler(e.sink, addr)
	return nil
}

// Label implements Emitter.
func (e *CPUIdxEmitter) Label(name string) error {
	return e.ensure().Bind(e.label(name))
}

// Close implements Emitter.
func (e *CPUIdxEmitter) Close() error {
	if e.asm == nil {
		return nil
	}
	return e.asm.Close()
}

func (e *CPUIdxEmitter) addrOrLabel(arg string, numFn func(uint32) error, labelFn func(*asm.Label) error) error {
	if n, err := ParseNumber(arg); err == nil {
		return numFn(uint32(n))
	}
	return labelFn(e.label(arg))
}

func (e *CPUIdxEmitter) numArg(mnemonic string, args []string) (uint32, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s takes one numeric address", mnemonic)
	}
	n, err := ParseNumber(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s takes a numeric address: %w", mnemonic, err)
	}
	return uint32(n), nil
}

var cpuIdxUnindexedAddrOps = map[string]func(*cpuidx.Assembler, uint32) error{
	"norx": (*cpuidx.Assembler).Norx,
	"addx": (*cpuidx.Assembler).Addx,
}

var cpuIdxOneArgAddrOps = map[string]func(*cpuidx.Assembler, uint32) error{
	"lda": (*cpuidx.Assembler).Lda, "ldx": (*cpuidx.Assembler).Ldx,
	"sub": (*cpuidx.Assembler).Sub, "subx": (*cpuidx.Assembler).Subx,
	"shl": (*cpuidx.Assembler).Shl,
	"or":  (*cpuidx.Assembler).Or, "and": (*cpuidx.Assembler).And,
	"nand": (*cpuidx.Assembler).Nand, "xnor": (*cpuidx.Assembler).Xnor,
	"xor": (*cpuidx.Assembler).Xor,
}

var cpuIdxNoArgOps = map[string]func(*cpuidx.Assembler) error{
	"clr": (*cpuidx.Assembler).Clr, "clrx": (*cpuidx.Assembler).Clrx,
	"not": (*cpuidx.Assembler).Not, "notx": (*cpuidx.Assembler).Notx,
	"hlt": (*cpuidx.Assembler).Hlt,
}

// Instruction implements Emitter.
func (e *CPUIdxEmitter) Instruction(mnemonic string, args []string) error {
	a := e.ensure()
	one := func(name string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%s takes one address or label", name)
		}
		return args[0], nil
	}
	switch mnemonic {
	case "nor":
		// nor and add have no label-taking form in this variant's
		// backend assembler (only the instructions that plausibly
		// target code, sta/jcc/jnz/stx, do).
		n, err := e.numArg("nor", args)
		if err != nil {
			return err
		}
		return a.Nor(n)
	case "add":
		n, err := e.numArg("add", args)
		if err != nil {
			return err
		}
		return a.Add(n)
	case "sta":
		arg, err := one("sta")
		if err != nil {
			return err
		}
		return e.addrOrLabel(arg, a.Sta, a.StaLabel)
	case "stx":
		arg, err := one("stx")
		if err != nil {
			return err
		}
		return e.addrOrLabel(arg, a.Stx, a.StxLabel)
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
	case "jcs":
		arg, err := one("jcs")
		if err != nil {
			return err
		}
		return a.JcsLabel(e.label(arg))
	case "jz":
		arg, err := one("jz")
		if err != nil {
			return err
		}
		return a.JzLabel(e.label(arg))
	}
	if fn, ok := cpuIdxNoArgOps[mnemonic]; ok {
		if len(args) != 0 {
			return fmt.Errorf("%s takes no arguments", mnemonic)
		}
		return fn(a)
	}
	if fn, ok := cpuIdxOneArgAddrOps[mnemonic]; ok {
		n, err := e.numArg(mnemonic, args)
		if err != nil {
			return err
		}
		return fn(a, n)
	}
	if fn, ok := cpuIdxUnindexedAddrOps[mnemonic]; ok {
		n, err := e.numArg(mnemonic, args)
		if err != nil {
			return err
		}
		return fn(a, n)
	}
	return fmt.Errorf("unknown cpuidx mnemonic %q", mnemonic)
}

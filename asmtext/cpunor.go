package asmtext

import (
	"fmt"

	"github.com/jimmo/cpld-cpu/asm"
	"github.com/jimmo/cpld-cpu/cpunor"
)

// CPUNorEmitter drives a cpunor.Assembler from parsed source: the
// four hardware primitives (nor/add/sta/jcc, each taking either a
// numeric RAM address or a label) plus the derived mnemonics
// (clr/lda/not/sub/shl/jmp/jcs/hlt) built on top of them.
type CPUNorEmitter struct {
	sink   asm.Sink
	asm    *cpunor.Assembler
	labels map[string]*asm.Label
}

// NewCPUNorEmitter creates an emitter writing into sink, preloading
// the reserved zero/one/all-ones constants the derived mnemonics
// depend on.
func NewCPUNorEmitter(sink asm.Sink) *CPUNorEmitter {
	cpunor.Preload(sink)
	return &CPUNorEmitter{sink: sink, labels: map[string]*asm.Label{}}
}

func (e *CPUNorEmitter) ensure() *cpunor.Assembler {
	if e.asm == nil {
		e.asm = cpunor.NewAssembler(e.sink, 0)
	}
	return e.asm
}

func (e *CPUNorEmitter) label(name string) *asm.Label {
	if l, ok := e.labels[name]; ok {
		return l
	}
	l := asm.NewLabel(name)
	e.labels[name] = l
	return l
}

// SetOrg implements Emitter.
func (e *CPUNorEmitter) SetOrg(addr uint32) error {
	if e.asm != nil {
		return fmt.Errorf("asmtext: .org must precede the first instruction or label")
	}
	e.asm = cpunor.NewAssembler(e.sink, addr)
	return nil
}

// Label implements Emitter.
func (e *CPUNorEmitter) Label(name string) error {
	return e.ensure().Bind(e.label(name))
}

// Close implements Emitter.
func (e *CPUNorEmitter) Close() error {
	if e.asm == nil {
		return nil
	}
	return e.asm.Close()
}

func (e *CPUNorEmitter) addrOrLabel(arg string, numFn func(uint32) error, labelFn func(*asm.Label) error) error {
	if n, err := ParseNumber(arg); err == nil {
		return numFn(uint32(n))
	}
	return labelFn(e.label(arg))
}

// Instruction implements Emitter.
func (e *CPUNorEmitter) Instruction(mnemonic string, args []string) error {
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
		return e.addrOrLabel(arg, a.Nor, a.NorLabel)
	case "add":
		arg, err := one("add")
		if err != nil {
			return err
		}
		return e.addrOrLabel(arg, a.Add, a.AddLabel)
	case "sta":
		arg, err := one("sta")
		if err != nil {
			return err
		}
		return e.addrOrLabel(arg, a.Sta, a.StaLabel)
	case "jcc":
		arg, err := one("jcc")
		if err != nil {
			return err
		}
		return e.addrOrLabel(arg, a.Jcc, a.JccLabel)
	case "clr":
		return a.Clr()
	case "lda":
		arg, err := one("lda")
		if err != nil {
			return err
		}
		n, err := ParseNumber(arg)
		if err != nil {
			return fmt.Errorf("lda takes a numeric address: %w", err)
		}
		return a.Lda(uint32(n))
	case "not":
		return a.Not()
	case "sub":
		arg, err := one("sub")
		if err != nil {
			return err
		}
		n, err := ParseNumber(arg)
		if err != nil {
			return fmt.Errorf("sub takes a numeric address: %w", err)
		}
		return a.Sub(uint32(n))
	case "shl":
		arg, err := one("shl")
		if err != nil {
			return err
		}
		n, err := ParseNumber(arg)
		if err != nil {
			return fmt.Errorf("shl takes a numeric address: %w", err)
		}
		return a.Shl(uint32(n))
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
	case "hlt":
		return a.Hlt()
	}
	return fmt.Errorf("unknown cpunor mnemonic %q", mnemonic)
}

package asmtext

import (
	"fmt"

	"github.com/jimmo/cpld-cpu/asm"
	"github.com/jimmo/cpld-cpu/cpu8"
)

// CPU8Emitter drives a cpu8.Assembler from parsed source. Mnemonic
// names and the alu_*/jmp_* dispatch tables are transcribed from
// original_source/pysim/asm.py's AssemblerTransformer.op, including
// its trick of synthesizing the complementary jump conditions
// (jnz, jne, jp, jges, jnc, jgeu, jno) by emitting an inv before
// reusing the true condition's t code. cpu8's inv flips only the Z
// flag, so only jnz/jne get a complemented flag this way; and the
// cpu8 decoder does not decode the t field, so every emitted jump is
// taken.
type CPU8Emitter struct {
	sink   asm.Sink
	asm    *cpu8.Assembler
	labels map[string]*asm.Label
}

// NewCPU8Emitter creates an emitter writing into sink.
func NewCPU8Emitter(sink asm.Sink) *CPU8Emitter {
	return &CPU8Emitter{sink: sink, labels: map[string]*asm.Label{}}
}

func (e *CPU8Emitter) ensure() *cpu8.Assembler {
	if e.asm == nil {
		e.asm = cpu8.NewAssembler(e.sink, 0)
	}
	return e.asm
}

func (e *CPU8Emitter) label(name string) *asm.Label {
	if l, ok := e.labels[name]; ok {
		return l
	}
	l := asm.NewLabel(name)
	e.labels[name] = l
	return l
}

// SetOrg implements Emitter.
func (e *CPU8Emitter) SetOrg(addr uint32) error {
	if e.asm != nil {
		return fmt.Errorf("asmtext: .org must precede the first instruction or label")
	}
	e.asm = cpu8.NewAssembler(e.sink, addr)
	return nil
}

// Label implements Emitter.
func (e *CPU8Emitter) Label(name string) error {
	return e.ensure().Bind(e.label(name))
}

// Close implements Emitter.
func (e *CPU8Emitter) Close() error {
	if e.asm == nil {
		return nil
	}
	return e.asm.Close()
}

var cpu8AluOps = map[string]func(*cpu8.Assembler, string) error{
	"alu_not": (*cpu8.Assembler).AluNot, "not": (*cpu8.Assembler).AluNot,
	"alu_xor": (*cpu8.Assembler).AluXor, "xor": (*cpu8.Assembler).AluXor,
	"alu_or": (*cpu8.Assembler).AluOr, "or": (*cpu8.Assembler).AluOr,
	"alu_and": (*cpu8.Assembler).AluAnd, "and": (*cpu8.Assembler).AluAnd,
	"alu_add": (*cpu8.Assembler).AluAdd, "add": (*cpu8.Assembler).AluAdd,
	"alu_sub": (*cpu8.Assembler).AluSub, "sub": (*cpu8.Assembler).AluSub,
	"alu_shl": (*cpu8.Assembler).AluShl, "shl": (*cpu8.Assembler).AluShl,
	"alu_shr": (*cpu8.Assembler).AluShr, "shr": (*cpu8.Assembler).AluShr,
	"alu_inc": (*cpu8.Assembler).AluInc, "inc": (*cpu8.Assembler).AluInc,
	"alu_dec": (*cpu8.Assembler).AluDec, "dec": (*cpu8.Assembler).AluDec,
	"alu_neg": (*cpu8.Assembler).AluNeg, "neg": (*cpu8.Assembler).AluNeg,
	"alu_rol": (*cpu8.Assembler).AluRol, "rol": (*cpu8.Assembler).AluRol,
	"alu_ror": (*cpu8.Assembler).AluRor, "ror": (*cpu8.Assembler).AluRor,
}

// jmpCond is one named jump mnemonic's t code and whether an inv
// (AluInv, which flips the Z flag) is emitted first for the
// complementary condition (asm.py's jmp_jnz/jne/jp/jges/jnc/jgeu/jno).
type jmpCond struct {
	t    uint8
	invA bool
}

var cpu8Jumps = map[string]jmpCond{
	"jmp": {0, false},
	"jz":  {1, false}, "je": {1, false},
	"jnz": {1, true}, "jne": {1, true},
	"jn": {2, false}, "jp": {2, true},
	"jls": {3, false}, "jges": {3, true},
	"jc": {4, false}, "jlu": {4, false}, "jnc": {4, true}, "jgeu": {4, true},
	"jo": {5, false}, "jno": {5, true},
}

// Instruction implements Emitter.
func (e *CPU8Emitter) Instruction(mnemonic string, args []string) error {
	a := e.ensure()
	switch mnemonic {
	case "load":
		if len(args) != 2 {
			return fmt.Errorf("load takes a register and a nibble")
		}
		n, err := ParseNumber(args[1])
		if err != nil {
			return err
		}
		return a.Load(args[0], uint8(n))
	case "load8":
		if len(args) != 2 {
			return fmt.Errorf("load8 takes a register and a byte")
		}
		n, err := ParseNumber(args[1])
		if err != nil {
			return err
		}
		return a.Load8(args[0], uint8(n))
	case "load16":
		if len(args) != 2 {
			return fmt.Errorf("load16 takes a register pair and a word")
		}
		n, err := ParseNumber(args[1])
		if err != nil {
			return err
		}
		return a.Load16(args[0], uint16(n))
	case "loadlabel", "load_label":
		if len(args) != 2 {
			return fmt.Errorf("loadlabel takes a register pair and a label")
		}
		return a.LoadLabel(args[0], e.label(args[1]))
	case "mov":
		if len(args) != 2 {
			return fmt.Errorf("mov takes a destination and a source")
		}
		return a.Mov(args[0], args[1])
	case "mov16":
		if len(args) != 2 {
			return fmt.Errorf("mov16 takes a destination and a source pair")
		}
		return a.Mov16(args[0], args[1])
	case "rmem":
		if len(args) != 2 {
			return fmt.Errorf("rmem takes a destination register and an address pair")
		}
		return a.Rmem(args[0], args[1])
	case "wmem":
		if len(args) != 2 {
			return fmt.Errorf("wmem takes an address pair and a source register")
		}
		return a.Wmem(args[1], args[0])
	case "cmp", "alu_cmp":
		return a.AluCmp()
	case "clf", "alu_clf":
		return a.AluClf()
	case "inv", "alu_inv":
		return a.AluInv()
	case "hlt":
		return a.Hlt()
	}
	if fn, ok := cpu8AluOps[mnemonic]; ok {
		if len(args) != 1 {
			return fmt.Errorf("%s takes one destination register", mnemonic)
		}
		return fn(a, args[0])
	}
	if cond, ok := cpu8Jumps[mnemonic]; ok {
		if len(args) != 1 {
			return fmt.Errorf("%s takes one address register pair", mnemonic)
		}
		if cond.invA {
			if err := a.AluInv(); err != nil {
				return err
			}
		}
		return a.Jmp(args[0], cond.t)
	}
	return fmt.Errorf("unknown cpu8 mnemonic %q", mnemonic)
}

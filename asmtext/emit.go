package asmtext

import "fmt"

// Emitter drives one CPU variant's mnemonic-level Assembler from a
// parsed Program. Each variant's adapter (CPU8Emitter, CPUNorEmitter,
// CPUIdxEmitter, CPUPagedEmitter) owns a lazily-created backend
// Assembler plus a name-keyed label table, mirroring
// original_source/pysim/asm.py's AssemblerTransformer.labels
// defaultdict.
type Emitter interface {
	// SetOrg sets the assembler's start address. Valid only before
	// the first instruction or label is emitted.
	SetOrg(addr uint32) error
	// Label binds name at the current cursor.
	Label(name string) error
	// Instruction assembles one mnemonic with its argument tokens.
	Instruction(mnemonic string, args []string) error
	// Close reports the first label referenced but never bound.
	Close() error
}

// PageSetter is implemented by Emitters whose variant supports the
// `.page name target` directive (the paged-memory variant's bank
// assignment). Variants without banked memory don't implement it;
// Assemble reports an error if a program uses .page against one.
type PageSetter interface {
	SetPage(name string, target uint32) error
}

// Assemble walks prog, driving e for every statement. It returns the
// first error encountered: an error from a statement is wrapped as an
// *Error carrying that statement's source line, while an error from
// e.Close (an unbound label) is returned as is, with no line.
func Assemble(prog *Program, e Emitter) error {
	for _, s := range prog.Stmts {
		if s.Label != "" {
			if err := e.Label(s.Label); err != nil {
				return &Error{Line: s.Line, Msg: err.Error()}
			}
		}
		switch {
		case s.Directive == "org":
			if len(s.Args) != 1 {
				return &Error{Line: s.Line, Msg: ".org takes exactly one address"}
			}
			addr, err := ParseNumber(s.Args[0])
			if err != nil {
				return &Error{Line: s.Line, Msg: err.Error()}
			}
			if err := e.SetOrg(uint32(addr)); err != nil {
				return &Error{Line: s.Line, Msg: err.Error()}
			}
		case s.Directive == "page":
			ps, ok := e.(PageSetter)
			if !ok {
				return &Error{Line: s.Line, Msg: "this cpu variant has no banked pages"}
			}
			if len(s.Args) != 2 {
				return &Error{Line: s.Line, Msg: ".page takes a name and a target bank"}
			}
			target, err := ParseNumber(s.Args[1])
			if err != nil {
				return &Error{Line: s.Line, Msg: err.Error()}
			}
			if err := ps.SetPage(s.Args[0], uint32(target)); err != nil {
				return &Error{Line: s.Line, Msg: err.Error()}
			}
		case s.Directive != "":
			return &Error{Line: s.Line, Msg: fmt.Sprintf("unknown directive %q", s.Directive)}
		case s.Mnemonic != "":
			if err := e.Instruction(s.Mnemonic, s.Args); err != nil {
				return &Error{Line: s.Line, Msg: err.Error()}
			}
		}
	}
	if err := e.Close(); err != nil {
		return err
	}
	return nil
}

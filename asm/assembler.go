// Package asm provides the address-and-label bookkeeping shared by
// every CPU variant's instruction encoder: a byte cursor into a ROM
// image, and a label type that can be referenced before it is placed.
// Each variant (cpu8, cpunor, cpuidx, cpupaged) builds its own
// mnemonic-level encoder on top of this core, the way the original
// simulator's per-variant Assembler classes did.
package asm

import "fmt"

// Sink is the byte-addressable destination an Assembler writes into,
// satisfied directly by a *parts.ROM's Rom field via RomSink.
type Sink interface {
	Set(addr uint32, v uint8)
}

// RomSink adapts a plain []uint8 (such as a parts.ROM's Rom field) to
// Sink.
type RomSink []uint8

// Set implements Sink.
func (s RomSink) Set(addr uint32, v uint8) { s[addr] = v }

// Label names a not-yet-placed address. It is allocated the first
// time code refers to it, bound exactly once by Bind, and every
// reference made before binding is patched retroactively once Bind
// runs. Referencing a Label that is never bound is an error, reported
// by Close.
type Label struct {
	name   string
	addr   *uint32
	fixups []func(a *Assembler)
}

// NewLabel creates a named, unbound label.
func NewLabel(name string) *Label {
	return &Label{name: name}
}

// Name returns the label's name, for error messages.
func (l *Label) Name() string { return l.name }

// Bound reports whether the label has been placed by Bind.
func (l *Label) Bound() bool { return l.addr != nil }

// Addr returns the label's bound address. It panics if called before
// the label is bound; callers that might run before binding should
// check Bound first, or defer through Reserve's fixup callback, which
// only runs once binding has happened.
func (l *Label) Addr() uint32 {
	if l.addr == nil {
		panic(fmt.Sprintf("asm: label %q read before it was bound", l.name))
	}
	return *l.addr
}

// Assembler assembles bytes into a Sink from an advancing cursor,
// tracking every label referenced through Reserve so Close can report
// one that was never bound.
type Assembler struct {
	sink   Sink
	addr   uint32
	labels []*Label
}

// New creates an assembler that writes into sink starting at addr.
func New(sink Sink, addr uint32) *Assembler {
	return &Assembler{sink: sink, addr: addr}
}

// Addr returns the assembler's current write cursor.
func (a *Assembler) Addr() uint32 { return a.addr }

// Write emits one byte at the cursor and advances it by one.
func (a *Assembler) Write(v uint8) {
	a.sink.Set(a.addr, v)
	a.addr++
}

// Bind places l at the assembler's current cursor and runs every
// fixup recorded against it while unbound. Binding an already-bound
// label is an error.
func (a *Assembler) Bind(l *Label) error {
	if l.Bound() {
		return fmt.Errorf("asm: label %q redefined at %#x (first bound at %#x)", l.name, a.addr, l.Addr())
	}
	addr := a.addr
	l.addr = &addr
	fixups := l.fixups
	l.fixups = nil
	for _, f := range fixups {
		f(a)
	}
	return nil
}

// Reserve records n bytes of placeholder space for an eventual
// reference to l, and registers fixup to run against an Assembler
// positioned at that reserved space: immediately, if l is already
// bound, or deferred until Bind(l) runs otherwise. Either way it
// advances this assembler's own cursor past the reservation
// immediately, so straight-line code following the reference assembles
// at the right address regardless of when the fixup actually runs.
func (a *Assembler) Reserve(n uint32, l *Label, fixup func(a *Assembler)) {
	a.labels = append(a.labels, l)
	fix := New(a.sink, a.addr)
	if l.Bound() {
		fixup(fix)
	} else {
		l.fixups = append(l.fixups, func(*Assembler) { fixup(fix) })
	}
	a.addr += n
}

// Close reports an error naming the first label referenced through
// this assembler that was never bound. Call it once a program (or a
// self-contained scope within one) is fully assembled.
func (a *Assembler) Close() error {
	for _, l := range a.labels {
		if !l.Bound() {
			return fmt.Errorf("asm: undefined label %q", l.name)
		}
	}
	return nil
}

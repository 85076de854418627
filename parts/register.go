package parts

import "github.com/jimmo/cpld-cpu/circuit"

// Register latches Data on a 0->1 edge of We, and while Oe is high
// drives Data back out with the latched state. State is always driven
// with the latched value regardless of Oe, for direct read-out by
// components that don't share the Data bus (e.g. an ALU input).
type Register struct {
	circuit.Base
	mod uint32
	v   uint32

	Data *circuit.Signal
	We   *circuit.Signal
	Oe   *circuit.Signal
	State *circuit.Signal
}

// NewRegister creates a plain register of the given bit width.
func NewRegister(name string, width int) *Register {
	r := &Register{Base: circuit.NewBase(name), mod: uint32(1) << uint(width)}
	r.Data = circuit.NewSignal(r, "data", width)
	r.We = circuit.NewNotifySignal(r, "we", 1)
	r.Oe = circuit.NewNotifySignal(r, "oe", 1)
	r.State = circuit.NewSignal(r, "state", width)
	return r
}

// Reset zeroes the register and releases Data.
func (r *Register) Reset() {
	r.v = 0
	r.State.Drive(r.v)
	r.Data.Release()
}

// Value returns the register's current latched value.
func (r *Register) Value() uint32 { return r.v }

// Update implements circuit.Component.
func (r *Register) Update(s *circuit.Signal) {
	if r.We.HadEdge(1) {
		r.v = r.Data.Value() % r.mod
	}
	r.State.Drive(r.v)
	if r.Oe.Value() == 1 {
		r.Data.Drive(r.v)
	} else {
		r.Data.Release()
	}
}

// SplitRegister is a Register whose We is load_width-wide: bit i of We
// gates loading of the i-th loadWidth-bit slice of Data into that
// slice of the register, independently of the other slices. It is
// used so a CPU can load a register's low and high nibbles with two
// separate immediate instructions.
type SplitRegister struct {
	circuit.Base
	width     int
	loadWidth int
	v         uint32

	Data  *circuit.Signal
	We    *circuit.Signal
	Oe    *circuit.Signal
	State *circuit.Signal
}

// NewSplitRegister creates a register of the given width whose We
// signal has width/loadWidth bits, each independently gating a
// loadWidth-bit slice load.
func NewSplitRegister(name string, width, loadWidth int) *SplitRegister {
	if width%loadWidth != 0 {
		panic("circuit: split register width must be a multiple of loadWidth")
	}
	r := &SplitRegister{Base: circuit.NewBase(name), width: width, loadWidth: loadWidth}
	r.Data = circuit.NewSignal(r, "data", width)
	r.We = circuit.NewNotifySignal(r, "we", width/loadWidth)
	r.Oe = circuit.NewNotifySignal(r, "oe", 1)
	r.State = circuit.NewSignal(r, "state", width)
	return r
}

// Reset zeroes the register and releases Data.
func (r *SplitRegister) Reset() {
	r.v = 0
	r.State.Drive(r.v)
	r.Data.Release()
}

// Value returns the register's current latched value.
func (r *SplitRegister) Value() uint32 { return r.v }

// Update implements circuit.Component.
func (r *SplitRegister) Update(s *circuit.Signal) {
	mask := uint32(1)<<uint(r.loadWidth) - 1
	for i := 0; i < r.width/r.loadWidth; i++ {
		if r.We.BitHadEdge(i, 1) {
			shift := uint(i * r.loadWidth)
			r.v = (r.v &^ (mask << shift)) | (((r.Data.Value() >> shift) & mask) << shift)
		}
	}
	r.State.Drive(r.v)
	if r.Oe.Value() == 1 {
		r.Data.Drive(r.v)
	} else {
		r.Data.Release()
	}
}

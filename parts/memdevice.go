package parts

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/jimmo/cpld-cpu/circuit"
)

// MemoryDevice is a chained I/O decoder: if Addr falls in
// [Base, Base+Size) it intercepts the transfer (calling OnWrite/
// OnRead and suppressing OeOut/WeOut to anything downstream); outside
// that range it forwards Oe/We unchanged to OeOut/WeOut so the next
// device (or RAM) in the chain can respond.
type MemoryDevice struct {
	circuit.Base
	Base_ uint32
	Size  uint32

	OnRead  func(offset uint32) uint8
	OnWrite func(offset uint32, v uint8)

	Addr  *circuit.Signal
	Data  *circuit.Signal
	We    *circuit.Signal
	Oe    *circuit.Signal
	OeOut *circuit.Signal
	WeOut *circuit.Signal
}

// NewMemoryDevice creates a memory-mapped device occupying
// [base, base+size) of a bus addrWidth bits wide.
func NewMemoryDevice(name string, addrWidth int, base, size uint32) *MemoryDevice {
	m := &MemoryDevice{Base: circuit.NewBase(name), Base_: base, Size: size}
	m.Addr = circuit.NewNotifySignal(m, "addr", addrWidth)
	m.Data = circuit.NewNotifySignal(m, "data", 8)
	m.We = circuit.NewNotifySignal(m, "we", 1)
	m.Oe = circuit.NewNotifySignal(m, "oe", 1)
	m.OeOut = circuit.NewSignal(m, "oe_out", 1)
	m.WeOut = circuit.NewSignal(m, "we_out", 1)
	return m
}

// Reset releases Data and forwards nothing downstream yet.
func (m *MemoryDevice) Reset() {
	m.Data.Release()
	m.OeOut.Drive(0)
	m.WeOut.Drive(0)
}

// Update implements circuit.Component.
func (m *MemoryDevice) Update(s *circuit.Signal) {
	addr := m.Addr.Value()
	inRange := addr >= m.Base_ && addr < m.Base_+m.Size
	if !inRange {
		m.Data.Release()
		m.OeOut.Drive(m.Oe.Value())
		m.WeOut.Drive(m.We.Value())
		return
	}
	offset := addr - m.Base_
	if m.We.HadEdge(1) && m.OnWrite != nil {
		m.OnWrite(offset, uint8(m.Data.Value()))
	}
	if m.Oe.Value() == 1 && m.OnRead != nil {
		m.Data.Drive(uint32(m.OnRead(offset)))
	} else {
		m.Data.Release()
	}
	m.OeOut.Drive(0)
	m.WeOut.Drive(0)
}

// MemDisplay is a two-cell MemoryDevice: cell 0 latches a byte to
// print, cell 1 is a trigger line. Writing a value to cell 1 that
// differs from its previous value prints cell 0's latched value to
// Writer (one line, decimal).
type MemDisplay struct {
	*MemoryDevice
	Writer io.Writer

	latch   uint8
	trigger uint8
}

// NewMemDisplay creates a display device at the given base address.
func NewMemDisplay(name string, addrWidth int, base uint32) *MemDisplay {
	d := &MemDisplay{Writer: os.Stdout}
	d.MemoryDevice = NewMemoryDevice(name, addrWidth, base, 2)
	d.OnWrite = func(offset uint32, v uint8) {
		if offset == 0 {
			d.latch = v
			return
		}
		if v != d.trigger {
			fmt.Fprintf(d.Writer, "%d\n", d.latch)
		}
		d.trigger = v
	}
	d.OnRead = func(offset uint32) uint8 {
		if offset == 0 {
			return d.latch
		}
		return d.trigger
	}
	return d
}

// RNG is a one-cell MemoryDevice that returns a uniform random byte on
// every read; writes are ignored.
type RNG struct {
	*MemoryDevice
	rand *rand.Rand
}

// NewRNG creates a random-number device at the given base address,
// seeded from src (use rand.NewSource(time.Now().UnixNano()) for a
// non-deterministic run, or a fixed seed for reproducible tests).
func NewRNG(name string, addrWidth int, base uint32, src rand.Source) *RNG {
	r := &RNG{rand: rand.New(src)}
	r.MemoryDevice = NewMemoryDevice(name, addrWidth, base, 1)
	r.OnRead = func(offset uint32) uint8 {
		return uint8(r.rand.Intn(256))
	}
	r.OnWrite = func(offset uint32, v uint8) {}
	return r
}

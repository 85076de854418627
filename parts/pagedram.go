package parts

import "github.com/jimmo/cpld-cpu/circuit"

// PagedRamController maps the high bits of InAddr to a physical bank
// via a small page table, for CPU variants whose address space is
// wider than the instruction set's native addressing. When We pulses
// with InAddr in [regBase, regBase+numPages), it writes Data into the
// page table slot (InAddr - regBase). It always drives OutAddr from
// the table entry selected by InAddr's high bits; the caller
// concatenates OutAddr with InAddr's low bits upstream to form the
// physical RAM address.
type PagedRamController struct {
	circuit.Base
	addrWidth int
	pageBits  uint
	regBase   uint32
	numPages  int
	table     []uint32

	InAddr  *circuit.Signal
	We      *circuit.Signal
	Data    *circuit.Signal
	OutAddr *circuit.Signal
}

// NewPagedRamController creates a page table covering 2^addrWidth
// logical addresses split into numPages (a power of two) pages, whose
// bank-select registers start at regBase; each table entry is
// outWidth bits of physical bank number.
func NewPagedRamController(name string, addrWidth, numPages, regBase, outWidth int) *PagedRamController {
	pageBits := uint(0)
	for (1 << pageBits) < numPages {
		pageBits++
	}
	p := &PagedRamController{
		Base:      circuit.NewBase(name),
		addrWidth: addrWidth,
		pageBits:  pageBits,
		regBase:   uint32(regBase),
		numPages:  numPages,
		table:     make([]uint32, numPages),
	}
	p.InAddr = circuit.NewNotifySignal(p, "in_addr", addrWidth)
	p.We = circuit.NewNotifySignal(p, "we", 1)
	p.Data = circuit.NewNotifySignal(p, "data", 8)
	p.OutAddr = circuit.NewSignal(p, "out_addr", outWidth)
	return p
}

// Reset drives OutAddr from the (zeroed) page table; it does not
// clear previously-programmed page table entries.
func (p *PagedRamController) Reset() {
	p.recompute()
}

// Update implements circuit.Component.
func (p *PagedRamController) Update(s *circuit.Signal) {
	if p.We.HadEdge(1) {
		addr := p.InAddr.Value()
		if addr >= p.regBase && addr < p.regBase+uint32(p.numPages) {
			p.table[addr-p.regBase] = p.Data.Value()
		}
	}
	p.recompute()
}

func (p *PagedRamController) recompute() {
	idx := p.InAddr.Value() >> (uint(p.addrWidth) - p.pageBits)
	p.OutAddr.Drive(p.table[idx])
}

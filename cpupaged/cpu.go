package cpupaged

import (
	"math/rand"

	"github.com/jimmo/cpld-cpu/circuit"
	"github.com/jimmo/cpld-cpu/parts"
)

// Address-space layout: a 13-bit logical address (0-8191), of which
// the bottom 12 bits pass straight through to physical RAM and the
// top bit selects one of two banked pages; the page table's own
// select registers, the RNG and the display are memory-mapped at
// fixed physical addresses near the top of the low 4096-byte window.
const (
	physAddrWidth = 20
	logAddrWidth  = 13
	numPages      = 2
	pageRegBase   = 1<<12 - 7
	rngAddr       = 1<<12 - 6
	displayAddr   = 1<<12 - 5
)

// PageRegBase is the logical address of the first bank-select
// register (numPages consecutive cells starting here), exported so an
// assembler front-end can program page table entries at assembly
// time the same way Preload writes other reserved constants.
const PageRegBase = pageRegBase

// CPU is the fully wired paged-memory machine.
type CPU struct {
	Sim     *circuit.Sim
	Decoder *Decoder
	ALU     *ALU
	AxAlu   *parts.Multiplexer
	Acc     *AccumulatorRegister
	X       *parts.IORegister
	IR      *parts.IORegister
	AR      *parts.IORegister
	PCL     *parts.IncRegister
	PCH     *parts.IncRegister
	RamIdx  *RamIndex
	Paged   *parts.PagedRamController
	Display *parts.MemDisplay
	RNG     *parts.RNG
	RAM     *parts.RAM
	Clock   *parts.Clock
}

// New wires a complete paged CPU netlist. src seeds the hardware
// random-number generator; pass a fixed rand.NewSource for
// reproducible runs.
func New(src rand.Source) *CPU {
	sim := circuit.NewSim()
	c := &CPU{Sim: sim}

	c.Decoder = sim.Add(NewDecoder()).(*Decoder)
	c.ALU = sim.Add(NewALU()).(*ALU)
	c.AxAlu = sim.Add(parts.NewMultiplexer("ax_alu", 8)).(*parts.Multiplexer)
	c.Acc = sim.Add(NewAccumulatorRegister()).(*AccumulatorRegister)
	c.X = sim.Add(parts.NewIORegister("x", 8)).(*parts.IORegister)
	c.IR = sim.Add(parts.NewIORegister("ir", 8)).(*parts.IORegister)
	c.AR = sim.Add(parts.NewIORegister("ar", 8)).(*parts.IORegister)
	c.PCL = sim.Add(parts.NewIncRegister("pcl", 8)).(*parts.IncRegister)
	c.PCH = sim.Add(parts.NewIncRegister("pch", 5)).(*parts.IncRegister)
	c.RamIdx = sim.Add(NewRamIndex()).(*RamIndex)
	c.Paged = sim.Add(parts.NewPagedRamController("paged_ram", logAddrWidth, numPages, pageRegBase, physAddrWidth-12)).(*parts.PagedRamController)
	c.Display = sim.Add(parts.NewMemDisplay("display", physAddrWidth, displayAddr)).(*parts.MemDisplay)
	c.RNG = sim.Add(parts.NewRNG("rng", physAddrWidth, rngAddr, src)).(*parts.RNG)
	c.RAM = sim.Add(parts.NewRAM("ram", physAddrWidth, 8)).(*parts.RAM)
	c.Clock = sim.Add(parts.NewClock(1)).(*parts.Clock)

	sim.MustConnect("clk", c.Decoder.Clk, c.Clock.Clk)

	sim.MustConnect("ram_index_addr_lo", c.RamIdx.Addr.Slice(0, 8), c.AR.Out, c.PCL.Out)
	sim.MustConnect("ram_index_addr_hi", c.RamIdx.Addr.Slice(8, 12), c.IR.Out.Slice(0, 4), c.PCH.Out.Slice(0, 4))
	sim.MustConnect("ram_index_x", c.RamIdx.X, c.X.State)
	sim.MustConnect("idx_en", c.RamIdx.En, c.Decoder.IdxEn)
	sim.MustConnect("paged_in_lo", c.Paged.InAddr.Slice(0, 12), c.RamIdx.Out)
	sim.MustConnect("paged_in_hi", c.Paged.InAddr.Slice(12, 13), c.IR.Out.Slice(4, 5), c.PCH.Out.Slice(4, 5))
	sim.MustConnect("paged_we", c.Paged.We, c.Decoder.RamWe)

	sim.MustConnect("ram_addr", c.RAM.Addr, c.Display.Addr, c.RNG.Addr)
	sim.MustConnect("ram_addr_lo", c.RAM.Addr.Slice(0, 12), c.Paged.InAddr.Slice(0, 12))
	sim.MustConnect("ram_addr_hi", c.RAM.Addr.Slice(12, 20), c.Paged.OutAddr)

	sim.MustConnect("pc_oe", c.PCL.Oe, c.PCH.Oe, c.Decoder.PcOe)
	sim.MustConnect("ir_oe", c.IR.Oe, c.Decoder.IrOe)
	sim.MustConnect("ar_oe", c.AR.Oe, c.Decoder.ArOe)

	sim.MustConnect("ram_data", c.RAM.Data, c.Display.Data, c.RNG.Data,
		c.IR.Inp, c.AR.Inp, c.ALU.B, c.Acc.Out.Slice(0, 8), c.X.Out, c.Paged.Data)

	sim.MustConnect("alu_out_acc", c.ALU.Out, c.Acc.Inp)
	sim.MustConnect("alu_out_x", c.ALU.Out.Slice(0, 8), c.X.Inp)

	sim.MustConnect("ar_we", c.AR.We, c.Decoder.ArWe)
	sim.MustConnect("ir_we", c.IR.We, c.Decoder.IrWe)
	sim.MustConnect("pc_we", c.PCL.We, c.PCH.We, c.Decoder.PcWe)
	sim.MustConnect("pc_inc", c.PCL.Inc, c.Decoder.PcInc)
	sim.MustConnect("pch_inc", c.PCH.Inc, c.PCL.Carry)

	sim.MustConnect("instr", c.Decoder.Instr, c.IR.State.Slice(5, 8))
	sim.MustConnect("pcl_inp", c.PCL.Inp, c.AR.State)
	sim.MustConnect("pch_inp", c.PCH.Inp, c.IR.State.Slice(0, 5))

	sim.MustConnect("a_cc", c.Acc.Cc, c.Decoder.ACc)

	sim.MustConnect("ram_oe", c.Display.Oe, c.Decoder.RamOe)
	sim.MustConnect("rng_oe", c.RNG.Oe, c.Display.OeOut)
	sim.MustConnect("phys_oe", c.RAM.Oe, c.RNG.OeOut)

	sim.MustConnect("ram_we", c.Display.We, c.Decoder.RamWe)
	sim.MustConnect("rng_we", c.RNG.We, c.Display.WeOut)
	sim.MustConnect("phys_we", c.RAM.We, c.RNG.WeOut)

	sim.MustConnect("a_oe", c.Acc.Oe, c.Decoder.AOe)
	sim.MustConnect("a_we", c.Acc.We, c.Decoder.AWe)
	sim.MustConnect("x_oe", c.X.Oe, c.Decoder.XOe)
	sim.MustConnect("x_we", c.X.We, c.Decoder.XWe)

	sim.MustConnect("alu_oe", c.ALU.Oe, c.Decoder.AluOe)
	sim.MustConnect("alu_we", c.ALU.We, c.Decoder.AluWe)

	sim.MustConnect("carry", c.Decoder.Carry, c.Acc.State.Slice(8, 9))
	sim.MustConnect("z", c.Decoder.Z, c.Acc.Z)

	sim.MustConnect("ax_alu_a", c.AxAlu.A, c.Acc.State.Slice(0, 8))
	sim.MustConnect("ax_alu_b", c.AxAlu.B, c.X.State)
	sim.MustConnect("ax_alu_sel", c.AxAlu.Sel, c.IR.State.Slice(7, 8))
	sim.MustConnect("alu_a_lo", c.ALU.A.Slice(0, 8), c.AxAlu.Out)
	sim.MustConnect("alu_a_hi", c.ALU.A.Slice(8, 9), c.Acc.State.Slice(8, 9))
	sim.MustConnect("alu_fn", c.ALU.Fn, c.IR.State.Slice(5, 6))

	return c
}

// Reset drives power-up state and settles the cascade.
func (c *CPU) Reset() { c.Sim.Reset() }

// Tick advances the clock by one phase and settles.
func (c *CPU) Tick() {
	c.Clock.Tick()
	c.Sim.Settle()
}

// PC returns the full 13-bit logical program counter (high five bits
// from PCH, low eight from PCL).
func (c *CPU) PC() uint32 {
	return c.PCH.Value()<<8 | c.PCL.Value()
}

// Run ticks the machine until the decoder's state-0 program counter
// stops advancing for more than stallLimit consecutive observations,
// or maxCycles elapses.
func (c *CPU) Run(maxCycles, stallLimit int) (int, bool) {
	lastPC := uint32(0xffffffff)
	stall := 0
	for i := 0; i < maxCycles; i++ {
		c.Tick()
		if c.Decoder.State() == 0 {
			if c.PC() == lastPC {
				stall++
			} else {
				stall = 0
			}
			lastPC = c.PC()
			if stall > stallLimit {
				return i + 1, true
			}
		}
	}
	return maxCycles, false
}

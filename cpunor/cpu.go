package cpunor

import (
	"github.com/jimmo/cpld-cpu/circuit"
	"github.com/jimmo/cpld-cpu/parts"
)

// CPU is the fully wired NOR-only machine: a Decoder, 64 bytes of RAM
// and a display tapping two reserved RAM addresses.
type CPU struct {
	Sim     *circuit.Sim
	Power   *parts.Power
	Decoder *Decoder
	RAM     *parts.RAM
	Display *Display
	Clock   *parts.Clock
}

// DataAddr and TriggerAddr are the two reserved RAM cells the display
// listens at, matching the original demo program's layout (addresses
// 59 and 60 of 64).
const (
	DataAddr    = 59
	TriggerAddr = 60
)

// New wires a complete NOR CPU netlist.
func New() *CPU {
	sim := circuit.NewSim()
	c := &CPU{Sim: sim}

	c.Power = sim.Add(parts.NewPower()).(*parts.Power)
	c.Decoder = sim.Add(NewDecoder()).(*Decoder)
	c.RAM = sim.Add(parts.NewRAM("ram", 6, 8)).(*parts.RAM)
	c.Display = sim.Add(NewDisplay(DataAddr, TriggerAddr)).(*Display)
	c.Clock = sim.Add(parts.NewClock(1)).(*parts.Clock)

	sim.MustConnect("clk", c.Decoder.Clk, c.Clock.Clk)
	sim.MustConnect("addr", c.RAM.Addr, c.Decoder.Addr, c.Display.Addr)
	sim.MustConnect("data", c.RAM.Data, c.Decoder.Data, c.Display.Data)
	sim.MustConnect("oe", c.RAM.Oe, c.Decoder.Oe)
	sim.MustConnect("ie", c.RAM.We, c.Decoder.Ie, c.Display.Ie)

	return c
}

// Reset drives power-up state and settles the cascade.
func (c *CPU) Reset() { c.Sim.Reset() }

// Tick advances the clock by one phase and settles.
func (c *CPU) Tick() {
	c.Clock.Tick()
	c.Sim.Settle()
}

// Run ticks the machine until the program counter repeats for more
// than stallLimit consecutive cycles (the same halt idiom the
// original demo used: a tight self-jump loop looks, from outside, like
// a PC that stops advancing) or maxCycles elapses. It returns the
// number of ticks actually run and whether a halt was detected.
func (c *CPU) Run(maxCycles, stallLimit int) (int, bool) {
	lastPC := uint32(0xff) // not a valid 6-bit address, forces a mismatch on cycle 1
	stall := 0
	for i := 0; i < maxCycles; i++ {
		c.Tick()
		if c.Decoder.PC() == lastPC {
			stall++
		} else {
			stall = 0
		}
		lastPC = c.Decoder.PC()
		if stall > stallLimit {
			return i + 1, true
		}
	}
	return maxCycles, false
}

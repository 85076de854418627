package cpu8

import (
	"github.com/jimmo/cpld-cpu/circuit"
	"github.com/jimmo/cpld-cpu/parts"
)

// CPU is the fully wired canonical 8-bit machine: eight general
// registers, a hidden T scratch register, a combinational ALU, a
// 16-bit program counter built from two chained 8-bit halves, 64KiB
// of RAM, 64KiB of ROM and the 4-phase decoder driving all of it.
type CPU struct {
	Sim *circuit.Sim

	Power *parts.Power
	ALU   *ALU

	RegA, RegB, RegC, RegD        *parts.SplitRegister
	RegE, RegF, RegG, RegH, RegT *parts.Register

	Decoder *Decoder
	IR      *InstructionRegister
	PCL     *ProgramCounter
	PCH     *ProgramCounter

	SelCD, SelGH *parts.BusConnect
	RAMBank      *parts.RAM
	ROM          *parts.ROM

	Clock *parts.Clock

	started bool
}

// New wires a complete CPU netlist, grounded on the register-bus and
// phase wiring of the original simulator's top-level cpu.py main().
func New() *CPU {
	sim := circuit.NewSim()
	c := &CPU{Sim: sim}

	c.Power = sim.Add(parts.NewPower()).(*parts.Power)
	c.ALU = sim.Add(NewALU()).(*ALU)

	c.RegA = sim.Add(parts.NewSplitRegister("reg_a", 8, 4)).(*parts.SplitRegister)
	c.RegB = sim.Add(parts.NewSplitRegister("reg_b", 8, 4)).(*parts.SplitRegister)
	c.RegC = sim.Add(parts.NewSplitRegister("reg_c", 8, 4)).(*parts.SplitRegister)
	c.RegD = sim.Add(parts.NewSplitRegister("reg_d", 8, 4)).(*parts.SplitRegister)
	c.RegE = sim.Add(parts.NewRegister("reg_e", 8)).(*parts.Register)
	c.RegF = sim.Add(parts.NewRegister("reg_f", 8)).(*parts.Register)
	c.RegG = sim.Add(parts.NewRegister("reg_g", 8)).(*parts.Register)
	c.RegH = sim.Add(parts.NewRegister("reg_h", 8)).(*parts.Register)
	c.RegT = sim.Add(parts.NewRegister("reg_t", 8)).(*parts.Register)

	c.Decoder = sim.Add(NewDecoder()).(*Decoder)
	c.IR = sim.Add(NewInstructionRegister()).(*InstructionRegister)
	c.PCL = sim.Add(NewProgramCounter("l")).(*ProgramCounter)
	c.PCH = sim.Add(NewProgramCounter("h")).(*ProgramCounter)

	c.SelCD = sim.Add(parts.NewBusConnect("sel_cd", 16)).(*parts.BusConnect)
	c.SelGH = sim.Add(parts.NewBusConnect("sel_gh", 16)).(*parts.BusConnect)

	c.RAMBank = sim.Add(parts.NewRAM("ram", 16, 8)).(*parts.RAM)
	c.ROM = sim.Add(parts.NewROM("rom", 16, 8)).(*parts.ROM)

	c.Clock = sim.Add(parts.NewClock(2)).(*parts.Clock)

	// Shared 8-bit register/data bus: every combinational or latched
	// byte source in the machine taps the same bus.
	sim.MustConnect("data",
		c.RegA.Data, c.RegB.Data, c.RegC.Data, c.RegD.Data,
		c.RegE.Data, c.RegF.Data, c.RegG.Data, c.RegH.Data, c.RegT.Data,
		c.ALU.Out, c.IR.Imm, c.RAMBank.Data)

	// Program counter.
	sim.MustConnect("pc_inc_l", c.PCL.Inc, c.Decoder.PcInc)
	sim.MustConnect("pc_inc_h", c.PCH.Inc, c.PCL.Co)
	sim.MustConnect("pc_ie_l", c.PCL.Ie, c.Decoder.PcIe)
	sim.MustConnect("pc_ie_h", c.PCH.Ie, c.Decoder.PcIe)

	// Instruction fetch.
	sim.MustConnect("rom_oe", c.ROM.Oe, c.Power.High)
	sim.MustConnect("rom_addr_l", c.ROM.Addr.Slice(0, 8), c.PCL.Addr)
	sim.MustConnect("rom_addr_h", c.ROM.Addr.Slice(8, 16), c.PCH.Addr)
	sim.MustConnect("ir_data", c.IR.Data, c.ROM.Data)
	sim.MustConnect("ir_ie", c.IR.Ie, c.Decoder.IrIe)
	sim.MustConnect("ir_oe", c.IR.Oe, c.Decoder.IrOe)

	// Decoder inputs.
	sim.MustConnect("instr", c.Decoder.Instr, c.IR.Instr)
	sim.MustConnect("clk", c.Decoder.Clk, c.Clock.Clk)

	// Register enables.
	sim.MustConnect("a_ie_l", c.RegA.We.Slice(0, 1), c.Decoder.AlIe)
	sim.MustConnect("a_ie_h", c.RegA.We.Slice(1, 2), c.Decoder.AhIe)
	sim.MustConnect("b_ie_l", c.RegB.We.Slice(0, 1), c.Decoder.BlIe)
	sim.MustConnect("b_ie_h", c.RegB.We.Slice(1, 2), c.Decoder.BhIe)
	sim.MustConnect("c_ie_l", c.RegC.We.Slice(0, 1), c.Decoder.ClIe)
	sim.MustConnect("c_ie_h", c.RegC.We.Slice(1, 2), c.Decoder.ChIe)
	sim.MustConnect("d_ie_l", c.RegD.We.Slice(0, 1), c.Decoder.DlIe)
	sim.MustConnect("d_ie_h", c.RegD.We.Slice(1, 2), c.Decoder.DhIe)
	sim.MustConnect("e_ie", c.RegE.We, c.Decoder.EIe)
	sim.MustConnect("f_ie", c.RegF.We, c.Decoder.FIe)
	sim.MustConnect("g_ie", c.RegG.We, c.Decoder.GIe)
	sim.MustConnect("h_ie", c.RegH.We, c.Decoder.HIe)
	sim.MustConnect("t_ie", c.RegT.We, c.Decoder.TIe)

	sim.MustConnect("a_oe", c.RegA.Oe, c.Decoder.AOe)
	sim.MustConnect("b_oe", c.RegB.Oe, c.Decoder.BOe)
	sim.MustConnect("c_oe", c.RegC.Oe, c.Decoder.COe)
	sim.MustConnect("d_oe", c.RegD.Oe, c.Decoder.DOe)
	sim.MustConnect("e_oe", c.RegE.Oe, c.Decoder.EOe)
	sim.MustConnect("f_oe", c.RegF.Oe, c.Decoder.FOe)
	sim.MustConnect("g_oe", c.RegG.Oe, c.Decoder.GOe)
	sim.MustConnect("h_oe", c.RegH.Oe, c.Decoder.HOe)
	sim.MustConnect("t_oe", c.RegT.Oe, c.Decoder.TOe)

	// ALU.
	sim.MustConnect("alu_fn", c.ALU.Fn, c.Decoder.AluFn)
	sim.MustConnect("alu_oe", c.ALU.Oe, c.Decoder.AluOe)
	sim.MustConnect("alu_a", c.ALU.A, c.RegA.State)
	sim.MustConnect("alu_b", c.ALU.B, c.RegB.State)

	// Address-pair select and memory.
	sim.MustConnect("sel_cd_a_l", c.SelCD.A.Slice(0, 8), c.RegD.State)
	sim.MustConnect("sel_cd_a_h", c.SelCD.A.Slice(8, 16), c.RegC.State)
	sim.MustConnect("sel_gh_a_l", c.SelGH.A.Slice(0, 8), c.RegH.State)
	sim.MustConnect("sel_gh_a_h", c.SelGH.A.Slice(8, 16), c.RegG.State)

	sim.MustConnect("pc_data_l", c.PCL.Data, c.SelCD.B.Slice(0, 8), c.SelGH.B.Slice(0, 8), c.RAMBank.Addr.Slice(0, 8))
	sim.MustConnect("pc_data_h", c.PCH.Data, c.SelCD.B.Slice(8, 16), c.SelGH.B.Slice(8, 16), c.RAMBank.Addr.Slice(8, 16))

	sim.MustConnect("sel_cd_en", c.SelCD.AToB, c.Decoder.SelCd)
	sim.MustConnect("sel_gh_en", c.SelGH.AToB, c.Decoder.SelGh)

	sim.MustConnect("ram_we", c.RAMBank.We, c.Decoder.MemIe)
	sim.MustConnect("ram_oe", c.RAMBank.Oe, c.Decoder.MemOe)

	return c
}

// Reset drives every component to its power-up state and settles the
// resulting cascade.
func (c *CPU) Reset() {
	c.started = false
	c.Sim.Reset()
}

// Tick advances the clock by one phase and settles the cascade.
func (c *CPU) Tick() {
	c.Clock.Tick()
	c.Sim.Settle()
}

// Step runs one full instruction cycle (m1 through m4) and returns the
// program counter's value once it completes. The very first Step
// after Reset only needs three ticks, since reset already leaves the
// phase counter at m1.
func (c *CPU) Step() uint16 {
	n := 4
	if !c.started {
		n = 3
		c.started = true
	}
	for i := 0; i < n; i++ {
		c.Tick()
	}
	return c.PC()
}

// PC returns the combined 16-bit program counter.
func (c *CPU) PC() uint16 {
	return uint16(c.PCH.Value())<<8 | uint16(c.PCL.Value())
}

// Run steps the machine until the program counter repeats across a
// full instruction cycle (the halt idiom emitted by Assembler.Hlt: an
// unconditional jump to its own address) or maxCycles is reached.
// It returns the number of instruction cycles actually executed and
// whether the machine reached the halt fixed point.
func (c *CPU) Run(maxCycles int) (int, bool) {
	prev := c.PC()
	for i := 0; i < maxCycles; i++ {
		next := c.Step()
		if next == prev {
			return i + 1, true
		}
		prev = next
	}
	return maxCycles, false
}

// A returns register A's latched value.
func (c *CPU) A() uint32 { return c.RegA.Value() }

// B returns register B's latched value.
func (c *CPU) B() uint32 { return c.RegB.Value() }

// C returns register C's latched value.
func (c *CPU) C() uint32 { return c.RegC.Value() }

// D returns register D's latched value.
func (c *CPU) D() uint32 { return c.RegD.Value() }

// E returns register E's latched value.
func (c *CPU) E() uint32 { return c.RegE.Value() }

// F returns register F's latched value.
func (c *CPU) F() uint32 { return c.RegF.Value() }

// G returns register G's latched value.
func (c *CPU) G() uint32 { return c.RegG.Value() }

// H returns register H's latched value.
func (c *CPU) H() uint32 { return c.RegH.Value() }

// T returns the hidden scratch register's latched value.
func (c *CPU) T() uint32 { return c.RegT.Value() }

// Command simulator is the top-level runner (spec §4.6): it parses an
// assembly source file with asmtext, assembles it for one CPU variant,
// wires that variant's gate-level netlist, ticks the clock until the
// machine reaches its halt fixed point (or is cancelled), and prints a
// hex dump of RAM. Styled after the cobra root+subcommand CLIs in the
// example pack (oisee-z80-optimizer/cmd/z80opt).
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jimmo/cpld-cpu/asm"
	"github.com/jimmo/cpld-cpu/asmtext"
	"github.com/jimmo/cpld-cpu/cpu8"
	"github.com/jimmo/cpld-cpu/cpuidx"
	"github.com/jimmo/cpld-cpu/cpunor"
	"github.com/jimmo/cpld-cpu/cpupaged"
)

// machine is the narrow interface the runner needs from any of the
// four wired CPU variants: one driving step advancing to the next
// instruction boundary, and the backing RAM it assembled into.
type machine interface {
	step() uint32
	ram() []uint8
}

func newMachine(variant string) (machine, asmtext.Emitter, error) {
	switch variant {
	case "cpu8":
		c := cpu8.New()
		return &cpu8Machine{c: c}, asmtext.NewCPU8Emitter(asm.RomSink(c.RAMBank.Ram)), nil
	case "cpunor":
		c := cpunor.New()
		return &cpunorMachine{c: c}, asmtext.NewCPUNorEmitter(asm.RomSink(c.RAM.Ram)), nil
	case "cpuidx":
		c := cpuidx.New()
		return &cpuidxMachine{c: c}, asmtext.NewCPUIdxEmitter(asm.RomSink(c.RAM.Ram)), nil
	case "cpupaged":
		c := cpupaged.New(rand.NewSource(1))
		return &cpupagedMachine{c: c}, asmtext.NewCPUPagedEmitter(asm.RomSink(c.RAM.Ram)), nil
	default:
		return nil, nil, fmt.Errorf("unknown cpu variant %q (want cpu8, cpunor, cpuidx, or cpupaged)", variant)
	}
}

// cpu8Machine steps a full instruction cycle at a time; run's
// pcStaller, with limit 0 for cpu8, then detects the same fixed point
// cpu8.CPU.Run does (next PC == prev).
type cpu8Machine struct{ c *cpu8.CPU }

func (m *cpu8Machine) step() uint32 { return uint32(m.c.Step()) }
func (m *cpu8Machine) ram() []uint8 { return m.c.RAMBank.Ram }
func (m *cpu8Machine) reset()       { m.c.Reset() }

type cpunorMachine struct{ c *cpunor.CPU }

func (m *cpunorMachine) step() uint32 { m.c.Tick(); return m.c.Decoder.PC() }
func (m *cpunorMachine) ram() []uint8 { return m.c.RAM.Ram }
func (m *cpunorMachine) reset()       { m.c.Reset() }

type cpuidxMachine struct{ c *cpuidx.CPU }

func (m *cpuidxMachine) step() uint32 { m.c.Tick(); return m.c.Decoder.PC() }
func (m *cpuidxMachine) ram() []uint8 { return m.c.RAM.Ram }
func (m *cpuidxMachine) reset()       { m.c.Reset() }

// cpupagedMachine's decoder is a real multi-state sequencer, so one
// "step" ticks through a full 8-state instruction before reporting the
// program counter, matching cpupaged.CPU.Run's own state==0 sampling.
type cpupagedMachine struct{ c *cpupaged.CPU }

func (m *cpupagedMachine) step() uint32 {
	m.c.Tick()
	for m.c.Decoder.State() != 0 {
		m.c.Tick()
	}
	return m.c.PC()
}
func (m *cpupagedMachine) ram() []uint8 { return m.c.RAM.Ram }
func (m *cpupagedMachine) reset()       { m.c.Reset() }

// resetter is implemented by every machine wrapper; kept separate from
// the machine interface above since newMachine's callers need it
// exactly once, right after assembly and before the first step.
type resetter interface {
	reset()
}

// pcStaller tracks how many consecutive steps have reported the same
// program counter, the shared halt-detection shape every variant's own
// Run method already uses (exact repeat for cpu8, limit == 0; a
// configurable stall window for the other three).
type pcStaller struct {
	last  uint32
	stall int
}

func (p *pcStaller) observe(pc uint32, limit int) bool {
	if pc == p.last {
		p.stall++
	} else {
		p.stall = 0
	}
	p.last = pc
	return p.stall > limit
}

func assembleFile(variant, path string) (machine, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := asmtext.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m, e, err := newMachine(variant)
	if err != nil {
		return nil, err
	}
	if err := asmtext.Assemble(prog, e); err != nil {
		return nil, fmt.Errorf("%s:%w", path, err)
	}
	return m, nil
}

// run assembles and executes, ticking until the halt fixed point, the
// cycle budget, or context cancellation (SIGINT). Once the program has
// assembled it always prints the RAM hex dump before returning (an
// assembly error returns before anything runs), per spec.md's "on halt, the simulator
// prints a hex dump of non-zero 16-byte lines of RAM".
func run(ctx context.Context, variant, path string, maxCycles, stallLimit int) error {
	m, err := assembleFile(variant, path)
	if err != nil {
		return err
	}
	m.(resetter).reset()

	st := &pcStaller{last: 0xffffffff}
	limit := stallLimit
	if variant == "cpu8" {
		limit = 0
	}
	halted, cancelled := false, false
	cycles := 0
	for ; cycles < maxCycles; cycles++ {
		select {
		case <-ctx.Done():
			cancelled = true
		default:
		}
		if cancelled {
			break
		}
		pc := m.step()
		if st.observe(pc, limit) {
			halted = true
			cycles++
			break
		}
	}

	dumpRAM(os.Stdout, m.ram())
	switch {
	case halted:
		fmt.Printf("halted after %d cycles\n", cycles)
	case cancelled:
		fmt.Printf("cancelled after %d cycles\n", cycles)
	default:
		fmt.Printf("cycle budget of %d exhausted without halting\n", maxCycles)
	}
	return nil
}

// dumpRAM prints every non-zero 16-byte line of mem as an address
// followed by hex bytes, skipping all-zero lines.
func dumpRAM(w io.Writer, mem []uint8) {
	for base := 0; base < len(mem); base += 16 {
		end := base + 16
		if end > len(mem) {
			end = len(mem)
		}
		line := mem[base:end]
		nonZero := false
		for _, b := range line {
			if b != 0 {
				nonZero = true
				break
			}
		}
		if !nonZero {
			continue
		}
		fmt.Fprintf(w, "%04x:", base)
		for _, b := range line {
			fmt.Fprintf(w, " %02x", b)
		}
		fmt.Fprintln(w)
	}
}

func main() {
	var variant string
	var maxCycles int
	var stallLimit int

	rootCmd := &cobra.Command{
		Use:   "simulator <assembly-source-path>",
		Short: "Assemble and run a program on one of the gate-level CPU variants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return run(ctx, variant, args[0], maxCycles, stallLimit)
		},
	}
	rootCmd.PersistentFlags().StringVar(&variant, "variant", "cpu8", "cpu variant: cpu8, cpunor, cpuidx, or cpupaged")
	rootCmd.Flags().IntVar(&maxCycles, "max-cycles", 1_000_000, "cycle budget before giving up")
	rootCmd.Flags().IntVar(&stallLimit, "stall-limit", 8, "consecutive repeated PCs (ignored for cpu8) before declaring halt")

	asmCmd := &cobra.Command{
		Use:   "asm <assembly-source-path>",
		Short: "Assemble a program and print its RAM image without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := assembleFile(variant, args[0])
			if err != nil {
				return err
			}
			dumpRAM(os.Stdout, m.ram())
			return nil
		},
	}
	rootCmd.AddCommand(asmCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

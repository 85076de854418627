package cpu8

import (
	"testing"

	"github.com/jimmo/cpld-cpu/asm"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, c *CPU, build func(a *Assembler)) {
	t.Helper()
	a := NewAssembler(asm.RomSink(c.ROM.Rom), 0)
	build(a)
	require.NoError(t, a.Close())
}

func TestImmediateLoadAndMov(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Load8("a", 0x37))
		require.NoError(t, a.Mov("e", "a"))
		require.NoError(t, a.Hlt())
	})
	c.Reset()

	c.Step() // load ah
	c.Step() // load al
	require.EqualValues(t, 0x37, c.A())
	c.Step() // mov e, a (round-trips through T)
	require.EqualValues(t, 0x37, c.E())

	cycles, halted := c.Run(10)
	require.True(t, halted)
	require.Less(t, cycles, 10)
}

func TestAluAddWithCarry(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Load8("a", 200))
		require.NoError(t, a.Load8("b", 100))
		require.NoError(t, a.AluAdd("a"))
		require.NoError(t, a.Hlt())
	})
	c.Reset()
	for i := 0; i < 5; i++ { // two Loads each for a and b, then the alu op
		c.Step()
	}
	require.EqualValues(t, 44, c.A())
	require.EqualValues(t, FlagC, c.ALU.flags&FlagC)
}

func TestUnconditionalJump(t *testing.T) {
	c := New()
	a := NewAssembler(asm.RomSink(c.ROM.Rom), 0)
	require.NoError(t, a.Load16("c:d", 0x10))
	require.NoError(t, a.Jmp("c:d", 0))
	require.NoError(t, a.Close())

	target := NewAssembler(asm.RomSink(c.ROM.Rom), 0x10)
	require.NoError(t, target.Hlt())
	require.NoError(t, target.Close())

	c.Reset()
	for i := 0; i < 5; i++ { // four Load instructions plus the jmp
		c.Step()
	}
	require.EqualValues(t, 0x0010, c.PC())
}

func TestMemoryWriteAndRead(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Load16("c:d", 0x20))
		require.NoError(t, a.Load8("a", 0x45))
		require.NoError(t, a.Wmem("a", "c:d"))
		require.NoError(t, a.Load8("a", 0))
		require.NoError(t, a.Rmem("b", "c:d"))
		require.NoError(t, a.Hlt())
	})
	c.Reset()
	for i := 0; i < 10; i++ { // 4 + 2 + 1 + 2 + 1 instructions
		c.Step()
	}
	require.EqualValues(t, 0x45, c.B())
	require.EqualValues(t, 0x45, c.RAMBank.Ram[0x20])
}

func TestForwardLabelJumpLoop(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Load8("a", 0))
		require.NoError(t, a.Load16("c:d", 0x80))
		require.NoError(t, a.Mov16("g:h", "c:d"))
		loop := asm.NewLabel("loop")
		require.NoError(t, a.LoadLabel("c:d", loop))
		require.NoError(t, a.Bind(loop))
		require.NoError(t, a.AluAdd("a"))
		require.NoError(t, a.Wmem("a", "g:h"))
		require.NoError(t, a.Jmp("c:d", 0))
	})
	c.Reset()

	cycles, halted := c.Run(30)
	require.False(t, halted, "this program never reaches a fixed point, it loops forever")
	require.Equal(t, 30, cycles)
}

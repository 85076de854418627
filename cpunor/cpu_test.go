package cpunor

import (
	"bytes"
	"testing"

	"github.com/jimmo/cpld-cpu/asm"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, c *CPU, build func(a *Assembler)) {
	t.Helper()
	Preload(asm.RomSink(c.RAM.Ram))
	a := NewAssembler(asm.RomSink(c.RAM.Ram), 0)
	build(a)
	require.NoError(t, a.Close())
}

func TestDecoderFetchAddStoreRoundTrip(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(10)) // acc = ram[10]
		require.NoError(t, a.Add(11)) // acc += ram[11]
		require.NoError(t, a.Sta(12)) // ram[12] = acc
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[10] = 5
	c.RAM.Ram[11] = 7
	c.Reset()

	_, halted := c.Run(200, 6)
	require.True(t, halted)
	require.EqualValues(t, 12, c.RAM.Ram[12])
}

func TestNotInvertsAccumulator(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(10))
		require.NoError(t, a.Not())
		require.NoError(t, a.Sta(12))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[10] = 0x0f
	c.Reset()

	_, halted := c.Run(200, 6)
	require.True(t, halted)
	require.EqualValues(t, 0xf0, c.RAM.Ram[12])
}

func TestSubComputesTwosComplementDifference(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(10))
		require.NoError(t, a.Sub(11))
		require.NoError(t, a.Sta(12))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[10] = 9
	c.RAM.Ram[11] = 20
	c.Reset()

	_, halted := c.Run(200, 6)
	require.True(t, halted)
	require.EqualValues(t, 11, c.RAM.Ram[12]) // ram[11] - acc = 20 - 9
}

func TestJmpLabelLoopsForever(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		top := asm.NewLabel("top")
		require.NoError(t, a.Bind(top))
		require.NoError(t, a.Lda(10))
		require.NoError(t, a.Sta(12))
		require.NoError(t, a.JmpLabel(top))
	})
	c.RAM.Ram[10] = 1
	c.Reset()

	cycles, halted := c.Run(400, 6)
	require.False(t, halted, "an unconditional loop never reaches a stalled program counter")
	require.Equal(t, 400, cycles)
}

func TestHltReachesFixedPoint(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(10))
		require.NoError(t, a.Sta(12))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[10] = 1
	c.Reset()

	_, halted := c.Run(200, 6)
	require.True(t, halted)
	require.EqualValues(t, 1, c.RAM.Ram[12])
}

func TestDisplayPrintsOnTrigger(t *testing.T) {
	c := New()
	var buf bytes.Buffer
	c.Display.Writer = &buf
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(10))
		require.NoError(t, a.Sta(DataAddr))
		require.NoError(t, a.Lda(11))
		require.NoError(t, a.Sta(TriggerAddr))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[10] = 42
	c.RAM.Ram[11] = 1
	c.Reset()

	_, halted := c.Run(300, 6)
	require.True(t, halted)
	require.Equal(t, "42\n", buf.String())
}

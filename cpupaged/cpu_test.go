package cpupaged

import (
	"bytes"
	"math/rand"
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

func TestLoadAddStoreRoundTrip(t *testing.T) {
	c := New(rand.NewSource(1))
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(200))
		require.NoError(t, a.Add(201))
		require.NoError(t, a.Sta(202))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[200] = 5
	c.RAM.Ram[201] = 9
	c.Reset()

	_, halted := c.Run(400, 10)
	require.True(t, halted)
	require.EqualValues(t, 14, c.RAM.Ram[202])
}

func TestAddIsOffsetByIndexRegister(t *testing.T) {
	c := New(rand.NewSource(1))
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Clr())     // acc = 0, before x is touched: clr itself is indexed
		require.NoError(t, a.Ldx(200))  // x = ram[200]; ldx/ldx's nor/add are unindexed
		require.NoError(t, a.Add(210))  // acc = ram[210+x]
		require.NoError(t, a.Sta(220))  // ram[220+x] = acc; sta is indexed too
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[200] = 3
	c.RAM.Ram[213] = 88 // ram[210+3]
	c.Reset()

	_, halted := c.Run(400, 10)
	require.True(t, halted)
	require.EqualValues(t, 88, c.RAM.Ram[223]) // ram[220+3]
}

func TestStxAddressesDirectlyNotOffsetByIndex(t *testing.T) {
	c := New(rand.NewSource(1))
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Ldx(200)) // x = 3
		require.NoError(t, a.Stx(220)) // ram[220] = x, never offset
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[200] = 3
	c.Reset()

	_, halted := c.Run(400, 10)
	require.True(t, halted)
	require.EqualValues(t, 3, c.RAM.Ram[220])
	require.EqualValues(t, 0, c.RAM.Ram[223])
}

func TestDisplayPrintsLatchedAccumulatorOnTrigger(t *testing.T) {
	c := New(rand.NewSource(1))
	var buf bytes.Buffer
	c.Display.Writer = &buf
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(200))
		require.NoError(t, a.Sta(displayAddr))
		require.NoError(t, a.Lda(201))
		require.NoError(t, a.Sta(displayAddr + 1))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[200] = 64
	c.RAM.Ram[201] = 1
	c.Reset()

	_, halted := c.Run(400, 10)
	require.True(t, halted)
	require.Equal(t, "64\n", buf.String())
}

func TestRNGReadsAreMemoryMapped(t *testing.T) {
	c := New(rand.NewSource(1))
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(rngAddr))
		require.NoError(t, a.Sta(250))
		require.NoError(t, a.Lda(rngAddr))
		require.NoError(t, a.Sta(251))
		require.NoError(t, a.Hlt())
	})
	c.Reset()

	_, halted := c.Run(400, 10)
	require.True(t, halted)
	require.NotEqual(t, uint8(0), c.RAM.Ram[250]|c.RAM.Ram[251], "rng must eventually produce a non-zero byte")
}

func TestHaltReachesFixedPoint(t *testing.T) {
	c := New(rand.NewSource(1))
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(200))
		require.NoError(t, a.Sta(202))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[200] = 9
	c.Reset()

	cycles, halted := c.Run(400, 10)
	require.True(t, halted)
	require.Less(t, cycles, 400)
	require.EqualValues(t, 9, c.RAM.Ram[202])
}

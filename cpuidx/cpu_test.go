package cpuidx

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

func TestAddIsIndexedByX(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Ldx(10))  // x = ram[10]
		require.NoError(t, a.Lda(0))   // acc = ram[0+x]
		require.NoError(t, a.Sta(5))   // ram[5+x] = acc
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[10] = 2  // x
	c.RAM.Ram[2] = 77  // ram[0+x] == ram[2]
	c.Reset()

	_, halted := c.Run(300, 6)
	require.True(t, halted)
	require.EqualValues(t, 77, c.RAM.Ram[7]) // ram[5+x] == ram[7]
}

func TestNorxAndStxAddressDirectlyNotIndexed(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Ldx(10)) // x = 9
		require.NoError(t, a.Notx())  // x = ~9
		require.NoError(t, a.Stx(6))  // ram[6] = x, never offset by x
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[10] = 9
	c.Reset()

	_, halted := c.Run(300, 6)
	require.True(t, halted)
	require.EqualValues(t, uint8(^uint8(9)), c.RAM.Ram[6])
	require.EqualValues(t, 0, c.RAM.Ram[6+9], "stx must address RAM directly, never offset by x")
}

func TestSubComputesAccumulatorMinusOperand(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(10))
		require.NoError(t, a.Sub(11))
		require.NoError(t, a.Sta(12))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[10] = 9
	c.RAM.Ram[11] = 3
	c.Reset()

	_, halted := c.Run(300, 6)
	require.True(t, halted)
	require.EqualValues(t, 6, c.RAM.Ram[12])
}

func TestXorOfOperandWithItself(t *testing.T) {
	// Tracing the derived xor sequence algebraically gives
	// acc = (B&^A) NOR (A&^B), which is NOT(A^B) rather than A^B:
	// the original's own "xor" derivation is really an xnor. Ported
	// as specified rather than silently renamed; this test pins the
	// actual resulting value instead of assuming the textbook one.
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(14))
		require.NoError(t, a.Xor(14))
		require.NoError(t, a.Sta(15))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[14] = 0x5a
	c.Reset()

	_, halted := c.Run(500, 6)
	require.True(t, halted)
	require.EqualValues(t, 0xff, c.RAM.Ram[15])
}

func TestAndOfAllOnesIsOperand(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Lda(AllOneAddr))
		require.NoError(t, a.And(10))
		require.NoError(t, a.Sta(12))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[10] = 0x3c
	c.Reset()

	_, halted := c.Run(500, 6)
	require.True(t, halted)
	require.EqualValues(t, 0x3c, c.RAM.Ram[12])
}

func TestJnzSkipsBranchWhenAccumulatorIsZero(t *testing.T) {
	c := New()
	assemble(t, c, func(a *Assembler) {
		require.NoError(t, a.Clr()) // acc = 0
		notReached := asm.NewLabel("not_reached")
		after := asm.NewLabel("after")
		require.NoError(t, a.JnzLabel(notReached))
		require.NoError(t, a.Lda(AllOneAddr)) // acc = 0xff, proves the branch wasn't taken
		require.NoError(t, a.Sta(12))
		require.NoError(t, a.JmpLabel(after))
		require.NoError(t, a.Bind(notReached))
		require.NoError(t, a.Lda(13)) // would set ram[12] = 1 if reached
		require.NoError(t, a.Sta(12))
		require.NoError(t, a.Bind(after))
		require.NoError(t, a.Hlt())
	})
	c.RAM.Ram[13] = 1
	c.Reset()

	_, halted := c.Run(500, 6)
	require.True(t, halted)
	require.EqualValues(t, 0xff, c.RAM.Ram[12])
}

func TestDisplayPrintsLatchedValueOnTrigger(t *testing.T) {
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
	c.RAM.Ram[10] = 17
	c.RAM.Ram[11] = 1
	c.Reset()

	_, halted := c.Run(500, 6)
	require.True(t, halted)
	require.Equal(t, "17\n", buf.String())
}

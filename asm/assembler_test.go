package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAdvancesCursor(t *testing.T) {
	rom := make(RomSink, 16)
	a := New(rom, 4)
	a.Write(0x11)
	a.Write(0x22)
	require.EqualValues(t, 6, a.Addr())
	require.Equal(t, uint8(0x11), rom[4])
	require.Equal(t, uint8(0x22), rom[5])
}

func TestForwardReferenceIsPatchedOnBind(t *testing.T) {
	rom := make(RomSink, 16)
	a := New(rom, 0)
	target := NewLabel("loop")

	a.Reserve(1, target, func(fix *Assembler) {
		fix.Write(uint8(target.Addr()))
	})
	a.Write(0xff) // some instruction between the reference and the label
	require.NoError(t, a.Bind(target))

	require.NoError(t, a.Close())
	require.Equal(t, uint8(2), rom[0], "the reserved byte must hold the label's bound address")
	require.Equal(t, uint8(0xff), rom[1])
}

func TestBackwardReferencePatchesImmediately(t *testing.T) {
	rom := make(RomSink, 16)
	a := New(rom, 0)
	top := NewLabel("top")
	require.NoError(t, a.Bind(top))
	a.Write(0xaa)

	a.Reserve(1, top, func(fix *Assembler) {
		fix.Write(uint8(top.Addr()))
	})

	require.NoError(t, a.Close())
	require.Equal(t, uint8(0), rom[1], "a reference to an already-bound label patches immediately")
}

func TestDoubleBindIsAnError(t *testing.T) {
	rom := make(RomSink, 16)
	a := New(rom, 0)
	l := NewLabel("dup")
	require.NoError(t, a.Bind(l))
	require.Error(t, a.Bind(l))
}

func TestCloseReportsUnboundLabel(t *testing.T) {
	rom := make(RomSink, 16)
	a := New(rom, 0)
	l := NewLabel("missing")
	a.Reserve(1, l, func(fix *Assembler) { fix.Write(0) })
	require.Error(t, a.Close())
}

func TestAddrReadBeforeBindPanics(t *testing.T) {
	l := NewLabel("x")
	require.Panics(t, func() { l.Addr() })
}

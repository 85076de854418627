package parts

import "github.com/jimmo/cpld-cpu/circuit"

// BusConnect is a bidirectional gated bus bridge: AToB drives B from
// A, BToA drives A from B, and with both low it releases both sides.
// Asserting both simultaneously is not a defined state; that is the
// caller's responsibility to avoid.
type BusConnect struct {
	circuit.Base
	A    *circuit.Signal
	B    *circuit.Signal
	AToB *circuit.Signal
	BToA *circuit.Signal
}

// NewBusConnect creates a bus bridge of the given bit width.
func NewBusConnect(name string, width int) *BusConnect {
	b := &BusConnect{Base: circuit.NewBase(name)}
	b.A = circuit.NewNotifySignal(b, "a", width)
	b.B = circuit.NewNotifySignal(b, "b", width)
	b.AToB = circuit.NewNotifySignal(b, "a_to_b", 1)
	b.BToA = circuit.NewNotifySignal(b, "b_to_a", 1)
	return b
}

// Reset releases both sides.
func (b *BusConnect) Reset() {
	b.A.Release()
	b.B.Release()
}

// Update implements circuit.Component.
func (b *BusConnect) Update(s *circuit.Signal) {
	if b.AToB.Value() == 1 {
		b.B.Drive(b.A.Value())
	} else {
		b.B.Release()
	}
	if b.BToA.Value() == 1 {
		b.A.Drive(b.B.Value())
	} else {
		b.A.Release()
	}
}

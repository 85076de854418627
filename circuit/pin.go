// Package circuit implements the signal-net propagation engine: pins,
// nets, multi-bit signals and the component contract that the primitive
// chips in package parts and the CPU variants are built from.
package circuit

// Pin is a single bit of electrical state owned by a Signal. A pin
// either drives its net (HiZ() == false) or listens to it
// (HiZ() == true); it is never both at once.
type Pin struct {
	sig   *Signal
	index int

	value uint8
	hiz   bool

	// edge, when non-nil, records the direction (0 or 1) of the most
	// recent transition observed on this pin. It is cleared the first
	// time HadEdge matches it ("read-once").
	edge *uint8

	net *Net
}

func newPin(s *Signal, index int) *Pin {
	return &Pin{sig: s, index: index, hiz: true}
}

// HiZ reports whether the pin is currently releasing rather than
// driving its net.
func (p *Pin) HiZ() bool {
	return p.hiz
}

// Value returns the pin's effective logic level: its own driven value
// while driving, or its net's effective value while listening. A pin
// with no net and no drive reads as 0.
func (p *Pin) Value() uint8 {
	if !p.hiz {
		return p.value
	}
	if p.net != nil {
		return p.net.value()
	}
	return 0
}

// HadEdge reports whether this pin saw a transition to dir (0 or 1)
// since the last call, consuming the marker so it fires at most once
// per transition.
func (p *Pin) HadEdge(dir uint8) bool {
	if p.edge != nil && *p.edge == dir {
		p.edge = nil
		return true
	}
	return false
}

// drive sets the pin to v (0 or 1), or releases it to hi-Z when v is
// nil. Same-value and same-hiz drives are no-ops: no net update is
// scheduled and no callback fires.
func (p *Pin) drive(v *uint8) {
	if v == nil {
		if !p.hiz {
			p.hiz = true
			p.scheduleNet()
		}
		return
	}
	if p.hiz || p.value != *v {
		p.hiz = false
		p.value = *v
		p.scheduleNet()
	}
}

func (p *Pin) scheduleNet() {
	if p.net != nil {
		p.net.markDirty()
	}
}

package parts

import "github.com/jimmo/cpld-cpu/circuit"

// Power supplies fixed 0 and 1 voltage references, constantly driven
// after reset.
type Power struct {
	circuit.Base
	Low  *circuit.Signal
	High *circuit.Signal
}

// NewPower creates a power supply component.
func NewPower() *Power {
	p := &Power{Base: circuit.NewBase("power")}
	p.Low = circuit.NewSignal(p, "low", 1)
	p.High = circuit.NewSignal(p, "high", 1)
	return p
}

// Reset drives the two references to their fixed levels.
func (p *Power) Reset() {
	p.Low.Drive(0)
	p.High.Drive(1)
}

// Update is a no-op: power references never change.
func (p *Power) Update(s *circuit.Signal) {}

package cpuidx

import (
	"fmt"
	"io"
	"os"

	"github.com/jimmo/cpld-cpu/circuit"
)

// Display taps the shared five-bit RAM bus at two fixed addresses,
// the same convention cpunor's display uses.
type Display struct {
	circuit.Base
	dataAddr, triggerAddr uint32
	v                     uint32
	Writer                io.Writer

	Addr *circuit.Signal
	Data *circuit.Signal
	Ie   *circuit.Signal
}

// NewDisplay creates a display listening at the given addresses.
func NewDisplay(dataAddr, triggerAddr uint32) *Display {
	d := &Display{Base: circuit.NewBase("display"), dataAddr: dataAddr, triggerAddr: triggerAddr, Writer: os.Stdout}
	d.Addr = circuit.NewNotifySignal(d, "addr", 5)
	d.Data = circuit.NewSignal(d, "data", 8)
	d.Ie = circuit.NewNotifySignal(d, "ie", 1)
	return d
}

// Reset implements circuit.Component.
func (d *Display) Reset() {}

// Update implements circuit.Component.
func (d *Display) Update(s *circuit.Signal) {
	if !d.Ie.HadEdge(1) {
		return
	}
	addr := d.Addr.Value()
	if addr == d.dataAddr {
		d.v = d.Data.Value()
	}
	if addr == d.triggerAddr && d.Data.Value() == 1 {
		fmt.Fprintln(d.Writer, d.v)
	}
}

package circuit

import "fmt"

// Net is a set of pins treated as electrically one. All pins on a net
// are one bit wide; at most one should be driving at steady state, but
// a second driver is only a (deduplicated) warning, never an error,
// since clock-phase decoders routinely assert conflicting lines for an
// instant while settling.
type Net struct {
	name string
	pins []*Pin
	pull *uint8

	sim    *Sim
	queued bool
}

func newNet(sim *Sim, name string) *Net {
	return &Net{name: name, sim: sim}
}

// SetPull gives the net a default level (0 or 1) to read as when no
// pin drives it. A nil pull leaves the net floating in that case.
func (n *Net) SetPull(v uint8) {
	n.pull = &v
}

func (n *Net) add(p *Pin) {
	p.net = n
	n.pins = append(n.pins, p)
}

// join merges other's pins into n.
func (n *Net) join(other *Net) {
	if other == n {
		return
	}
	for _, p := range other.pins {
		n.add(p)
	}
}

// driver returns the first driving pin on the net, and whether more
// than one pin is driving simultaneously.
func (n *Net) driver() (*Pin, bool) {
	var d *Pin
	multi := false
	for _, p := range n.pins {
		if !p.hiz {
			if d == nil {
				d = p
			} else {
				multi = true
			}
		}
	}
	return d, multi
}

// floating reports whether the net currently has neither a driver nor
// a pull value. Per spec, a floating net leaves all listeners
// untouched rather than forcing them to 0.
func (n *Net) floating() bool {
	d, _ := n.driver()
	return d == nil && n.pull == nil
}

// value returns the net's effective value: the first driver's value,
// else the pull, else 0.
func (n *Net) value() uint8 {
	d, multi := n.driver()
	if multi {
		n.sim.warnOnce(fmt.Sprintf("multiple drivers on net %q", n.name))
	}
	if d != nil {
		return d.value
	}
	if n.pull != nil {
		return *n.pull
	}
	return 0
}

func (n *Net) markDirty() {
	if n.sim == nil || n.queued {
		return
	}
	n.queued = true
	n.sim.queue = append(n.sim.queue, n)
}

package circuit

import (
	"fmt"
	"log"
)

// Sim owns the full set of components and nets for one simulation run
// and drives propagation with an explicit FIFO work queue. Cascades
// are bounded by structure (pins already at their target value drop
// silently) rather than by any recursion-depth limit, so a well-formed
// netlist always settles without risk of stack overflow.
type Sim struct {
	components []Component
	nets       map[string]*Net
	queue      []*Net
	warned     map[string]bool
}

// NewSim creates an empty simulation.
func NewSim() *Sim {
	return &Sim{
		nets:   map[string]*Net{},
		warned: map[string]bool{},
	}
}

// Add registers a component with the simulation and returns it
// unchanged, so construction can be written as
// reg := sim.Add(parts.NewRegister("a", 8)).(*parts.Register).
func (s *Sim) Add(c Component) Component {
	s.components = append(s.components, c)
	return c
}

// Components returns every component registered with Add, in
// registration order.
func (s *Sim) Components() []Component {
	return s.components
}

func (s *Sim) warnOnce(msg string) {
	if s.warned[msg] {
		return
	}
	s.warned[msg] = true
	log.Printf("circuit: warning: %s", msg)
}

// Connect joins a set of same-width signals pin-for-pin into nets: bit
// i of every signal ends up on one net. Connecting two already-wired
// signals merges their nets (union). It is a configuration error to
// connect signals of mismatched width.
func (s *Sim) Connect(name string, signals ...*Signal) error {
	if len(signals) < 2 {
		return fmt.Errorf("circuit: Connect(%q) needs at least two signals", name)
	}
	w := signals[0].Width()
	for _, sig := range signals[1:] {
		if sig.Width() != w {
			return fmt.Errorf("circuit: Connect(%q): width mismatch %d vs %d", name, w, sig.Width())
		}
	}
	for bit := 0; bit < w; bit++ {
		pins := make([]*Pin, 0, len(signals))
		for _, sig := range signals {
			pins = append(pins, sig.pins[bit])
		}
		netName := name
		if w > 1 {
			netName = fmt.Sprintf("%s[%d]", name, bit)
		}
		if err := s.connectPins(netName, pins); err != nil {
			return err
		}
	}
	return nil
}

// MustConnect is Connect but panics on error; useful for netlist
// wiring code where a width mismatch is a programmer bug, not a
// runtime condition to handle.
func (s *Sim) MustConnect(name string, signals ...*Signal) {
	if err := s.Connect(name, signals...); err != nil {
		panic(err)
	}
}

func (s *Sim) connectPins(name string, pins []*Pin) error {
	var net *Net
	for _, p := range pins {
		if p.net == nil {
			continue
		}
		if net == nil {
			net = p.net
		} else if net != p.net {
			net.join(p.net)
		}
	}
	if net == nil {
		net = newNet(s, name)
		s.nets[name] = net
	}
	for _, p := range pins {
		if p.net != net {
			net.add(p)
		}
	}
	return nil
}

// Reset drives every component's initial state (Component.Reset, in
// registration order) and settles the resulting cascade.
func (s *Sim) Reset() {
	for _, c := range s.components {
		c.Reset()
	}
	s.Settle()
}

// Settle drains the propagation work queue until no net has a pending
// update. It must be called after any external drive (Reset, or a
// clock tick) to let the cascade reach a fixed point.
func (s *Sim) Settle() {
	for len(s.queue) > 0 {
		n := s.queue[0]
		s.queue = s.queue[1:]
		n.queued = false
		s.settleNet(n)
	}
}

func (s *Sim) settleNet(n *Net) {
	if n.floating() {
		return
	}
	v := n.value()
	dirty := map[*Signal]bool{}
	for _, p := range n.pins {
		if !p.hiz {
			continue
		}
		if p.value == v {
			continue
		}
		dir := v
		p.edge = &dir
		p.value = v
		if p.sig != nil && p.sig.notify {
			dirty[p.sig] = true
		}
	}
	for sig := range dirty {
		if sig.parent != nil {
			sig.parent.Update(sig)
		}
	}
}

package circuit

// Base provides the Name() half of the Component interface so
// concrete chips only need to implement Reset and Update.
type Base struct {
	name string
}

// NewBase returns a Base with the given component name.
func NewBase(name string) Base {
	return Base{name: name}
}

// Name returns the component's name, as given at construction.
func (b Base) Name() string { return b.name }

package hal

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicatePin is returned by [Namespace.AddPin] when a pin with the
	// same name already exists.
	ErrDuplicatePin = errors.New("duplicate pin name")

	// ErrDuplicateSignal is returned by [Namespace.AddSignal] when a signal
	// with the same name already exists.
	ErrDuplicateSignal = errors.New("duplicate signal name")

	// ErrUnknownPin is returned by [Namespace.Link] when the pin does not exist.
	ErrUnknownPin = errors.New("unknown pin")

	// ErrAlreadyLinked is returned by [Namespace.Link] when the pin is already
	// bound to a different signal. HAL allows one signal per pin.
	ErrAlreadyLinked = errors.New("pin already linked to a signal")

	// ErrWriterExists is returned by [Namespace.Link] when linking a second
	// OUT pin to a signal.
	ErrWriterExists = errors.New("signal already has a writer")

	// ErrTypeMismatch is returned by [Namespace.Link] when pin and signal
	// carry different value types.
	ErrTypeMismatch = errors.New("pin and signal types differ")
)

// Namespace is an in-memory HAL namespace. Pins and signals enumerate in the
// order they were added.
//
// The zero value is not usable - use NewNamespace.
// Namespace is not safe for concurrent use without external synchronization.
type Namespace struct {
	pins    []*Pin
	pinIdx  map[string]*Pin
	signals []*Signal
	sigIdx  map[string]*Signal
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		pinIdx: make(map[string]*Pin),
		sigIdx: make(map[string]*Signal),
	}
}

// AddPin registers a pin. If p.Signal is set the pin is linked to that signal
// (creating it when needed), exactly as if [Namespace.Link] had been called.
func (n *Namespace) AddPin(p Pin) error {
	if _, ok := n.pinIdx[p.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePin, p.Name)
	}
	sig := p.Signal
	p.Signal = ""
	pin := &p
	n.pins = append(n.pins, pin)
	n.pinIdx[p.Name] = pin
	if sig != "" {
		return n.Link(p.Name, sig)
	}
	return nil
}

// AddSignal registers an unlinked signal.
func (n *Namespace) AddSignal(name string, t Type, value any) error {
	if _, ok := n.sigIdx[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSignal, name)
	}
	s := &Signal{Name: name, Type: t, Value: value}
	n.signals = append(n.signals, s)
	n.sigIdx[name] = s
	return nil
}

// Link binds pin to signal, creating the signal if it does not exist yet.
// An OUT pin becomes the signal's writer. Relinking a pin to the signal it is
// already bound to is a no-op.
func (n *Namespace) Link(pin, signal string) error {
	p, ok := n.pinIdx[pin]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPin, pin)
	}
	if p.Signal == signal {
		return nil
	}
	if p.Signal != "" {
		return fmt.Errorf("%w: %s is linked to %s", ErrAlreadyLinked, pin, p.Signal)
	}

	s, ok := n.sigIdx[signal]
	if !ok {
		s = &Signal{Name: signal, Type: p.Type}
		n.signals = append(n.signals, s)
		n.sigIdx[signal] = s
	}
	if s.Type == "" {
		s.Type = p.Type
	}
	if p.Type != "" && s.Type != p.Type {
		return fmt.Errorf("%w: %s is %s, %s is %s", ErrTypeMismatch, pin, p.Type, signal, s.Type)
	}
	if p.Dir == Out {
		if s.Writer != "" {
			return fmt.Errorf("%w: %s is written by %s", ErrWriterExists, signal, s.Writer)
		}
		s.Writer = pin
		s.Value = p.Value
	}
	if s.Value == nil {
		s.Value = p.Value
	}

	p.Signal = signal
	s.Pins = append(s.Pins, pin)
	return nil
}

// Pin returns a copy of the named pin.
func (n *Namespace) Pin(name string) (Pin, bool) {
	p, ok := n.pinIdx[name]
	if !ok {
		return Pin{}, false
	}
	return *p, true
}

// Len returns the number of pins and signals.
func (n *Namespace) Len() (pins, signals int) {
	return len(n.pins), len(n.signals)
}

// Pins implements [Provider].
func (n *Namespace) Pins(ctx context.Context) ([]Pin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Pin, len(n.pins))
	for i, p := range n.pins {
		out[i] = *p
	}
	return out, nil
}

// Signals implements [Provider].
func (n *Namespace) Signals(ctx context.Context) ([]Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Signal, len(n.signals))
	for i, s := range n.signals {
		out[i] = *s
		out[i].Pins = slices.Clone(s.Pins)
	}
	return out, nil
}

package service

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownComponent is returned when an action names an input component
// no handler was registered for. A miss is an error, never a silent
// fallback: the original system constructed component paths at runtime and
// failed silently when loading missed.
var ErrUnknownComponent = errors.New("unknown input component")

// InputComponent describes the input flow an update-flow action opens.
// The consuming UI renders it; the engine only resolves and validates it.
type InputComponent struct {
	Name        string
	Title       string
	NeedsUpload bool
}

// ComponentRegistry resolves an action's bound component identifier to a
// known input component at compile time.
type ComponentRegistry interface {
	// Register binds a component identifier. Re-registering an identifier
	// replaces the previous binding.
	Register(component InputComponent)

	// Resolve returns the component for the identifier or
	// ErrUnknownComponent.
	Resolve(name string) (InputComponent, error)

	// Names lists registered identifiers in sorted order.
	Names() []string
}

type componentRegistry struct {
	components map[string]InputComponent
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() ComponentRegistry {
	return &componentRegistry{components: make(map[string]InputComponent)}
}

// DefaultComponentRegistry returns a registry preloaded with the input
// flows the stage actions reference.
func DefaultComponentRegistry() ComponentRegistry {
	r := NewComponentRegistry()
	r.Register(InputComponent{Name: "respond-form", Title: "Respond to Query"})
	r.Register(InputComponent{Name: "reject-form", Title: "Reject Document"})
	r.Register(InputComponent{Name: "forward-form", Title: "Forward for Review"})
	r.Register(InputComponent{Name: "signature-pad", Title: "Append Signature"})
	r.Register(InputComponent{Name: "paper-dispatch", Title: "Dispatch Paper Copy", NeedsUpload: true})
	return r
}

func (r *componentRegistry) Register(component InputComponent) {
	r.components[component.Name] = component
}

func (r *componentRegistry) Resolve(name string) (InputComponent, error) {
	component, ok := r.components[name]
	if !ok {
		return InputComponent{}, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return component, nil
}

func (r *componentRegistry) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package domain

import (
	"encoding/json"
	"fmt"
)

// Component is attached to a node. It is either an InlineComponent or a
// ReferencedComponent.
type Component interface {
	ComponentName() string
	isComponent()
}

// InlineComponent carries its properties in the scene file
type InlineComponent struct {
	Name  string
	Props json.RawMessage
}

// ReferencedComponent points at an external payload. Payload holds the
// fetched bytes once the scene has been loaded; they are opaque and need
// not be JSON.
type ReferencedComponent struct {
	Name    string
	Src     string
	Payload []byte
}

func (c InlineComponent) ComponentName() string     { return c.Name }
func (c ReferencedComponent) ComponentName() string { return c.Name }

func (InlineComponent) isComponent()     {}
func (ReferencedComponent) isComponent() {}

// Component converts a persisted definition into its live form
func (d ComponentDef) Component() (Component, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("component name is required")
	}
	if d.Src != "" && len(d.Props) > 0 {
		return nil, fmt.Errorf("component %s: props and src are mutually exclusive", d.Name)
	}
	if d.Src != "" {
		return ReferencedComponent{Name: d.Name, Src: d.Src}, nil
	}
	return InlineComponent{Name: d.Name, Props: d.Props}, nil
}

// DefOf converts a live component back to its persisted form
func DefOf(c Component) ComponentDef {
	switch c := c.(type) {
	case ReferencedComponent:
		return ComponentDef{Name: c.Name, Src: c.Src}
	case InlineComponent:
		return ComponentDef{Name: c.Name, Props: c.Props}
	default:
		return ComponentDef{Name: c.ComponentName()}
	}
}

package registry

import (
	"sort"

	"sceneforge/internal/ports"
)

// BuiltinComponents are the component names known without configuration
var BuiltinComponents = []string{
	"transform",
	"mesh",
	"material",
	"light",
	"camera",
	"collider",
	"script",
	"audio",
}

// Static is a fixed set of known component names
type Static struct {
	names map[string]bool
}

var _ ports.ComponentRegistry = (*Static)(nil)

// NewStatic creates a registry of the given names
func NewStatic(names ...string) *Static {
	s := &Static{names: make(map[string]bool, len(names))}
	for _, n := range names {
		s.names[n] = true
	}
	return s
}

// Builtin creates a registry of BuiltinComponents plus extra names
func Builtin(extra ...string) *Static {
	return NewStatic(append(append([]string(nil), BuiltinComponents...), extra...)...)
}

// Known reports whether name is registered
func (s *Static) Known(name string) bool {
	return s.names[name]
}

// Names returns the registered names in sorted order
func (s *Static) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

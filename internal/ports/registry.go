package ports

// ComponentRegistry knows the component names the application understands.
// Props are never validated against it.
type ComponentRegistry interface {
	Known(name string) bool
	Names() []string
}

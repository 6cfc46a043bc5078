package transport

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"sceneforge/internal/ports"
)

// Mux dispatches fetches and writes to a transport by URI scheme
type Mux struct {
	schemes map[string]ports.Transport
}

var _ ports.Transport = (*Mux)(nil)

// NewMux creates an empty Mux
func NewMux() *Mux {
	return &Mux{schemes: make(map[string]ports.Transport)}
}

// Handle routes the given schemes to t. The empty scheme covers plain
// absolute paths.
func (m *Mux) Handle(t ports.Transport, schemes ...string) *Mux {
	for _, s := range schemes {
		m.schemes[strings.ToLower(s)] = t
	}
	return m
}

func (m *Mux) route(uri string) (ports.Transport, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid URI %q: %w", uri, err)
	}
	t, ok := m.schemes[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("unsupported URI scheme %q in %s", u.Scheme, uri)
	}
	return t, nil
}

// Fetch reads uri through the transport registered for its scheme
func (m *Mux) Fetch(ctx context.Context, uri string) ([]byte, error) {
	t, err := m.route(uri)
	if err != nil {
		return nil, err
	}
	return t.Fetch(ctx, uri)
}

// Write stores data at uri through the transport registered for its scheme
func (m *Mux) Write(ctx context.Context, uri string, data []byte) error {
	t, err := m.route(uri)
	if err != nil {
		return err
	}
	return t.Write(ctx, uri, data)
}

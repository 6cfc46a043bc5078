package application

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// DefaultPrefetchLimit bounds concurrent component payload fetches
const DefaultPrefetchLimit = 8

// Resolver loads a scene and, recursively, the scenes it inherits from,
// composing entities from every level into one live tree.
type Resolver struct {
	fetcher       ports.Fetcher
	geometry      ports.GeometryLoader
	registry      ports.ComponentRegistry
	log           logrus.FieldLogger
	prefetch      bool
	prefetchLimit int
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithGeometryLoader delegates geometry formats to loader
func WithGeometryLoader(loader ports.GeometryLoader) ResolverOption {
	return func(r *Resolver) { r.geometry = loader }
}

// WithComponentRegistry reports component names the registry does not know
func WithComponentRegistry(registry ports.ComponentRegistry) ResolverOption {
	return func(r *Resolver) { r.registry = registry }
}

// WithLogger sets the logger used for load diagnostics
func WithLogger(log logrus.FieldLogger) ResolverOption {
	return func(r *Resolver) { r.log = log }
}

// WithPrefetch fetches the component payloads of a level concurrently
// before attaching entities. Attachment itself stays in order.
func WithPrefetch(limit int) ResolverOption {
	return func(r *Resolver) {
		r.prefetch = true
		if limit > 0 {
			r.prefetchLimit = limit
		}
	}
}

// NewResolver creates a Resolver reading scenes through fetcher
func NewResolver(fetcher ports.Fetcher, opts ...ResolverOption) *Resolver {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Resolver{
		fetcher:       fetcher,
		log:           discard,
		prefetchLimit: DefaultPrefetchLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load composes the scene at uri. Any failure along the inheritance chain
// aborts the whole load; no partial tree is returned.
func (r *Resolver) Load(ctx context.Context, uri string) (*domain.Scene, error) {
	return r.loadLevel(ctx, uri, make(map[string]bool), 0)
}

func (r *Resolver) loadLevel(ctx context.Context, uri string, visiting map[string]bool, depth int) (*domain.Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Kind: LoadErrorFetch, URI: uri, Err: err}
	}
	if visiting[uri] {
		return nil, &LoadError{Kind: LoadErrorInheritanceCycle, URI: uri}
	}
	visiting[uri] = true

	log := r.log.WithFields(logrus.Fields{"uri": uri, "depth": depth})
	log.Debug("loading scene level")

	if r.geometry != nil && r.geometry.Supports(uri) {
		return r.loadGeometry(ctx, uri)
	}

	data, err := r.fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, &LoadError{Kind: LoadErrorFetch, URI: uri, Err: err}
	}

	def, err := domain.ParsePersistedScene(data)
	if err != nil {
		return nil, &LoadError{Kind: LoadErrorParse, URI: uri, Err: err}
	}
	if err := ValidateDefinition(uri, def); err != nil {
		return nil, err
	}

	var scene *domain.Scene
	if def.Inherits != "" {
		parentURI, err := domain.ResolveRelative(uri, def.Inherits)
		if err != nil {
			return nil, &LoadError{Kind: LoadErrorInvalidDefinition, URI: uri, Err: err}
		}

		scene, err = r.loadLevel(ctx, parentURI, visiting, depth+1)
		if err != nil {
			return nil, err
		}

		// Only what this level defines gets saved back to it
		scene.Root.ClearSaveMarkers()
		scene.Chain = append(scene.Chain, parentURI)
		scene.Inherits = parentURI
		scene.URI = uri
		scene.Geometry = false
	} else {
		scene = domain.NewScene(uri, def.Root)
	}

	if err := domain.ResolveEntityRefs(def.Entities, uri); err != nil {
		return nil, &LoadError{Kind: LoadErrorInvalidDefinition, URI: uri, Err: err}
	}

	payloads, err := r.prefetchPayloads(ctx, def.Entities)
	if err != nil {
		return nil, err
	}

	layout := newLevelLayout()
	for _, name := range domain.OrderEntities(def.Entities, def.EntityOrder) {
		if err := r.attach(ctx, scene, name, def.Entities[name], payloads, layout, log); err != nil {
			return nil, err
		}
	}
	layout.apply()

	for _, healed := range scene.HealMissing() {
		log.WithField("node", healed.Target.Name).Info("missing parent resolved")
	}
	scene.Refresh()

	return scene, nil
}

func (r *Resolver) loadGeometry(ctx context.Context, uri string) (*domain.Scene, error) {
	root, err := r.geometry.Load(ctx, uri)
	if err != nil {
		kind := LoadErrorFetch
		if errors.Is(err, ports.ErrMalformedGeometry) {
			kind = LoadErrorParse
		}
		return nil, &LoadError{Kind: kind, URI: uri, Err: err}
	}
	scene := &domain.Scene{
		URI:      uri,
		Root:     root,
		Tracker:  domain.NewConflictTracker(),
		Geometry: true,
	}
	scene.Refresh()
	return scene, nil
}

// attach finds or creates the node for one entity, places it under its
// declared parent and instantiates its components.
func (r *Resolver) attach(ctx context.Context, scene *domain.Scene, name string, rec domain.EntityRecord, payloads map[string][]byte, layout *levelLayout, log logrus.FieldLogger) error {
	node := scene.FindByName(name)
	created := node == nil
	if created {
		node = domain.NewNode(name)
	}

	switch {
	case node == scene.Root:
		if rec.Parent != nil {
			log.WithField("entity", name).Warn("root entity cannot have a parent")
		}

	case rec.Parent != nil && *rec.Parent != "":
		parent := scene.FindByName(*rec.Parent)
		if parent != nil && node.Contains(parent) {
			log.WithFields(logrus.Fields{"entity": name, "parent": *rec.Parent}).
				Warn("parent is a descendant, keeping current position")
			if created {
				scene.Root.AddChild(node)
			}
			break
		}
		if parent == nil {
			log.WithFields(logrus.Fields{"entity": name, "parent": *rec.Parent}).
				Warn("parent not found, creating missing placeholder")
			parent = scene.EnsurePlaceholder(*rec.Parent)
		}
		parent.InsertChild(node, indexOr(rec.Index, len(parent.Children)))
		layout.pin(parent, node, rec.Index)
		node.SaveParent = true

	case created:
		scene.Root.InsertChild(node, indexOr(rec.Index, len(scene.Root.Children)))
		layout.pin(scene.Root, node, rec.Index)
		node.SaveParent = true

	case rec.Index != nil && node.Parent != nil:
		node.Parent.InsertChild(node, *rec.Index)
		layout.pin(node.Parent, node, rec.Index)
		node.SaveParent = true
	}

	for _, def := range rec.Components {
		comp, err := def.Component()
		if err != nil {
			return &LoadError{Kind: LoadErrorInvalidDefinition, URI: scene.URI, Err: err}
		}

		if ref, ok := comp.(domain.ReferencedComponent); ok {
			payload, ok := payloads[ref.Src]
			if !ok {
				payload, err = r.fetcher.Fetch(ctx, ref.Src)
				if err != nil {
					return &LoadError{Kind: LoadErrorFetch, URI: ref.Src, Err: err}
				}
			}
			ref.Payload = payload
			comp = ref
		}

		if r.registry != nil && !r.registry.Known(def.Name) {
			log.WithFields(logrus.Fields{"entity": name, "component": def.Name}).
				Warn("unknown component")
			scene.UnknownComponents = appendUnique(scene.UnknownComponents, def.Name)
		}
		node.SetComponent(comp, true)
	}
	return nil
}

// prefetchPayloads fetches every referenced component payload of a level
// concurrently. Returns nil when prefetching is disabled.
func (r *Resolver) prefetchPayloads(ctx context.Context, entities map[string]domain.EntityRecord) (map[string][]byte, error) {
	if !r.prefetch {
		return nil, nil
	}

	var srcs []string
	seen := make(map[string]bool)
	for _, rec := range entities {
		for _, def := range rec.Components {
			if def.Src != "" && !seen[def.Src] {
				seen[def.Src] = true
				srcs = append(srcs, def.Src)
			}
		}
	}

	payloads := make(map[string][]byte, len(srcs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.prefetchLimit)
	for _, src := range srcs {
		g.Go(func() error {
			data, err := r.fetcher.Fetch(gctx, src)
			if err != nil {
				return &LoadError{Kind: LoadErrorFetch, URI: src, Err: err}
			}
			mu.Lock()
			payloads[src] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return payloads, nil
}

// levelLayout remembers the declared index of every node one level placed.
// Inserting in load order can clamp an index that counts a sibling created
// later in the level, such as a missing placeholder, so apply settles the
// pinned nodes once all of them are attached.
type levelLayout struct {
	parents []*domain.Node
	pinned  map[*domain.Node][]pinnedChild
}

type pinnedChild struct {
	node  *domain.Node
	index int
}

func newLevelLayout() *levelLayout {
	return &levelLayout{pinned: make(map[*domain.Node][]pinnedChild)}
}

func (l *levelLayout) pin(parent, node *domain.Node, index *int) {
	if index == nil {
		return
	}
	if _, seen := l.pinned[parent]; !seen {
		l.parents = append(l.parents, parent)
	}
	l.pinned[parent] = append(l.pinned[parent], pinnedChild{node: node, index: *index})
}

// apply reinserts pinned children in ascending index order around the
// unpinned ones, which keep their relative order.
func (l *levelLayout) apply() {
	for _, parent := range l.parents {
		var pins []pinnedChild
		for _, p := range l.pinned[parent] {
			if p.node.Parent == parent {
				pins = append(pins, p)
			}
		}
		sort.SliceStable(pins, func(i, j int) bool { return pins[i].index < pins[j].index })

		for _, p := range pins {
			p.node.Detach()
		}
		for _, p := range pins {
			parent.InsertChild(p.node, p.index)
		}
	}
}

func indexOr(index *int, fallback int) int {
	if index == nil {
		return fallback
	}
	return *index
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

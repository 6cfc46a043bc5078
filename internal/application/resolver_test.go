package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// memFetcher serves documents from memory and records what was fetched
type memFetcher struct {
	mu      sync.Mutex
	docs    map[string]string
	fetched []string
}

func newMemFetcher(docs map[string]string) *memFetcher {
	return &memFetcher{docs: docs}
}

func (f *memFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, uri)
	doc, ok := f.docs[uri]
	if !ok {
		return nil, fmt.Errorf("no document at %s", uri)
	}
	return []byte(doc), nil
}

func (f *memFetcher) Write(_ context.Context, uri string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[uri] = string(data)
	return nil
}

type fakeGeometry struct {
	root *domain.Node
	err  error
}

func (g *fakeGeometry) Supports(uri string) bool { return strings.HasSuffix(uri, ".gltf") }

func (g *fakeGeometry) Load(_ context.Context, _ string) (*domain.Node, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.root, nil
}

type fakeRegistry map[string]bool

func (r fakeRegistry) Known(name string) bool { return r[name] }
func (r fakeRegistry) Names() []string        { return nil }

func childNames(n *domain.Node) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Name)
	}
	return out
}

func TestResolver_MissingPlaceholderSynthesis(t *testing.T) {
	f := newMemFetcher(map[string]string{
		"file:///s/x.scene": `{"root": "world", "entities": {"X": {"parent": "Y"}}}`,
	})

	scene, err := NewResolver(f).Load(context.Background(), "file:///s/x.scene")
	require.NoError(t, err)

	y := scene.FindPlaceholder("Y")
	require.NotNil(t, y)
	assert.Equal(t, []string{"X"}, childNames(y))

	st, ok := scene.Tracker.Status(y)
	require.True(t, ok)
	assert.True(t, st.IsMissingRoot)

	x := scene.FindByName("X")
	xst, _ := scene.Tracker.Status(x)
	assert.True(t, xst.Missing)
	assert.False(t, xst.IsMissingRoot)

	assert.True(t, scene.ConflictInfo().Missing)
}

func TestResolver_LaterLevelHealsMissingParent(t *testing.T) {
	f := newMemFetcher(map[string]string{
		"file:///s/base.scene":  `{"root": "world", "entities": {"X": {"parent": "Y"}}}`,
		"file:///s/child.scene": `{"inherits": "./base.scene", "entities": {"Y": {"index": 0}}}`,
	})

	scene, err := NewResolver(f).Load(context.Background(), "file:///s/child.scene")
	require.NoError(t, err)

	y := scene.FindByName("Y")
	require.NotNil(t, y)
	assert.Nil(t, scene.FindPlaceholder("Y"))
	assert.Equal(t, []string{"X"}, childNames(y))
	assert.Empty(t, scene.Tracker.MissingRoots(scene.Root))
	assert.False(t, scene.ConflictInfo().Missing)
	assert.Equal(t, []string{"Y"}, childNames(scene.Root))
}

func TestResolver_InheritanceChainOrder(t *testing.T) {
	f := newMemFetcher(map[string]string{
		"file:///s/a.scene":    `{"inherits": "./b.scene"}`,
		"file:///s/b.scene":    `{"inherits": "../base/c.scene", "entities": {"lamp": {}}}`,
		"file:///base/c.scene": `{"root": "world", "entities": {"floor": {}}}`,
	})

	scene, err := NewResolver(f).Load(context.Background(), "file:///s/a.scene")
	require.NoError(t, err)

	assert.Equal(t, []string{"file:///base/c.scene", "file:///s/b.scene"}, scene.Chain)
	assert.Equal(t, "file:///s/b.scene", scene.Inherits)
	assert.Equal(t, "file:///s/a.scene", scene.URI)
	assert.Equal(t, "world", scene.Root.Name)
	assert.Equal(t, []string{"floor", "lamp"}, childNames(scene.Root))

	// Inherited entities are not marked for saving at the top level
	assert.False(t, scene.FindByName("lamp").SaveParent)
}

func TestResolver_Errors(t *testing.T) {
	tests := []struct {
		name    string
		docs    map[string]string
		uri     string
		target  error
		failURI string
	}{
		{
			name:    "fetch failure on ancestor",
			docs:    map[string]string{"file:///a.scene": `{"inherits": "./gone.scene"}`},
			uri:     "file:///a.scene",
			target:  ErrFetch,
			failURI: "file:///gone.scene",
		},
		{
			name:    "parse failure",
			docs:    map[string]string{"file:///a.scene": `{"root": `},
			uri:     "file:///a.scene",
			target:  ErrParse,
			failURI: "file:///a.scene",
		},
		{
			name:    "both inherits and root",
			docs:    map[string]string{"file:///a.scene": `{"root": "w", "inherits": "./b.scene"}`},
			uri:     "file:///a.scene",
			target:  ErrInvalidDefinition,
			failURI: "file:///a.scene",
		},
		{
			name:    "neither inherits nor root",
			docs:    map[string]string{"file:///a.scene": `{"entities": {}}`},
			uri:     "file:///a.scene",
			target:  ErrInvalidDefinition,
			failURI: "file:///a.scene",
		},
		{
			name: "inheritance cycle",
			docs: map[string]string{
				"file:///a.scene": `{"inherits": "./b.scene"}`,
				"file:///b.scene": `{"inherits": "./a.scene"}`,
			},
			uri:     "file:///a.scene",
			target:  ErrInheritanceCycle,
			failURI: "file:///a.scene",
		},
		{
			name: "component fetch failure",
			docs: map[string]string{
				"file:///a.scene": `{"root": "w", "entities": {"e": {"components": [{"name": "mesh", "src": "./m.json"}]}}}`,
			},
			uri:     "file:///a.scene",
			target:  ErrFetch,
			failURI: "file:///m.json",
		},
		{
			name: "component with props and src",
			docs: map[string]string{
				"file:///a.scene": `{"root": "w", "entities": {"e": {"components": [{"name": "c", "src": "./m.json", "props": 1}]}}}`,
			},
			uri:     "file:///a.scene",
			target:  ErrInvalidDefinition,
			failURI: "file:///a.scene",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := NewResolver(newMemFetcher(tt.docs)).Load(context.Background(), tt.uri)
			require.Error(t, err)
			assert.Nil(t, scene)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.failURI, loadErr.URI)
		})
	}
}

func TestResolver_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newMemFetcher(map[string]string{"file:///a.scene": `{"root": "w"}`})
	_, err := NewResolver(f).Load(ctx, "file:///a.scene")

	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolver_ComponentsAcrossLevels(t *testing.T) {
	docs := map[string]string{
		"file:///lib/base.scene": `{"root": "world", "entities": {
			"lamp": {"components": [
				{"name": "light", "props": {"intensity": 1}},
				{"name": "mesh", "src": "./lamp.json"}
			]}
		}}`,
		"file:///lib/lamp.json": `{"vertices": 8}`,
		"file:///app/room.scene": `{"inherits": "../lib/base.scene", "entities": {
			"lamp": {"components": [{"name": "light", "props": {"intensity": 5}}]}
		}}`,
	}

	for _, prefetch := range []bool{false, true} {
		t.Run(fmt.Sprintf("prefetch=%v", prefetch), func(t *testing.T) {
			var opts []ResolverOption
			if prefetch {
				opts = append(opts, WithPrefetch(2))
			}
			scene, err := NewResolver(newMemFetcher(docs), opts...).Load(context.Background(), "file:///app/room.scene")
			require.NoError(t, err)

			lamp := scene.FindByName("lamp")
			require.NotNil(t, lamp)
			require.Len(t, lamp.Components, 2)

			light, ok := lamp.Component("light")
			require.True(t, ok)
			assert.JSONEq(t, `{"intensity": 5}`, string(light.(domain.InlineComponent).Props))

			mesh, ok := lamp.Component("mesh")
			require.True(t, ok)
			ref := mesh.(domain.ReferencedComponent)
			assert.Equal(t, "file:///lib/lamp.json", ref.Src)
			assert.JSONEq(t, `{"vertices": 8}`, string(ref.Payload))

			// Only the override made at the top level is saved
			saved := lamp.SavedComponents()
			require.Len(t, saved, 1)
			assert.Equal(t, "light", saved[0].ComponentName())
		})
	}
}

func TestResolver_BinaryPayloadIsKeptVerbatim(t *testing.T) {
	model := "glTF\x02\x00\x00\x00\xff\xfe"
	f := newMemFetcher(map[string]string{
		"file:///s/a.scene": `{"root": "w", "entities": {"car": {"components": [{"name": "mesh", "src": "./car.glb"}]}}}`,
		"file:///s/car.glb": model,
	})

	scene, err := NewResolver(f).Load(context.Background(), "file:///s/a.scene")
	require.NoError(t, err)

	mesh, ok := scene.FindByName("car").Component("mesh")
	require.True(t, ok)
	assert.Equal(t, []byte(model), mesh.(domain.ReferencedComponent).Payload)

	out := NewSerializer().Serialize(scene, "file:///s/a.scene")
	data, err := out.Marshal()
	require.NoError(t, err)
	assert.Equal(t, []domain.ComponentDef{{Name: "mesh", Src: "./car.glb"}}, out.Entities["car"].Components)
	assert.NotContains(t, string(data), "glTF")
}

func TestResolver_IndexPlacement(t *testing.T) {
	f := newMemFetcher(map[string]string{
		"file:///a.scene": `{"root": "w", "entities": {
			"c": {"parent": "w", "index": 2},
			"a": {"parent": "w", "index": 0},
			"far": {"parent": "w", "index": 99},
			"b": {"parent": "w", "index": 1}
		}}`,
	})

	scene, err := NewResolver(f).Load(context.Background(), "file:///a.scene")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "far"}, childNames(scene.Root))
}

func TestResolver_GeometryDelegation(t *testing.T) {
	root := domain.NewNode("model")
	root.AddChild(domain.NewNode(""))
	root.AddChild(domain.NewNode("wheel"))

	f := newMemFetcher(map[string]string{
		"file:///car.scene": `{"inherits": "./car.gltf", "entities": {"wheel": {"components": [{"name": "spin", "props": true}]}}}`,
	})
	r := NewResolver(f, WithGeometryLoader(&fakeGeometry{root: root}))

	scene, err := r.Load(context.Background(), "file:///car.scene")
	require.NoError(t, err)

	assert.False(t, scene.Geometry)
	assert.Equal(t, "file:///car.gltf", scene.Inherits)
	assert.Equal(t, []string{"node_0", "wheel"}, childNames(scene.Root))
	assert.NotContains(t, f.fetched, "file:///car.gltf")

	geo, err := r.Load(context.Background(), "file:///car.gltf")
	require.NoError(t, err)
	assert.True(t, geo.Geometry)
	assert.NotNil(t, geo.Tracker)
}

func TestResolver_GeometryErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"unreadable asset", errors.New("connection reset"), ErrFetch},
		{"malformed asset", fmt.Errorf("%w: glTF node index 4 out of range", ports.ErrMalformedGeometry), ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(newMemFetcher(map[string]string{}), WithGeometryLoader(&fakeGeometry{err: tt.err}))
			scene, err := r.Load(context.Background(), "file:///car.gltf")
			require.Error(t, err)
			assert.Nil(t, scene)
			assert.ErrorIs(t, err, tt.target)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, "file:///car.gltf", loadErr.URI)
		})
	}
}

func TestResolver_UnknownComponents(t *testing.T) {
	f := newMemFetcher(map[string]string{
		"file:///a.scene": `{"root": "w", "entities": {"e": {"components": [
			{"name": "light", "props": 1}, {"name": "weird", "props": 2}
		]}}}`,
	})

	scene, err := NewResolver(f, WithComponentRegistry(fakeRegistry{"light": true})).
		Load(context.Background(), "file:///a.scene")
	require.NoError(t, err)
	assert.Equal(t, []string{"weird"}, scene.UnknownComponents)
	assert.Len(t, scene.FindByName("e").Components, 2)
}

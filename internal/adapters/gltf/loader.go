package gltf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// document is the subset of a glTF 2.0 JSON file the loader reads
type document struct {
	Scene  *int        `json:"scene"`
	Scenes []sceneDef  `json:"scenes"`
	Nodes  []nodeDef   `json:"nodes"`
	Asset  assetHeader `json:"asset"`
}

type assetHeader struct {
	Version string `json:"version"`
}

type sceneDef struct {
	Name  string `json:"name"`
	Nodes []int  `json:"nodes"`
}

type nodeDef struct {
	Name     string `json:"name"`
	Children []int  `json:"children"`
	Extras   struct {
		Components []domain.ComponentDef `json:"components"`
	} `json:"extras"`
}

// Loader builds scene subtrees from .gltf files
type Loader struct {
	fetcher ports.Fetcher
}

var _ ports.GeometryLoader = (*Loader)(nil)

// NewLoader creates a loader reading files through fetcher
func NewLoader(fetcher ports.Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// Supports reports whether uri names a glTF asset. Binary .glb files are
// claimed too so that they fail with a clear error.
func (l *Loader) Supports(uri string) bool {
	ext := strings.ToLower(path.Ext(uriPath(uri)))
	return ext == ".gltf" || ext == ".glb"
}

// Load reads the default scene of the asset into a node tree. The root is
// named after the glTF scene, falling back to the file name.
func (l *Loader) Load(ctx context.Context, uri string) (*domain.Node, error) {
	if strings.EqualFold(path.Ext(uriPath(uri)), ".glb") {
		return nil, fmt.Errorf("%w: binary glTF is not supported: %s", ports.ErrMalformedGeometry, uri)
	}

	data, err := l.fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse glTF %s: %w", ports.ErrMalformedGeometry, uri, err)
	}
	if doc.Asset.Version != "" && !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: unsupported glTF version %s", ports.ErrMalformedGeometry, doc.Asset.Version)
	}

	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = *doc.Scene
	}

	base := path.Base(uriPath(uri))
	root := domain.NewNode(strings.TrimSuffix(base, path.Ext(base)))
	if len(doc.Scenes) == 0 {
		return root, nil
	}
	if sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
		return nil, fmt.Errorf("%w: glTF scene index %d out of range", ports.ErrMalformedGeometry, sceneIndex)
	}

	scene := doc.Scenes[sceneIndex]
	if scene.Name != "" {
		root.Name = scene.Name
	}

	visiting := make(map[int]bool)
	for _, idx := range scene.Nodes {
		child, err := l.buildNode(&doc, idx, visiting)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	return root, nil
}

func (l *Loader) buildNode(doc *document, idx int, visiting map[int]bool) (*domain.Node, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, fmt.Errorf("%w: glTF node index %d out of range", ports.ErrMalformedGeometry, idx)
	}
	if visiting[idx] {
		return nil, fmt.Errorf("%w: glTF node %d is its own ancestor", ports.ErrMalformedGeometry, idx)
	}
	visiting[idx] = true
	defer delete(visiting, idx)

	def := doc.Nodes[idx]
	node := domain.NewNode(def.Name)
	for _, cd := range def.Extras.Components {
		if cd.Src != "" {
			return nil, fmt.Errorf("%w: glTF node %d: component %s must be inline", ports.ErrMalformedGeometry, idx, cd.Name)
		}
		comp, err := cd.Component()
		if err != nil {
			return nil, fmt.Errorf("%w: glTF node %d: %w", ports.ErrMalformedGeometry, idx, err)
		}
		node.SetComponent(comp, false)
	}

	for _, c := range def.Children {
		child, err := l.buildNode(doc, c, visiting)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
	}
	return node, nil
}

func uriPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return u.Path
}

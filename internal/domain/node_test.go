package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestNode_InsertChildClampsAndReparents(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")

	assert.Equal(t, 0, root.InsertChild(a, 5))
	assert.Equal(t, 0, root.InsertChild(b, 0))
	assert.Equal(t, 1, root.InsertChild(c, 1))
	assert.Equal(t, []string{"b", "c", "a"}, names(root.Children))

	a.AddChild(c)
	assert.Equal(t, []string{"b", "a"}, names(root.Children))
	assert.Same(t, a, c.Parent)
	assert.Equal(t, []int{1, 0}, c.Position())
	assert.Equal(t, 2, c.Depth())
	assert.True(t, root.Contains(c))
	assert.False(t, b.Contains(c))
}

func TestNode_IDsAreUnique(t *testing.T) {
	a := NewNode("x")
	b := NewNode("x")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNode_Flatten(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	root.AddChild(a)
	a.AddChild(b)

	assert.Equal(t, []string{"root"}, names(root.Flatten()))

	root.Expand()
	assert.Equal(t, []string{"root", "a"}, names(root.Flatten()))

	a.Toggle()
	assert.Equal(t, []string{"root", "a", "b"}, names(root.Flatten()))
}

func TestNode_Components(t *testing.T) {
	n := NewNode("n")
	n.SetComponent(InlineComponent{Name: "light", Props: []byte(`1`)}, false)
	n.SetComponent(InlineComponent{Name: "tag", Props: []byte(`"a"`)}, true)
	n.SetComponent(InlineComponent{Name: "light", Props: []byte(`2`)}, true)

	assert.Len(t, n.Components, 2)
	c, ok := n.Component("light")
	assert.True(t, ok)
	assert.Equal(t, []byte(`2`), []byte(c.(InlineComponent).Props))
	assert.Len(t, n.SavedComponents(), 2)

	n.ClearSaveMarkers()
	assert.Empty(t, n.SavedComponents())
}

func TestNode_MarkComponentsSaved(t *testing.T) {
	n := NewNode("n")
	n.SetComponent(InlineComponent{Name: "light", Props: []byte(`1`)}, false)
	n.SetComponent(ReferencedComponent{Name: "mesh", Src: "file:///m.json"}, false)
	assert.Empty(t, n.SavedComponents())

	n.MarkComponentsSaved()
	assert.Len(t, n.SavedComponents(), 2)
}

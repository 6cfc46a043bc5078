package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestOrderEntities_ParentsBeforeChildren(t *testing.T) {
	entities := map[string]EntityRecord{
		"wheel":  {Parent: ptr("car"), Index: ptr(1)},
		"car":    {Parent: ptr("garage")},
		"garage": {},
		"door":   {Parent: ptr("car"), Index: ptr(0)},
		"bolt":   {Parent: ptr("wheel")},
	}
	declared := []string{"wheel", "car", "garage", "door", "bolt"}

	got := OrderEntities(entities, declared)

	assert.Equal(t, []string{"garage", "car", "door", "wheel", "bolt"}, got)
	assertParentsFirst(t, entities, got)
}

func TestOrderEntities_TieBreakIsDeclarationOrder(t *testing.T) {
	entities := map[string]EntityRecord{
		"root": {},
		"c":    {Parent: ptr("root"), Index: ptr(0)},
		"a":    {Parent: ptr("root"), Index: ptr(0)},
		"b":    {Parent: ptr("root")},
		"d":    {Parent: ptr("root")},
	}
	declared := []string{"root", "d", "c", "b", "a"}

	got := OrderEntities(entities, declared)

	assert.Equal(t, []string{"root", "c", "a", "d", "b"}, got)
}

func TestOrderEntities_DanglingParentsGoLast(t *testing.T) {
	entities := map[string]EntityRecord{
		"x":     {Parent: ptr("ghost")},
		"plain": {},
		"y":     {Parent: ptr("ghost"), Index: ptr(0)},
		"child": {Parent: ptr("x")},
	}
	declared := []string{"x", "plain", "y", "child"}

	got := OrderEntities(entities, declared)

	assert.Equal(t, []string{"plain", "y", "x", "child"}, got)
}

func TestOrderEntities_EmitsEveryEntityOnceEvenWithCycles(t *testing.T) {
	entities := map[string]EntityRecord{
		"a": {Parent: ptr("b")},
		"b": {Parent: ptr("a")},
		"c": {},
	}

	got := OrderEntities(entities, []string{"a", "b", "c"})

	require.Len(t, got, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, "c", got[0])
}

func TestOrderEntities_UndeclaredNamesAreSorted(t *testing.T) {
	entities := map[string]EntityRecord{"z": {}, "m": {}, "a": {}}

	assert.Equal(t, []string{"a", "m", "z"}, OrderEntities(entities, nil))
}

func assertParentsFirst(t *testing.T, entities map[string]EntityRecord, order []string) {
	t.Helper()
	pos := make(map[string]int)
	for i, name := range order {
		pos[name] = i
	}
	for name, rec := range entities {
		if rec.Parent == nil {
			continue
		}
		if p, ok := pos[*rec.Parent]; ok {
			assert.Less(t, p, pos[name], "%s must come after its parent %s", name, *rec.Parent)
		}
	}
}

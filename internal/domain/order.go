package domain

import (
	"slices"
	"sort"
)

// OrderEntities returns entity names so that every parent present in the
// map comes before its children. Siblings are sorted by index; entities
// without an index go after indexed ones, and ties keep declaration order.
//
// Entities whose parent is absent from the map are emitted after all
// others, grouped by that parent in first-declaration order. They become
// missing placeholders during tree construction, not here.
func OrderEntities(entities map[string]EntityRecord, declared []string) []string {
	order := declarationOrder(entities, declared)
	position := make(map[string]int, len(order))
	for i, name := range order {
		position[name] = i
	}

	var roots []string
	children := make(map[string][]string)
	dangling := make(map[string][]string)
	var danglingParents []string

	for _, name := range order {
		rec := entities[name]
		switch {
		case rec.Parent == nil || *rec.Parent == "" || *rec.Parent == name:
			roots = append(roots, name)
		case hasEntity(entities, *rec.Parent):
			children[*rec.Parent] = append(children[*rec.Parent], name)
		default:
			p := *rec.Parent
			if _, seen := dangling[p]; !seen {
				danglingParents = append(danglingParents, p)
			}
			dangling[p] = append(dangling[p], name)
		}
	}

	byIndex := func(group []string) []string {
		sorted := slices.Clone(group)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := entities[sorted[i]].Index, entities[sorted[j]].Index
			switch {
			case a != nil && b != nil:
				if *a != *b {
					return *a < *b
				}
				return position[sorted[i]] < position[sorted[j]]
			case a != nil:
				return true
			case b != nil:
				return false
			default:
				return position[sorted[i]] < position[sorted[j]]
			}
		})
		return sorted
	}

	out := make([]string, 0, len(order))
	emitted := make(map[string]bool, len(order))
	var visit func(name string)
	visit = func(name string) {
		if emitted[name] {
			return
		}
		emitted[name] = true
		out = append(out, name)
		for _, c := range byIndex(children[name]) {
			visit(c)
		}
	}

	for _, r := range roots {
		visit(r)
	}
	for _, p := range danglingParents {
		for _, c := range byIndex(dangling[p]) {
			visit(c)
		}
	}
	// Parent cycles inside the map are never reached from a root
	for _, name := range order {
		visit(name)
	}
	return out
}

func hasEntity(entities map[string]EntityRecord, name string) bool {
	_, ok := entities[name]
	return ok
}

// declarationOrder returns declared names present in the map, followed by
// any remaining names in sorted order.
func declarationOrder(entities map[string]EntityRecord, declared []string) []string {
	order := make([]string, 0, len(entities))
	seen := make(map[string]bool, len(entities))
	for _, name := range declared {
		if _, ok := entities[name]; ok && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range entities {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

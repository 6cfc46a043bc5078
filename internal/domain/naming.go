package domain

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
)

var suffixRegex = regexp.MustCompile(`^(.+)_([0-9]+)$`)

// SplitName splits a trailing "_<digits>" disambiguation suffix off a name.
// suffixed is false when the name has none.
func SplitName(name string) (base string, n int, suffixed bool) {
	m := suffixRegex.FindStringSubmatch(name)
	if m == nil {
		return name, 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return name, 0, false
	}
	return m[1], n, true
}

// BaseName returns name without its "_<digits>" suffix
func BaseName(name string) string {
	base, _, _ := SplitName(name)
	return base
}

// TreePathKey joins a tree path as "0-2-1"
func TreePathKey(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, "-")
}

// UnnamedNodeName derives the name given to a node that has none
func UnnamedNodeName(path []int) string {
	return "node_" + TreePathKey(path)
}

// PathHash returns a short deterministic hash of a tree path
func PathHash(path []int) string {
	h := fnv.New32a()
	h.Write([]byte(TreePathKey(path)))
	return fmt.Sprintf("%08x", h.Sum32())
}

// NameAllocator hands out unique names per base and keeps live reference
// counts of every name in use.
type NameAllocator struct {
	// counters holds the highest suffix issued or reserved for a base
	counters map[string]int
	// refs counts live uses of each exact name
	refs map[string]int
	// baseRefs counts live uses of any name sharing a base
	baseRefs map[string]int
}

// NewNameAllocator creates an empty allocator
func NewNameAllocator() *NameAllocator {
	return &NameAllocator{
		counters: make(map[string]int),
		refs:     make(map[string]int),
		baseRefs: make(map[string]int),
	}
}

// Add registers a use of name and returns the name actually granted. The
// first use of a base gets the name unchanged; a name already in use gets
// the next free "_<n>" suffix for its base. An explicit suffix reserves
// that slot.
func (a *NameAllocator) Add(name string) string {
	base, n, _ := SplitName(name)

	counter, known := a.counters[base]
	if !known {
		a.counters[base] = n
		a.use(name, base)
		return name
	}

	if a.refs[name] == 0 {
		if n > counter {
			a.counters[base] = n
		}
		a.use(name, base)
		return name
	}

	for {
		counter++
		candidate := base + "_" + strconv.Itoa(counter)
		if a.refs[candidate] == 0 {
			a.counters[base] = counter
			a.use(candidate, base)
			return candidate
		}
	}
}

// Remove releases one use of name. Names without a live use are ignored.
// The base entry itself is only dropped by PruneUnused.
func (a *NameAllocator) Remove(name string) {
	if a.refs[name] == 0 {
		return
	}
	base := BaseName(name)
	a.refs[name]--
	if a.refs[name] == 0 {
		delete(a.refs, name)
	}
	a.baseRefs[base]--
	if a.baseRefs[base] == 0 {
		delete(a.baseRefs, base)
	}
	if a.counters[base] > 0 {
		a.counters[base]--
	}
}

// IsUnique reports whether name can be used without colliding. A bare base
// is only free while no name of that base is live.
func (a *NameAllocator) IsUnique(name string) bool {
	base, _, suffixed := SplitName(name)
	if suffixed {
		return a.refs[name] == 0
	}
	return a.baseRefs[base] == 0
}

// Refs returns the number of live uses of the exact name
func (a *NameAllocator) Refs(name string) int {
	return a.refs[name]
}

// Counter returns the counter stored for a base
func (a *NameAllocator) Counter(base string) (int, bool) {
	n, ok := a.counters[base]
	return n, ok
}

// Rebuild recomputes live reference counts from a full list of names in
// use. Counters never move backwards here; they are raised to cover any
// suffix already present.
func (a *NameAllocator) Rebuild(names []string) {
	a.refs = make(map[string]int, len(names))
	a.baseRefs = make(map[string]int, len(names))
	for _, name := range names {
		base, n, _ := SplitName(name)
		if counter, ok := a.counters[base]; !ok || n > counter {
			a.counters[base] = n
		}
		a.use(name, base)
	}
}

// PruneUnused drops counters for bases that have no live use
func (a *NameAllocator) PruneUnused() []string {
	var pruned []string
	for base := range a.counters {
		if a.baseRefs[base] == 0 {
			delete(a.counters, base)
			pruned = append(pruned, base)
		}
	}
	return pruned
}

func (a *NameAllocator) use(name, base string) {
	a.refs[name]++
	a.baseRefs[base]++
}

package util

import "fmt"

// BiMap is a bidirectional map between names and stable integer indices,
// used by the model arena to resolve variable and constraint names without
// a linear scan.
type BiMap struct {
	nameToIdx map[string]int
	idxToName []string
}

// NewBiMap returns an empty bidirectional name map.
func NewBiMap() *BiMap {
	return &BiMap{nameToIdx: make(map[string]int)}
}

// Put registers name at idx. It is an error to reuse a name or an index.
func (b *BiMap) Put(name string, idx int) error {
	if _, ok := b.nameToIdx[name]; ok {
		return fmt.Errorf("util: duplicate name %q", name)
	}
	if idx < len(b.idxToName) && b.idxToName[idx] != "" {
		return fmt.Errorf("util: duplicate index %d", idx)
	}
	for len(b.idxToName) <= idx {
		b.idxToName = append(b.idxToName, "")
	}
	b.nameToIdx[name] = idx
	b.idxToName[idx] = name
	return nil
}

// Index returns the index registered for name.
func (b *BiMap) Index(name string) (int, bool) {
	idx, ok := b.nameToIdx[name]
	return idx, ok
}

// Name returns the name registered for idx.
func (b *BiMap) Name(idx int) (string, bool) {
	if idx < 0 || idx >= len(b.idxToName) {
		return "", false
	}
	name := b.idxToName[idx]
	return name, name != ""
}

// Len returns the number of registered entries.
func (b *BiMap) Len() int {
	return len(b.nameToIdx)
}

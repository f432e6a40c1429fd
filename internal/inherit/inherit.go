// Package inherit models the parent links between item definitions and
// guards the recursive resolution entry point against cyclic or dangling
// inheritance. Every definition has at most one parent, so the structure is a
// forest; both faults are fatal configuration errors detected before any
// resolution runs.
package inherit

import (
	"fmt"

	"github.com/vk/itemforge/internal/config"
)

// Tree holds the flattened parent links of a loaded model.
type Tree struct {
	parents map[string]string
}

// Build constructs the inheritance tree for a model and validates it. An
// unknown parent or a cycle returns a non-nil error and no tree.
func Build(model *config.Model) (*Tree, error) {
	t := &Tree{parents: make(map[string]string, len(model.Definitions))}

	for name, def := range model.Definitions {
		if def.Parent == "" {
			continue
		}
		if _, ok := model.Definitions[def.Parent]; !ok {
			return nil, fmt.Errorf("item %q inherits unknown item %q", name, def.Parent)
		}
		t.parents[name] = def.Parent
	}

	if err := t.detectCycles(); err != nil {
		return nil, err
	}
	return t, nil
}

// Chain returns the ancestry of name, root first and name last. Build has
// already rejected cycles, so the walk terminates.
func (t *Tree) Chain(name string) []string {
	var chain []string
	for current := name; current != ""; current = t.parents[current] {
		chain = append(chain, current)
	}
	// reverse so overrides apply child-over-parent during discovery
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// detectCycles walks every parent chain with a depth-first search over three
// node sets: permanently cleared nodes, nodes on the current walk, and
// everything else. Hitting a node already on the current walk means the
// inheritance graph loops.
func (t *Tree) detectCycles() error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if permanent[name] {
			return nil
		}
		if temporary[name] {
			return fmt.Errorf("cyclic inheritance detected involving item %q", name)
		}

		temporary[name] = true
		if parent, ok := t.parents[name]; ok {
			if err := visit(parent); err != nil {
				return err
			}
		}
		delete(temporary, name)
		permanent[name] = true

		return nil
	}

	for name := range t.parents {
		if !permanent[name] {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

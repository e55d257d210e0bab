package engine

import (
	"slices"

	"github.com/piwi3910/takeoff/internal/model"
)

// FindCycles reports every assembly definition cycle in the catalog, each
// once, in catalog declaration order. References to unknown definitions
// are ignored here; Catalog.Validate reports them.
func FindCycles(catalog model.Catalog) []*CyclicAssemblyError {
	byID := make(map[string]*model.AssemblyDef, len(catalog.Assemblies))
	for i := range catalog.Assemblies {
		if _, dup := byID[catalog.Assemblies[i].ID]; !dup {
			byID[catalog.Assemblies[i].ID] = &catalog.Assemblies[i]
		}
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(byID))
	var cycles []*CyclicAssemblyError
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		state[id] = active
		stack = append(stack, id)
		for _, n := range byID[id].Nodes {
			if n.ChildType != model.ChildAssembly {
				continue
			}
			if _, known := byID[n.ChildID]; !known {
				continue
			}
			switch state[n.ChildID] {
			case unvisited:
				visit(n.ChildID)
			case active:
				start := slices.Index(stack, n.ChildID)
				chain := append(slices.Clone(stack[start:]), n.ChildID)
				cycles = append(cycles, &CyclicAssemblyError{Chain: chain})
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
	}

	for _, def := range catalog.Assemblies {
		if state[def.ID] == unvisited {
			visit(def.ID)
		}
	}
	return cycles
}

package engine

import (
	"fmt"
	"slices"

	"github.com/piwi3910/takeoff/internal/formula"
	"github.com/piwi3910/takeoff/internal/model"
)

// expansion accumulates the output of one instance.
type expansion struct {
	engine     *Engine
	itemSet    string
	instanceID string
	result     Result
}

func (x *expansion) warn(assemblyID, nodeID string, err error) {
	x.result.Warnings = append(x.result.Warnings, Warning{
		ItemSet:    x.itemSet,
		InstanceID: x.instanceID,
		AssemblyID: assemblyID,
		NodeID:     nodeID,
		Err:        err,
	})
}

// expand walks def's nodes in declaration order. The scope is copied so
// quantities accumulated here never leak to the caller. chain holds the
// definitions currently being expanded, outermost first.
func (x *expansion) expand(def *model.AssemblyDef, scope formula.Scope, selections, variants map[string]string, chain []string) {
	chain = append(chain, def.ID)
	scope = scope.Clone()

	for _, node := range def.Nodes {
		switch node.ChildType {
		case model.ChildMaterial:
			x.material(def, node, scope, selections, variants)
		case model.ChildAssembly:
			x.assembly(def, node, scope, chain)
		default:
			x.warn(def.ID, node.ID, fmt.Errorf("%w %q", ErrUnknownChildType, node.ChildType))
		}
	}
}

// targetMaterial picks the material a node emits. Dynamic nodes prefer the
// instance selection, then their default candidate, then the static child.
func targetMaterial(node model.AssemblyNode, selections map[string]string) string {
	if !node.IsDynamic {
		return node.ChildID
	}
	if id := selections[node.ID]; id != "" {
		return id
	}
	if node.DefaultVariantID != "" {
		return node.DefaultVariantID
	}
	return node.ChildID
}

func (x *expansion) material(def *model.AssemblyDef, node model.AssemblyNode, scope formula.Scope, selections, variants map[string]string) {
	mat := x.engine.materials[targetMaterial(node, selections)]

	evalScope := scope
	if mat != nil {
		if v := mat.ActiveVariant(variants[node.ID]); v != nil && len(v.Properties) > 0 {
			evalScope = scope.Clone()
			for k, p := range v.Properties {
				evalScope[k] = p
			}
		}
	}

	raw, err := formula.Check(node.Formula, evalScope)
	if err != nil {
		x.warn(def.ID, node.ID, fmt.Errorf("%w: %w", ErrFormula, err))
	}
	qty := model.ApplyRounding(raw, node.Round)
	if qty <= 0 {
		return
	}
	if mat == nil {
		x.warn(def.ID, node.ID, fmt.Errorf("%w: %q", ErrMissingMaterial, targetMaterial(node, selections)))
		return
	}

	name := mat.Name
	if node.Alias != "" {
		name = node.Alias
	}
	sku := mat.ReportSKU()
	x.result.Lines = append(x.result.Lines, model.BomLine{
		SKU:           sku,
		Name:          name,
		Quantity:      qty,
		UOM:           mat.UOM,
		SourceItemSet: x.itemSet,
	})

	// Later siblings can refer to this quantity by name, SKU or alias.
	keys := []string{name, sku, node.Alias}
	for i, k := range keys {
		if k == "" || slices.Contains(keys[:i], k) {
			continue
		}
		scope[k] += qty
	}
}

func (x *expansion) assembly(def *model.AssemblyDef, node model.AssemblyNode, scope formula.Scope, chain []string) {
	child, ok := x.engine.assemblies[node.ChildID]
	if !ok {
		x.warn(def.ID, node.ID, fmt.Errorf("%w: %q", ErrMissingAssembly, node.ChildID))
		return
	}
	if slices.Contains(chain, child.ID) {
		cycle := append(slices.Clone(chain), child.ID)
		x.warn(def.ID, node.ID, &CyclicAssemblyError{Chain: cycle})
		return
	}

	childScope := formula.Scope{}
	for childVar, parentSym := range node.VariableMapping {
		if v, ok := scope[parentSym]; ok {
			childScope[childVar] = v
		}
	}
	// Selections are local to the owning instance and do not reach
	// sub-assemblies.
	x.expand(child, childScope, map[string]string{}, nil, chain)
}

package engine

import (
	"fmt"
	"strings"

	"github.com/piwi3910/takeoff/internal/model"
)

// LineDelta is the change in total quantity of one SKU between two BOMs.
type LineDelta struct {
	SKU    string
	Name   string
	UOM    string
	Before float64
	After  float64
}

// Change returns After minus Before.
func (d LineDelta) Change() float64 {
	return d.After - d.Before
}

// CompareBOM consolidates both BOMs by SKU and unit and returns the entries
// whose totals differ. SKUs of before come first in their original order,
// followed by SKUs only present in after.
func CompareBOM(before, after []model.BomLine) []LineDelta {
	type key struct{ sku, uom string }
	keyOf := func(l model.BomLine) key { return key{strings.ToLower(l.SKU), l.UOM} }

	var order []key
	deltas := map[key]*LineDelta{}
	for _, l := range model.Consolidate(before, false) {
		k := keyOf(l)
		order = append(order, k)
		deltas[k] = &LineDelta{SKU: l.SKU, Name: l.Name, UOM: l.UOM, Before: l.Quantity}
	}
	for _, l := range model.Consolidate(after, false) {
		k := keyOf(l)
		if d, ok := deltas[k]; ok {
			d.After = l.Quantity
			continue
		}
		order = append(order, k)
		deltas[k] = &LineDelta{SKU: l.SKU, Name: l.Name, UOM: l.UOM, After: l.Quantity}
	}

	var out []LineDelta
	for _, k := range order {
		if d := deltas[k]; d.Before != d.After {
			out = append(out, *d)
		}
	}
	return out
}

// ComparisonScenario is a named what-if version of a project's item sets.
type ComparisonScenario struct {
	Name     string
	ItemSets []model.ItemSet
}

// ComparisonResult holds the BOM of one scenario and how it differs from
// the first scenario.
type ComparisonResult struct {
	Scenario ComparisonScenario
	Result   Result
	Deltas   []LineDelta
}

// CompareScenarios generates each scenario's BOM with the same catalog and
// measurements. Deltas are measured against the first scenario.
func (e *Engine) CompareScenarios(scenarios []ComparisonScenario) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))
	var baseline []model.BomLine

	for i, scenario := range scenarios {
		res := e.GenerateGlobalBOM(scenario.ItemSets)
		if i == 0 {
			baseline = res.Lines
		}
		results = append(results, ComparisonResult{
			Scenario: scenario,
			Result:   res,
			Deltas:   CompareBOM(baseline, res.Lines),
		})
	}
	return results
}

// BuildVariantScenarios returns the current item sets as the first
// scenario followed by one scenario per candidate material of a dynamic
// node, with that candidate selected on the given instance.
func (e *Engine) BuildVariantScenarios(itemSets []model.ItemSet, instanceID, nodeID string) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Selection", ItemSets: itemSets},
	}

	inst := findInstance(itemSets, instanceID)
	if inst == nil {
		return scenarios
	}
	def, ok := e.assemblies[inst.AssemblyID]
	if !ok {
		return scenarios
	}

	for _, node := range def.Nodes {
		if node.ID != nodeID || !node.IsDynamic {
			continue
		}
		current := targetMaterial(node, inst.Selections)
		for _, candidate := range node.VariantIDs {
			if candidate == current {
				continue
			}
			name := candidate
			if m, ok := e.materials[candidate]; ok {
				name = m.Name
			}
			scenarios = append(scenarios, ComparisonScenario{
				Name:     fmt.Sprintf("Use %s", name),
				ItemSets: withSelection(itemSets, instanceID, nodeID, candidate),
			})
		}
	}
	return scenarios
}

func findInstance(itemSets []model.ItemSet, instanceID string) *model.ProjectAssembly {
	for i := range itemSets {
		for j := range itemSets[i].Assemblies {
			if itemSets[i].Assemblies[j].ID == instanceID {
				return &itemSets[i].Assemblies[j]
			}
		}
	}
	return nil
}

// withSelection copies the item sets, changing one instance's selection
// without touching the originals.
func withSelection(itemSets []model.ItemSet, instanceID, nodeID, materialID string) []model.ItemSet {
	out := make([]model.ItemSet, len(itemSets))
	for i, set := range itemSets {
		out[i] = set
		out[i].Assemblies = make([]model.ProjectAssembly, len(set.Assemblies))
		copy(out[i].Assemblies, set.Assemblies)
		for j := range out[i].Assemblies {
			inst := &out[i].Assemblies[j]
			if inst.ID != instanceID {
				continue
			}
			sel := make(map[string]string, len(inst.Selections)+1)
			for k, v := range inst.Selections {
				sel[k] = v
			}
			sel[nodeID] = materialID
			inst.Selections = sel
		}
	}
	return out
}

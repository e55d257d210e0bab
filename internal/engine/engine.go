// Package engine turns assembly instances into a flat bill of materials.
//
// An Engine is built from a catalog of assembly and material definitions
// plus the project's measurements and scales. It resolves each instance's
// variable bindings to numbers, walks the assembly recipe in declaration
// order evaluating node formulas, and emits one BomLine per material node
// with a positive quantity. Sub-assemblies are expanded depth-first with a
// scope remapped from the parent.
//
// Generation never fails. Dangling references, bad formulas and cyclic
// definitions contribute nothing and are reported as Warnings.
package engine

import (
	"fmt"

	"github.com/piwi3910/takeoff/internal/formula"
	"github.com/piwi3910/takeoff/internal/model"
)

// Result holds the generated lines and the diagnostics collected while
// producing them.
type Result struct {
	Lines    []model.BomLine
	Warnings []Warning
}

func (r *Result) append(other Result) {
	r.Lines = append(r.Lines, other.Lines...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Engine generates BOMs from immutable inputs. It holds no mutable state
// after construction and is safe for concurrent use.
type Engine struct {
	assemblies   map[string]*model.AssemblyDef
	materials    map[string]*model.MaterialDef
	measurements measurementIndex
	scales       model.Scales
}

// New indexes the catalog and measurements. When IDs repeat, the first
// definition wins.
func New(catalog model.Catalog, measurements []model.Measurement, scales model.Scales) *Engine {
	e := &Engine{
		assemblies:   make(map[string]*model.AssemblyDef, len(catalog.Assemblies)),
		materials:    make(map[string]*model.MaterialDef, len(catalog.Materials)),
		measurements: newMeasurementIndex(append([]model.Measurement(nil), measurements...)),
		scales:       copyScales(scales),
	}
	defs := append([]model.AssemblyDef(nil), catalog.Assemblies...)
	for i := range defs {
		if _, dup := e.assemblies[defs[i].ID]; !dup {
			e.assemblies[defs[i].ID] = &defs[i]
		}
	}
	mats := append([]model.MaterialDef(nil), catalog.Materials...)
	for i := range mats {
		if _, dup := e.materials[mats[i].ID]; !dup {
			e.materials[mats[i].ID] = &mats[i]
		}
	}
	return e
}

// ForProject builds an engine for a project. Definitions exported inside
// the project are used when the catalog lacks them.
func ForProject(p model.Project, catalog model.Catalog) *Engine {
	merged := model.Catalog{
		Assemblies: append([]model.AssemblyDef(nil), catalog.Assemblies...),
		Materials:  append([]model.MaterialDef(nil), catalog.Materials...),
	}
	merged.Merge(p.EmbeddedCatalog())
	return New(merged, p.Measurements, p.Scales)
}

func copyScales(s model.Scales) model.Scales {
	out := model.Scales{Global: s.Global, Pages: make(map[int]float64, len(s.Pages))}
	for k, v := range s.Pages {
		out.Pages[k] = v
	}
	return out
}

// Resolve converts a variable source using the engine's measurements and
// scales.
func (e *Engine) Resolve(src model.VariableSource) float64 {
	v, _ := e.measurements.resolve(src, e.scales)
	return v
}

// GenerateBOM expands one instance. Each declared variable is resolved
// from its binding and placed in scope under the variable's name; unbound
// variables are absent and read as 0 in formulas.
func (e *Engine) GenerateBOM(inst model.ProjectAssembly, itemSet string) Result {
	x := &expansion{engine: e, itemSet: itemSet, instanceID: inst.ID}

	def, ok := e.assemblies[inst.AssemblyID]
	if !ok {
		x.warn("", "", fmt.Errorf("%w: %q", ErrMissingAssembly, inst.AssemblyID))
		return x.result
	}

	scope := formula.Scope{}
	for _, v := range def.Variables {
		b, bound := inst.VariableValues[v.ID]
		if !bound {
			continue
		}
		val, err := e.measurements.resolve(withNaturalProperty(b.Source, v.Type), e.scales)
		if err != nil {
			x.warn(def.ID, "", fmt.Errorf("variable %s: %w", v.Name, err))
		}
		scope[v.Name] = val
	}

	selections := inst.Selections
	if selections == nil {
		selections = map[string]string{}
	}
	x.expand(def, scope, selections, inst.VariantSelections, nil)
	return x.result
}

// withNaturalProperty fills in the property a measurement binding reads
// when it was saved without one, using the variable's type.
func withNaturalProperty(src model.VariableSource, kind model.VariableType) model.VariableSource {
	switch s := src.(type) {
	case model.MeasurementSource:
		if s.Property == "" {
			s.Property = kind.NaturalProperty()
		}
		return s
	case model.GroupSource:
		if s.Property == "" {
			s.Property = kind.NaturalProperty()
		}
		return s
	}
	return src
}

// Expand walks a single definition against an already resolved scope.
// selections chooses candidate materials for dynamic nodes of def.
func (e *Engine) Expand(def model.AssemblyDef, scope formula.Scope, itemSet string, selections map[string]string) Result {
	x := &expansion{engine: e, itemSet: itemSet}
	x.expand(&def, scope, selections, nil, nil)
	return x.result
}

// GenerateGlobalBOM expands every instance of every item set in order and
// tags each line with its item set's name.
func (e *Engine) GenerateGlobalBOM(itemSets []model.ItemSet) Result {
	var out Result
	for _, set := range itemSets {
		for _, inst := range set.Assemblies {
			out.append(e.GenerateBOM(inst, set.Name))
		}
	}
	return out
}

// GenerateGlobalBOM is a convenience wrapper that builds an engine for the
// project and returns only the lines.
func GenerateGlobalBOM(p model.Project, catalog model.Catalog) []model.BomLine {
	return ForProject(p, catalog).GenerateGlobalBOM(p.ItemSets).Lines
}

package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/takeoff/internal/model"
)

// SaveProject writes the project bundle to path as indented JSON.
func SaveProject(path string, p model.Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// LoadProject reads a project bundle. Collections missing from the file
// are returned empty rather than nil.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}

	if p.Pages == nil {
		p.Pages = map[int]float64{}
	}
	if p.Measurements == nil {
		p.Measurements = []model.Measurement{}
	}
	if p.ItemSets == nil {
		p.ItemSets = []model.ItemSet{}
	}
	for i := range p.ItemSets {
		if p.ItemSets[i].Assemblies == nil {
			p.ItemSets[i].Assemblies = []model.ProjectAssembly{}
		}
		for j := range p.ItemSets[i].Assemblies {
			inst := &p.ItemSets[i].Assemblies[j]
			if inst.VariableValues == nil {
				inst.VariableValues = map[string]model.Binding{}
			}
			if inst.Selections == nil {
				inst.Selections = map[string]string{}
			}
		}
	}
	return p, nil
}

// WithDefinitions returns a copy of p carrying every assembly and material
// its instances use, so the file can be generated without the catalog.
// Definitions already embedded in p are kept when the catalog lacks them.
// Output follows catalog declaration order.
func WithDefinitions(p model.Project, catalog model.Catalog) model.Project {
	source := model.Catalog{
		Assemblies: append([]model.AssemblyDef(nil), catalog.Assemblies...),
		Materials:  append([]model.MaterialDef(nil), catalog.Materials...),
	}
	source.Merge(p.EmbeddedCatalog())

	usedAssemblies := map[string]bool{}
	usedMaterials := map[string]bool{}
	var visit func(id string)
	visit = func(id string) {
		if usedAssemblies[id] {
			return
		}
		def := source.FindAssemblyByID(id)
		if def == nil {
			return
		}
		usedAssemblies[id] = true
		for _, n := range def.Nodes {
			switch n.ChildType {
			case model.ChildAssembly:
				visit(n.ChildID)
			case model.ChildMaterial:
				usedMaterials[n.ChildID] = true
				for _, id := range n.VariantIDs {
					usedMaterials[id] = true
				}
				if n.DefaultVariantID != "" {
					usedMaterials[n.DefaultVariantID] = true
				}
			}
		}
	}
	for _, set := range p.ItemSets {
		for _, inst := range set.Assemblies {
			visit(inst.AssemblyID)
			for _, id := range inst.Selections {
				usedMaterials[id] = true
			}
		}
	}

	out := p
	out.Assemblies = []model.AssemblyDef{}
	for _, a := range source.Assemblies {
		if usedAssemblies[a.ID] {
			out.Assemblies = append(out.Assemblies, a)
			usedAssemblies[a.ID] = false
		}
	}
	out.Materials = []model.MaterialDef{}
	for _, m := range source.Materials {
		if usedMaterials[m.ID] {
			out.Materials = append(out.Materials, m)
			usedMaterials[m.ID] = false
		}
	}
	return out
}

package model

import "github.com/google/uuid"

// ProjectAssembly is an assembly placed in a project with its variables
// bound to concrete sources.
type ProjectAssembly struct {
	ID         string `json:"id"`
	AssemblyID string `json:"assembly_id"`
	Name       string `json:"name"`

	// VariableValues is keyed by AssemblyVariable ID.
	VariableValues map[string]Binding `json:"variable_values"`

	// Selections picks a candidate material for a dynamic node, keyed by
	// node ID. It overrides the node's default for this instance only.
	Selections map[string]string `json:"selections,omitempty"`

	// VariantSelections picks a special-order material variant, keyed by
	// node ID.
	VariantSelections map[string]string `json:"variant_selections,omitempty"`
}

// NewProjectAssembly creates an instance of def with no bindings.
func NewProjectAssembly(def AssemblyDef, name string) ProjectAssembly {
	if name == "" {
		name = def.Name
	}
	return ProjectAssembly{
		ID:             uuid.New().String()[:8],
		AssemblyID:     def.ID,
		Name:           name,
		VariableValues: map[string]Binding{},
		Selections:     map[string]string{},
	}
}

// Bind sets the source for a variable.
func (pa *ProjectAssembly) Bind(variableID string, src VariableSource) {
	if pa.VariableValues == nil {
		pa.VariableValues = map[string]Binding{}
	}
	pa.VariableValues[variableID] = Bind(src)
}

// Select chooses a candidate material for a dynamic node.
func (pa *ProjectAssembly) Select(nodeID, materialID string) {
	if pa.Selections == nil {
		pa.Selections = map[string]string{}
	}
	pa.Selections[nodeID] = materialID
}

// SelectVariant chooses a special-order variant for a material node.
func (pa *ProjectAssembly) SelectVariant(nodeID, variantID string) {
	if pa.VariantSelections == nil {
		pa.VariantSelections = map[string]string{}
	}
	pa.VariantSelections[nodeID] = variantID
}

// ItemSet groups instances into a report section.
type ItemSet struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Assemblies []ProjectAssembly `json:"assemblies"`
}

// NewItemSet creates an empty item set.
func NewItemSet(name string) ItemSet {
	return ItemSet{
		ID:         uuid.New().String()[:8],
		Name:       name,
		Assemblies: []ProjectAssembly{},
	}
}

// Project is the serialized takeoff bundle: scales, measurements, item sets
// and optionally the catalog entries it was built against.
type Project struct {
	Name string `json:"name"`
	Scales
	Measurements []Measurement `json:"measurements"`
	ItemSets     []ItemSet     `json:"item_sets"`
	Assemblies   []AssemblyDef `json:"assemblies,omitempty"`
	Materials    []MaterialDef `json:"materials,omitempty"`
}

// NewProject returns an empty project at the given global scale.
func NewProject(name string, scale float64) Project {
	return Project{
		Name:         name,
		Scales:       Scales{Global: scale, Pages: map[int]float64{}},
		Measurements: []Measurement{},
		ItemSets:     []ItemSet{},
	}
}

// EmbeddedCatalog returns the assemblies and materials exported with the
// project.
func (p Project) EmbeddedCatalog() Catalog {
	return Catalog{Assemblies: p.Assemblies, Materials: p.Materials}
}

// FindMeasurementByID returns a pointer to the measurement, or nil.
func (p *Project) FindMeasurementByID(id string) *Measurement {
	for i := range p.Measurements {
		if p.Measurements[i].ID == id {
			return &p.Measurements[i]
		}
	}
	return nil
}

// Groups returns the distinct measurement group names in first-seen order.
func (p *Project) Groups() []string {
	seen := map[string]bool{}
	var groups []string
	for _, m := range p.Measurements {
		if m.Group == "" || seen[m.Group] {
			continue
		}
		seen[m.Group] = true
		groups = append(groups, m.Group)
	}
	return groups
}

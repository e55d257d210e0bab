package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaterialVariant is a named option of a special-order material, such as a
// colour or profile, carrying numeric properties that formulas can read.
type MaterialVariant struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Properties map[string]float64 `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// MaterialDef is a purchasable item in the catalog.
type MaterialDef struct {
	ID               string            `json:"id" yaml:"id"`
	SKU              string            `json:"sku" yaml:"sku"`
	Name             string            `json:"name" yaml:"name"`
	UOM              string            `json:"uom" yaml:"uom"`
	Category         string            `json:"category,omitempty" yaml:"category,omitempty"`
	IsSpecialOrder   bool              `json:"is_special_order,omitempty" yaml:"is_special_order,omitempty"`
	ReportingSKU     string            `json:"reporting_sku,omitempty" yaml:"reporting_sku,omitempty"`
	Variants         []MaterialVariant `json:"variants,omitempty" yaml:"variants,omitempty"`
	DefaultVariantID string            `json:"default_variant_id,omitempty" yaml:"default_variant_id,omitempty"`
}

// NewMaterialDef creates a material with a generated ID.
func NewMaterialDef(sku, name, uom, category string) MaterialDef {
	return MaterialDef{
		ID:       uuid.New().String()[:8],
		SKU:      sku,
		Name:     name,
		UOM:      uom,
		Category: category,
	}
}

// ReportSKU returns the SKU printed on BOM lines: the reporting override
// when present, otherwise the catalog SKU.
func (m MaterialDef) ReportSKU() string {
	if m.ReportingSKU != "" {
		return m.ReportingSKU
	}
	return m.SKU
}

// FindVariant returns the variant with the given ID, or nil.
func (m *MaterialDef) FindVariant(id string) *MaterialVariant {
	for i := range m.Variants {
		if m.Variants[i].ID == id {
			return &m.Variants[i]
		}
	}
	return nil
}

// ActiveVariant returns the variant selected by id, falling back to the
// default variant. It returns nil for materials that are not special order.
func (m *MaterialDef) ActiveVariant(id string) *MaterialVariant {
	if !m.IsSpecialOrder || len(m.Variants) == 0 {
		return nil
	}
	if id != "" {
		if v := m.FindVariant(id); v != nil {
			return v
		}
	}
	return m.FindVariant(m.DefaultVariantID)
}

// Validate checks that the SKU is set and that a special-order default
// variant names one of the variants.
func (m MaterialDef) Validate() error {
	if strings.TrimSpace(m.SKU) == "" {
		return fmt.Errorf("material %s: empty SKU", m.ID)
	}
	if m.IsSpecialOrder && len(m.Variants) > 0 && m.FindVariant(m.DefaultVariantID) == nil {
		return fmt.Errorf("material %s (%s): default variant %q is not one of its variants",
			m.ID, m.SKU, m.DefaultVariantID)
	}
	return nil
}

// VariableType determines which measurement property naturally feeds a
// variable and how manual values are read.
type VariableType string

const (
	VariableLinear  VariableType = "linear"
	VariableArea    VariableType = "area"
	VariableCount   VariableType = "count"
	VariableNumber  VariableType = "number"
	VariablePitch   VariableType = "pitch"
	VariableBoolean VariableType = "boolean"
)

// NaturalProperty returns the measurement property that matches the
// variable type, or "" for types that are entered manually.
func (t VariableType) NaturalProperty() Property {
	switch t {
	case VariableLinear:
		return PropertyLength
	case VariableArea:
		return PropertyArea
	case VariableCount:
		return PropertyCount
	default:
		return ""
	}
}

// AssemblyVariable is an input declared by an assembly. Name is the
// symbol formulas use.
type AssemblyVariable struct {
	ID   string       `json:"id" yaml:"id"`
	Name string       `json:"name" yaml:"name"`
	Type VariableType `json:"type" yaml:"type"`
}

// ChildType tags what an assembly node refers to.
type ChildType string

const (
	ChildMaterial ChildType = "material"
	ChildAssembly ChildType = "assembly"
)

// AssemblyNode is one line of an assembly recipe.
type AssemblyNode struct {
	ID        string    `json:"id" yaml:"id"`
	ChildType ChildType `json:"child_type" yaml:"child_type"`
	ChildID   string    `json:"child_id" yaml:"child_id"`
	Alias     string    `json:"alias,omitempty" yaml:"alias,omitempty"`
	Formula   string    `json:"formula" yaml:"formula"`
	Round     RoundMode `json:"round" yaml:"round"`

	// VariableMapping maps a child assembly variable name to the parent
	// scope symbol that feeds it. Assembly children only.
	VariableMapping map[string]string `json:"variable_mapping,omitempty" yaml:"variable_mapping,omitempty"`

	// Dynamic material nodes choose among candidate materials per instance.
	IsDynamic        bool     `json:"is_dynamic,omitempty" yaml:"is_dynamic,omitempty"`
	VariantIDs       []string `json:"variant_ids,omitempty" yaml:"variant_ids,omitempty"`
	DefaultVariantID string   `json:"default_variant_id,omitempty" yaml:"default_variant_id,omitempty"`
}

// AssemblyDef is a reusable recipe of materials and sub-assemblies.
// Nodes are evaluated in declaration order.
type AssemblyDef struct {
	ID        string             `json:"id" yaml:"id"`
	Name      string             `json:"name" yaml:"name"`
	Category  string             `json:"category,omitempty" yaml:"category,omitempty"`
	Variables []AssemblyVariable `json:"variables" yaml:"variables"`
	Nodes     []AssemblyNode     `json:"nodes" yaml:"nodes"`
}

// NewAssemblyDef creates an empty assembly definition with a generated ID.
func NewAssemblyDef(name, category string) AssemblyDef {
	return AssemblyDef{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Category:  category,
		Variables: []AssemblyVariable{},
		Nodes:     []AssemblyNode{},
	}
}

// AddVariable declares a variable and returns it.
func (d *AssemblyDef) AddVariable(name string, kind VariableType) AssemblyVariable {
	v := AssemblyVariable{ID: uuid.New().String()[:8], Name: name, Type: kind}
	d.Variables = append(d.Variables, v)
	return v
}

// AddMaterial appends a material node and returns it.
func (d *AssemblyDef) AddMaterial(materialID, formula string, round RoundMode) AssemblyNode {
	n := AssemblyNode{
		ID:        uuid.New().String()[:8],
		ChildType: ChildMaterial,
		ChildID:   materialID,
		Formula:   formula,
		Round:     round,
	}
	d.Nodes = append(d.Nodes, n)
	return n
}

// AddAssembly appends a sub-assembly node and returns it.
func (d *AssemblyDef) AddAssembly(assemblyID string, mapping map[string]string) AssemblyNode {
	n := AssemblyNode{
		ID:              uuid.New().String()[:8],
		ChildType:       ChildAssembly,
		ChildID:         assemblyID,
		Round:           RoundNone,
		VariableMapping: mapping,
	}
	d.Nodes = append(d.Nodes, n)
	return n
}

// FindVariableByName returns the variable with the given symbol name, or nil.
func (d *AssemblyDef) FindVariableByName(name string) *AssemblyVariable {
	for i := range d.Variables {
		if d.Variables[i].Name == name {
			return &d.Variables[i]
		}
	}
	return nil
}

// Catalog is the definition store: assembly recipes and the materials they
// consume.
type Catalog struct {
	Assemblies []AssemblyDef `json:"assemblies" yaml:"assemblies"`
	Materials  []MaterialDef `json:"materials" yaml:"materials"`
}

// NewCatalog creates an empty catalog.
func NewCatalog() Catalog {
	return Catalog{
		Assemblies: []AssemblyDef{},
		Materials:  []MaterialDef{},
	}
}

// FindAssemblyByID returns a pointer to the assembly with the given ID, or nil.
func (c *Catalog) FindAssemblyByID(id string) *AssemblyDef {
	for i := range c.Assemblies {
		if c.Assemblies[i].ID == id {
			return &c.Assemblies[i]
		}
	}
	return nil
}

// FindMaterialByID returns a pointer to the material with the given ID, or nil.
func (c *Catalog) FindMaterialByID(id string) *MaterialDef {
	for i := range c.Materials {
		if c.Materials[i].ID == id {
			return &c.Materials[i]
		}
	}
	return nil
}

// FindMaterialBySKU returns the first material whose SKU matches
// case-insensitively, or nil.
func (c *Catalog) FindMaterialBySKU(sku string) *MaterialDef {
	for i := range c.Materials {
		if strings.EqualFold(c.Materials[i].SKU, sku) {
			return &c.Materials[i]
		}
	}
	return nil
}

// AssemblyNames returns assembly names for pickers.
func (c *Catalog) AssemblyNames() []string {
	names := make([]string, len(c.Assemblies))
	for i, a := range c.Assemblies {
		names[i] = a.Name
	}
	return names
}

// Merge adds assemblies and materials from other whose IDs are not already
// present. Existing entries win.
func (c *Catalog) Merge(other Catalog) {
	assemblyIDs := make(map[string]bool, len(c.Assemblies))
	for _, a := range c.Assemblies {
		assemblyIDs[a.ID] = true
	}
	materialIDs := make(map[string]bool, len(c.Materials))
	for _, m := range c.Materials {
		materialIDs[m.ID] = true
	}

	for _, a := range other.Assemblies {
		if !assemblyIDs[a.ID] {
			c.Assemblies = append(c.Assemblies, a)
			assemblyIDs[a.ID] = true
		}
	}
	for _, m := range other.Materials {
		if !materialIDs[m.ID] {
			c.Materials = append(c.Materials, m)
			materialIDs[m.ID] = true
		}
	}
}

// Validate reports every structural problem in the catalog: invalid
// materials, duplicate SKUs, nodes referencing unknown definitions or
// candidate materials, and mappings onto undeclared child variables.
// Cycles are reported by the engine.
func (c *Catalog) Validate() error {
	var errs []error

	seenSKU := make(map[string]string, len(c.Materials))
	for _, m := range c.Materials {
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
		}
		key := strings.ToLower(m.SKU)
		if prev, ok := seenSKU[key]; ok && key != "" {
			errs = append(errs, fmt.Errorf("material %s: SKU %q already used by %s", m.ID, m.SKU, prev))
			continue
		}
		seenSKU[key] = m.ID
	}

	for _, a := range c.Assemblies {
		for _, n := range a.Nodes {
			switch n.ChildType {
			case ChildMaterial:
				if !n.IsDynamic && c.FindMaterialByID(n.ChildID) == nil {
					errs = append(errs, fmt.Errorf("assembly %s node %s: unknown material %q", a.ID, n.ID, n.ChildID))
				}
				for _, id := range n.VariantIDs {
					if c.FindMaterialByID(id) == nil {
						errs = append(errs, fmt.Errorf("assembly %s node %s: unknown candidate material %q", a.ID, n.ID, id))
					}
				}
			case ChildAssembly:
				child := c.FindAssemblyByID(n.ChildID)
				if child == nil {
					errs = append(errs, fmt.Errorf("assembly %s node %s: unknown assembly %q", a.ID, n.ID, n.ChildID))
					continue
				}
				for childVar := range n.VariableMapping {
					if child.FindVariableByName(childVar) == nil {
						errs = append(errs, fmt.Errorf("assembly %s node %s: %s has no variable %q", a.ID, n.ID, child.ID, childVar))
					}
				}
			default:
				errs = append(errs, fmt.Errorf("assembly %s node %s: unknown child type %q", a.ID, n.ID, n.ChildType))
			}
		}
	}

	return errors.Join(errs...)
}

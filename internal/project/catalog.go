package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/takeoff/internal/model"
)

// DefaultCatalogPath returns the default file path for the definition store.
// This is located at ~/.takeoff/catalog.yaml.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "catalog.yaml")
}

// isYAML reports whether path should be read and written as YAML. Any
// other extension is treated as JSON.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SaveCatalog writes the catalog to path, as YAML or JSON depending on the
// file extension. It creates parent directories if they do not exist.
func SaveCatalog(path string, catalog model.Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(catalog)
	} else {
		data, err = json.MarshalIndent(catalog, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads the catalog from path. If the file does not exist, it
// returns an empty catalog with no error.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewCatalog(), nil
		}
		return model.Catalog{}, err
	}
	return decodeCatalog(path, data)
}

func decodeCatalog(path string, data []byte) (model.Catalog, error) {
	var catalog model.Catalog
	if isYAML(path) {
		err := yaml.Unmarshal(data, &catalog)
		if err != nil {
			return model.Catalog{}, fmt.Errorf("failed to parse catalog %s: %w", filepath.Base(path), err)
		}
	} else if err := json.Unmarshal(data, &catalog); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to parse catalog %s: %w", filepath.Base(path), err)
	}

	if catalog.Assemblies == nil {
		catalog.Assemblies = []model.AssemblyDef{}
	}
	if catalog.Materials == nil {
		catalog.Materials = []model.MaterialDef{}
	}
	return catalog, nil
}

// ExportCatalog exports the catalog to a user-specified file.
func ExportCatalog(path string, catalog model.Catalog) error {
	return SaveCatalog(path, catalog)
}

// ImportCatalog imports definitions from a user-specified file, merging
// them into the existing catalog. Duplicate IDs are skipped.
func ImportCatalog(path string, existing model.Catalog) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	imported, err := decodeCatalog(path, data)
	if err != nil {
		return existing, err
	}
	existing.Merge(imported)
	return existing, nil
}

package project

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/piwi3910/takeoff/internal/model"
)

const backupVersion = "1.1.0"

// BackupData is everything needed to move a takeoff setup to another
// machine: preferences, the definition store and the recent projects.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	Catalog   model.Catalog   `json:"catalog"`

	// Projects is keyed by the path the project was loaded from.
	Projects map[string]model.Project `json:"projects,omitempty"`
}

// CollectBackup snapshots the config, the catalog and every recent project
// that can still be loaded. Stale entries in the recent list are skipped.
func CollectBackup(config model.AppConfig, catalog model.Catalog) BackupData {
	b := BackupData{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Catalog:   catalog,
		Projects:  map[string]model.Project{},
	}
	for _, path := range config.RecentProjects {
		if p, err := LoadProject(path); err == nil {
			b.Projects[path] = p
		}
	}
	return b
}

// ExportAllData writes a backup of the config, the catalog and the recent
// projects to a single JSON file.
func ExportAllData(exportPath string, config model.AppConfig, catalog model.Catalog) error {
	data, err := json.MarshalIndent(CollectBackup(config, catalog), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup file without applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}

	if backup.Config.RecentProjects == nil {
		backup.Config.RecentProjects = []string{}
	}
	if backup.Catalog.Assemblies == nil {
		backup.Catalog.Assemblies = []model.AssemblyDef{}
	}
	if backup.Catalog.Materials == nil {
		backup.Catalog.Materials = []model.MaterialDef{}
	}
	if backup.Projects == nil {
		backup.Projects = map[string]model.Project{}
	}
	return backup, nil
}

// RestoreAllData applies a backup: the config is written to configPath and
// the catalog to the catalog path the restored config names. Projects are
// written back to their original paths unless a file already exists
// there; those paths are returned as skipped.
func RestoreAllData(backup BackupData, configPath string) (skipped []string, err error) {
	if err := SaveAppConfig(configPath, backup.Config); err != nil {
		return nil, fmt.Errorf("failed to restore config: %w", err)
	}
	if err := SaveCatalog(CatalogPathFor(backup.Config), backup.Catalog); err != nil {
		return nil, fmt.Errorf("failed to restore catalog: %w", err)
	}

	for _, path := range slices.Sorted(maps.Keys(backup.Projects)) {
		if _, statErr := os.Stat(path); statErr == nil {
			skipped = append(skipped, path)
			continue
		}
		if err := SaveProject(path, backup.Projects[path]); err != nil {
			return skipped, fmt.Errorf("failed to restore project %s: %w", path, err)
		}
	}
	return skipped, nil
}

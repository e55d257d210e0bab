package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/takeoff/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backups", "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultScale = 96
	catalog := sampleCatalog()

	require.NoError(t, ExportAllData(path, cfg, catalog))

	backup, err := ImportAllData(path)
	require.NoError(t, err)
	assert.Equal(t, backupVersion, backup.Version)
	assert.NotEmpty(t, backup.CreatedAt)
	assert.Equal(t, cfg, backup.Config)
	assert.Equal(t, catalog, backup.Catalog)
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "failed to read backup file")
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := ImportAllData(path)
	assert.ErrorContains(t, err, "failed to parse backup file")
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"config": {}}`), 0644))

	_, err := ImportAllData(path)
	assert.ErrorContains(t, err, "missing version")
}

func TestImportAllDataFillsEmptyCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "1.0.0", "config": {}}`), 0644))

	backup, err := ImportAllData(path)
	require.NoError(t, err)
	assert.NotNil(t, backup.Config.RecentProjects)
	assert.NotNil(t, backup.Catalog.Assemblies)
	assert.NotNil(t, backup.Catalog.Materials)
}

func TestBackupIncludesRecentProjectsAndRestores(t *testing.T) {
	src := t.TempDir()
	projectPath := filepath.Join(src, "house.json")
	p := model.NewProject("House", 10)
	p.Measurements = append(p.Measurements, model.Measurement{ID: "m1", Name: "Wall", Type: model.MeasurementLine})
	require.NoError(t, SaveProject(projectPath, p))

	cfg := model.DefaultAppConfig()
	cfg.AddRecentProject(filepath.Join(src, "deleted.json"), 5)
	cfg.AddRecentProject(projectPath, 5)
	backupPath := filepath.Join(src, "backup.json")
	require.NoError(t, ExportAllData(backupPath, cfg, sampleCatalog()))

	backup, err := ImportAllData(backupPath)
	require.NoError(t, err)
	require.Len(t, backup.Projects, 1, "stale recent entries are skipped")
	assert.Equal(t, "House", backup.Projects[projectPath].Name)

	// Restore onto a machine where the project is gone.
	require.NoError(t, os.Remove(projectPath))
	dst := t.TempDir()
	backup.Config.CatalogPath = filepath.Join(dst, "catalog.yaml")
	configPath := filepath.Join(dst, "config.json")

	skipped, err := RestoreAllData(backup, configPath)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	restoredCfg, err := LoadAppConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, backup.Config, restoredCfg)
	restoredCatalog, err := LoadCatalog(backup.Config.CatalogPath)
	require.NoError(t, err)
	assert.Equal(t, sampleCatalog().Materials, restoredCatalog.Materials)
	restored, err := LoadProject(projectPath)
	require.NoError(t, err)
	assert.Equal(t, "m1", restored.Measurements[0].ID)

	// A second restore leaves the existing project alone.
	skipped, err = RestoreAllData(backup, configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{projectPath}, skipped)
}

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/takeoff/internal/model"
	"github.com/piwi3910/takeoff/internal/project"
)

func TestPrintBOM(t *testing.T) {
	var buf bytes.Buffer
	printBOM(&buf, "House", []model.BomLine{
		{SKU: "SID-01", Name: "Vinyl Siding", Quantity: 12, UOM: "sq", SourceItemSet: "Exterior"},
		{SKU: "NAIL", Name: "Nails", Quantity: 2.5, UOM: "lb"},
	})

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "House", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "SKU"))
	assert.Contains(t, lines[3], "SID-01")
	assert.Contains(t, lines[3], " 12 ")
	assert.Contains(t, lines[4], "2.5")
	assert.True(t, strings.HasSuffix(out, "2 lines\n"))
}

func TestImportCatalogSavesMergedStore(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "catalog.yaml")
	supplierPath := filepath.Join(dir, "supplier.json")

	existing := model.Catalog{Materials: []model.MaterialDef{{ID: "a", SKU: "A", Name: "Alpha", UOM: "ea"}}}
	supplier := model.Catalog{Materials: []model.MaterialDef{
		{ID: "a", SKU: "A", Name: "Renamed", UOM: "ea"},
		{ID: "b", SKU: "B", Name: "Beta", UOM: "ea"},
	}}
	require.NoError(t, project.ExportCatalog(supplierPath, supplier))

	merged, err := importCatalog(supplierPath, storePath, existing)
	require.NoError(t, err)
	require.Len(t, merged.Materials, 2)
	assert.Equal(t, "Alpha", merged.Materials[0].Name)

	stored, err := project.LoadCatalog(storePath)
	require.NoError(t, err)
	assert.Equal(t, merged.Materials, stored.Materials)

	_, err = importCatalog(filepath.Join(dir, "missing.json"), storePath, existing)
	assert.ErrorContains(t, err, "failed to import catalog")
}

func TestRestoreWritesConfigAndCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg := model.DefaultAppConfig()
	cfg.CatalogPath = filepath.Join(dir, "restored", "catalog.yaml")
	catalog := model.Catalog{Materials: []model.MaterialDef{{ID: "a", SKU: "A", Name: "Alpha", UOM: "ea"}}}

	backupPath := filepath.Join(dir, "backup.json")
	require.NoError(t, project.ExportAllData(backupPath, cfg, catalog))

	configPath := filepath.Join(dir, "restored", "config.json")
	require.NoError(t, restore(backupPath, configPath))

	loadedCfg, err := project.LoadAppConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.CatalogPath, loadedCfg.CatalogPath)
	loadedCatalog, err := project.LoadCatalog(cfg.CatalogPath)
	require.NoError(t, err)
	assert.Equal(t, catalog.Materials, loadedCatalog.Materials)

	assert.Error(t, restore(filepath.Join(dir, "nope.json"), configPath))
}

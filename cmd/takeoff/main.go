// Takeoff: bill of materials from plan measurements
//
// Loads a project bundle and a catalog of assembly and material
// definitions, expands every assembly instance and prints the resulting
// bill of materials.
//
// Build:
//   go build -o takeoff ./cmd/takeoff
//
// Usage:
//   takeoff -project house.json [-catalog catalog.yaml] [-consolidate] [-by-set] [-warnings]
//   takeoff -project house.json -bundle house-portable.json
//   takeoff -import-catalog supplier.yaml [-export-catalog shared.json]
//   takeoff -backup takeoff-backup.json
//   takeoff -restore takeoff-backup.json

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/piwi3910/takeoff/internal/engine"
	"github.com/piwi3910/takeoff/internal/model"
	"github.com/piwi3910/takeoff/internal/project"
)

const usage = "Usage: takeoff -project <path> [-catalog <path>] [-consolidate] [-by-set] [-warnings] [-bundle <path>]\n" +
	"       takeoff [-import-catalog <path>] [-export-catalog <path>] [-backup <path>] [-restore <path>]"

func main() {
	log.SetFlags(0)
	log.SetPrefix("takeoff: ")

	projectPath := flag.String("project", "", "Path to the project bundle (JSON)")
	configPath := flag.String("config", project.DefaultConfigPath(), "Path to the application config")
	catalogPath := flag.String("catalog", "", "Path to the catalog (YAML or JSON); defaults to the configured catalog")
	consolidate := flag.Bool("consolidate", false, "Merge lines with the same SKU and unit")
	bySet := flag.Bool("by-set", false, "With -consolidate, keep item sets separate")
	showWarnings := flag.Bool("warnings", false, "Print generation warnings and catalog problems")
	bundlePath := flag.String("bundle", "", "Write the project with the definitions it uses embedded")
	importPath := flag.String("import-catalog", "", "Merge definitions from a file into the catalog and save it")
	exportPath := flag.String("export-catalog", "", "Write the catalog to a file")
	backupPath := flag.String("backup", "", "Write config, catalog and recent projects to a backup file")
	restorePath := flag.String("restore", "", "Restore config, catalog and projects from a backup file")
	flag.Parse()

	if *restorePath != "" {
		if err := restore(*restorePath, *configPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	config, err := project.LoadAppConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *configPath, err)
	}
	if *catalogPath == "" {
		*catalogPath = project.CatalogPathFor(config)
	}
	catalog, err := project.LoadCatalog(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog %s: %v", *catalogPath, err)
	}

	if *importPath != "" {
		catalog, err = importCatalog(*importPath, *catalogPath, catalog)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *exportPath != "" {
		if err := project.ExportCatalog(*exportPath, catalog); err != nil {
			log.Fatalf("Failed to export catalog to %s: %v", *exportPath, err)
		}
		log.Printf("Exported %d assemblies and %d materials to %s", len(catalog.Assemblies), len(catalog.Materials), *exportPath)
	}
	if *backupPath != "" {
		if err := project.ExportAllData(*backupPath, config, catalog); err != nil {
			log.Fatal(err)
		}
		log.Printf("Backup written to %s", *backupPath)
	}

	if *projectPath == "" {
		if *importPath == "" && *exportPath == "" && *backupPath == "" {
			fmt.Println(usage)
			os.Exit(1)
		}
		return
	}

	p, err := project.LoadProject(*projectPath)
	if err != nil {
		log.Fatalf("Failed to load project %s: %v", *projectPath, err)
	}
	config.ApplyToProject(&p)

	if *bundlePath != "" {
		if err := project.SaveProject(*bundlePath, project.WithDefinitions(p, catalog)); err != nil {
			log.Fatalf("Failed to write bundle %s: %v", *bundlePath, err)
		}
		log.Printf("Project with embedded definitions written to %s", *bundlePath)
	}

	res := engine.ForProject(p, catalog).GenerateGlobalBOM(p.ItemSets)
	lines := res.Lines
	if *consolidate {
		lines = model.Consolidate(lines, *bySet)
	}
	printBOM(os.Stdout, p.Name, lines)

	if *showWarnings || config.ShowWarnings {
		if err := catalog.Validate(); err != nil {
			log.Printf("Catalog problems:\n%v", err)
		}
		for _, c := range engine.FindCycles(catalog) {
			log.Printf("Catalog problem: %v", c)
		}
		for _, w := range res.Warnings {
			log.Printf("Warning: %s", w)
		}
	}

	config.AddRecentProject(*projectPath, 10)
	if err := project.SaveAppConfig(*configPath, config); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}

// importCatalog merges the definitions in path into catalog and saves the
// result to the catalog store.
func importCatalog(path, storePath string, catalog model.Catalog) (model.Catalog, error) {
	before := len(catalog.Assemblies) + len(catalog.Materials)
	merged, err := project.ImportCatalog(path, catalog)
	if err != nil {
		return catalog, fmt.Errorf("failed to import catalog %s: %w", path, err)
	}
	if err := project.SaveCatalog(storePath, merged); err != nil {
		return catalog, fmt.Errorf("failed to save catalog %s: %w", storePath, err)
	}
	log.Printf("Imported %d definitions from %s", len(merged.Assemblies)+len(merged.Materials)-before, path)
	return merged, nil
}

// restore applies a backup file and reports projects that were left alone
// because a file already exists at their path.
func restore(backupPath, configPath string) error {
	backup, err := project.ImportAllData(backupPath)
	if err != nil {
		return err
	}
	skipped, err := project.RestoreAllData(backup, configPath)
	if err != nil {
		return err
	}
	for _, path := range skipped {
		log.Printf("Kept existing project %s", path)
	}
	log.Printf("Restored backup from %s (%s)", backupPath, backup.CreatedAt)
	return nil
}

// printBOM writes lines as a fixed-width table followed by the line count.
func printBOM(w io.Writer, title string, lines []model.BomLine) {
	if title != "" {
		fmt.Fprintf(w, "%s\n\n", title)
	}
	fmt.Fprintf(w, "%-16s %-32s %12s %-8s %s\n", "SKU", "Name", "Quantity", "UOM", "Item Set")
	for _, l := range lines {
		fmt.Fprintf(w, "%-16s %-32s %12s %-8s %s\n",
			l.SKU, l.Name, strconv.FormatFloat(l.Quantity, 'f', -1, 64), l.UOM, l.SourceItemSet)
	}
	fmt.Fprintf(w, "\n%d lines\n", len(lines))
}

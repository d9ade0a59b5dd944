package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// WriteExample writes a starter catalog file for the given domain, ready to
// be edited and dropped into the catalogs directory.
func WriteExample(domain, path string) error {
	example := map[string]any{
		"catalog_info": map[string]any{
			"domain":      domain,
			"created":     time.Now().Format(time.RFC3339),
			"description": fmt.Sprintf("Custom entity catalog for %s", domain),
			"version":     "1.0",
		},
		"entities": map[string]any{
			"Beispiel_Entität": map[string]any{
				"canonical_name": "Beispiel Entität GmbH",
				"aliases":        []string{"Beispiel", "Beispiel GmbH"},
				"type":           "ORG",
				"domain":         domain,
				"description":    "Beispiel-Unternehmen für Katalog-Demo",
				"uri":            fmt.Sprintf("http://autograph.custom/%s/beispiel_entitaet", domain),
				"properties": map[string]string{
					"founded":   "2020",
					"employees": "100-500",
				},
			},
		},
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(example)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

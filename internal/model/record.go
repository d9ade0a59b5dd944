package model

// CatalogRecord is a canonical entity entry inside a reference catalog.
// Records are immutable once their catalog is loaded.
type CatalogRecord struct {
	ID            string            `json:"id" yaml:"id"`
	CanonicalName string            `json:"canonical_name" yaml:"canonical_name"`
	EntityType    string            `json:"entity_type" yaml:"type"`
	Domain        string            `json:"domain" yaml:"domain"`
	Aliases       []string          `json:"aliases,omitempty" yaml:"aliases"`
	Description   string            `json:"description,omitempty" yaml:"description"`
	Properties    map[string]string `json:"properties,omitempty" yaml:"properties"`
	SourceCatalog string            `json:"source_catalog" yaml:"-"`
	URI           string            `json:"uri,omitempty" yaml:"uri"`
}

// ModeScope controls which linking modes may consult a catalog.
type ModeScope string

const (
	ScopeOfflineEligible ModeScope = "offline-eligible"
	ScopeOnlineOnly      ModeScope = "online-only"
)

// CatalogInfo describes a loaded catalog. Lower priority wins.
type CatalogInfo struct {
	Name     string    `json:"name"`
	Priority int       `json:"priority"`
	Scope    ModeScope `json:"mode_scope"`
	Records  int       `json:"records"`
}

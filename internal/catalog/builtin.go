package catalog

import "github.com/autograph-kg/autograph/internal/model"

// builtinPriority places builtin catalogs after any configured ones.
const builtinPriority = 1000

// builtinCatalogs seeds a small default record set so the linker works out
// of the box without any catalog files.
func builtinCatalogs() []*Catalog {
	orgs := []*model.CatalogRecord{
		{
			ID:            "BMW",
			CanonicalName: "BMW AG",
			EntityType:    "ORG",
			Domain:        "wirtschaft",
			Aliases:       []string{"BMW", "Bayerische Motoren Werke", "BMW Group"},
			Description:   "Deutscher Automobilhersteller",
			URI:           "http://autograph.local/BMW_AG",
			Properties: map[string]string{
				"industry":     "Automotive",
				"founded":      "1916",
				"headquarters": "München",
			},
		},
		{
			ID:            "Siemens",
			CanonicalName: "Siemens AG",
			EntityType:    "ORG",
			Domain:        "wirtschaft",
			Aliases:       []string{"Siemens"},
			Description:   "Deutscher Technologiekonzern",
			URI:           "http://autograph.local/Siemens_AG",
			Properties: map[string]string{
				"industry":     "Technology",
				"founded":      "1847",
				"headquarters": "München",
			},
		},
	}

	locs := []*model.CatalogRecord{
		{
			ID:            "München",
			CanonicalName: "München",
			EntityType:    "LOC",
			Domain:        "allgemein",
			Aliases:       []string{"Munich", "Muenchen"},
			Description:   "Hauptstadt von Bayern",
			URI:           "http://autograph.local/München",
			Properties: map[string]string{
				"country":    "Deutschland",
				"state":      "Bayern",
				"population": "1.5M",
			},
		},
		{
			ID:            "Berlin",
			CanonicalName: "Berlin",
			EntityType:    "LOC",
			Domain:        "allgemein",
			Description:   "Hauptstadt von Deutschland",
			URI:           "http://autograph.local/Berlin",
			Properties: map[string]string{
				"country": "Deutschland",
				"capital": "true",
			},
		},
	}

	return []*Catalog{
		newCatalog("builtin_organizations", builtinPriority, model.ScopeOfflineEligible, orgs),
		newCatalog("builtin_locations", builtinPriority+1, model.ScopeOfflineEligible, locs),
	}
}

package ontology

import "github.com/autograph-kg/autograph/internal/model"

// addBuiltin seeds the schema.org base classes and relations every
// deployment gets for free. Entity-type labels from upstream NER tooling
// (PERSON, ORG, LOC, ...) are carried as class aliases so label-to-class
// mapping works without a custom ontology.
func addBuiltin(o *Ontology) {
	classes := []*model.OntologyClass{
		{
			Name: "Thing", Namespace: "schema",
			Description: "The most generic type of item.",
			Properties:  []string{"name", "description", "url"},
		},
		{
			Name: "Person", Namespace: "schema", Parent: "schema:Thing",
			Aliases:     []string{"PERSON", "PER"},
			Description: "A person, alive, dead, undead, or fictional.",
			Properties:  []string{"name", "birthDate", "jobTitle", "affiliation"},
		},
		{
			Name: "Organization", Namespace: "schema", Parent: "schema:Thing",
			Aliases:     []string{"ORG", "ORGANIZATION", "COMPANY"},
			Description: "An organization such as a company, NGO or institution.",
			Properties:  []string{"name", "foundingDate", "location", "numberOfEmployees"},
		},
		{
			Name: "Place", Namespace: "schema", Parent: "schema:Thing",
			Aliases:     []string{"LOC", "GPE", "LOCATION"},
			Description: "Entities with a somewhat fixed physical extension.",
			Properties:  []string{"name", "address", "geo"},
		},
		{
			Name: "Event", Namespace: "schema", Parent: "schema:Thing",
			Aliases:     []string{"EVENT"},
			Description: "An event happening at a certain time and location.",
			Properties:  []string{"name", "startDate", "endDate", "location"},
		},
		{
			Name: "CreativeWork", Namespace: "schema", Parent: "schema:Thing",
			Aliases:     []string{"WORK_OF_ART", "WORK"},
			Description: "The most generic kind of creative work.",
			Properties:  []string{"name", "author", "datePublished"},
		},
		{
			Name: "Product", Namespace: "schema", Parent: "schema:Thing",
			Aliases:     []string{"PRODUCT"},
			Description: "Any offered product or service.",
			Properties:  []string{"name", "brand", "manufacturer"},
		},
	}
	for _, c := range classes {
		o.addClass(c)
	}

	relations := []*model.OntologyRelation{
		{
			Name: "memberOf", Namespace: "schema",
			Domain:      []string{"schema:Person", "schema:Organization"},
			Range:       []string{"schema:Organization"},
			Aliases:     []string{"member_of", "mitglied_von"},
			Description: "An organization to which this person or organization belongs.",
		},
		{
			Name: "worksFor", Namespace: "schema",
			Domain:      []string{"schema:Person"},
			Range:       []string{"schema:Organization"},
			Aliases:     []string{"works_for", "employedBy", "arbeitet_fuer"},
			Description: "Organizations that the person works for.",
		},
		{
			Name: "locatedIn", Namespace: "schema",
			Domain:      []string{"schema:Organization", "schema:Place", "schema:Event"},
			Range:       []string{"schema:Place"},
			Aliases:     []string{"located_in", "basedIn", "sitz_in"},
			Description: "The location of the subject.",
		},
		{
			Name: "founder", Namespace: "schema",
			Domain:      []string{"schema:Organization"},
			Range:       []string{"schema:Person"},
			Inverse:     "schema:founderOf",
			Aliases:     []string{"founded_by", "gegruendet_von"},
			Description: "A person who founded this organization.",
		},
		{
			Name: "founderOf", Namespace: "schema",
			Domain:      []string{"schema:Person"},
			Range:       []string{"schema:Organization"},
			Inverse:     "schema:founder",
			Aliases:     []string{"founder_of"},
			Description: "Organizations founded by this person.",
		},
		{
			Name: "organizer", Namespace: "schema",
			Domain:      []string{"schema:Event"},
			Range:       []string{"schema:Person", "schema:Organization"},
			Aliases:     []string{"organized_by"},
			Description: "The person or organization that organizes an event.",
		},
	}
	for _, r := range relations {
		o.addRelation(r)
	}
}

package model

// DocumentInput is one text unit handed to the resolution engine, with the
// mentions the NER collaborator found in it.
type DocumentInput struct {
	ID            string              `json:"id"`
	Text          string              `json:"text"`
	Domain        string              `json:"domain"`
	Mentions      []Mention           `json:"mentions"`
	RuleRelations []RelationCandidate `json:"rule_relations,omitempty"`
}

// Diagnostics reports per-document resolution outcomes so threshold tuning
// stays observable.
type Diagnostics struct {
	TotalMentions     int `json:"total_mentions"`
	LinkedEntities    int `json:"linked_entities"`
	NoCandidates      int `json:"no_candidates"`
	BelowThreshold    int `json:"below_threshold"`
	LookupUnavailable int `json:"lookup_unavailable"`
	RuleRelations     int `json:"rule_relations"`
	MLRelations       int `json:"ml_relations"`
	FinalRelations    int `json:"final_relations"`
}

// MappedEntity pairs a linked entity with its ontology class mappings.
type MappedEntity struct {
	Entity   LinkedEntity   `json:"entity"`
	Mappings []ClassMapping `json:"mappings,omitempty"`
}

// MappedRelation pairs a final relation with its best ontology mapping.
type MappedRelation struct {
	Relation RelationCandidate `json:"relation"`
	Mapping  *RelationMapping  `json:"mapping,omitempty"`
}

// DocumentResult is the complete output for a single document.
type DocumentResult struct {
	DocumentID  string           `json:"document_id"`
	Domain      string           `json:"domain"`
	Entities    []MappedEntity   `json:"entities"`
	Relations   []MappedRelation `json:"relations"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}

// DocumentFailure records one document that could not be processed.
type DocumentFailure struct {
	DocumentID string `json:"document_id"`
	Error      string `json:"error"`
}

// BatchResult aggregates a batch run. Completed per-document results remain
// valid and are reported alongside the failure list even on early abort.
type BatchResult struct {
	Results  []DocumentResult  `json:"results"`
	Failures []DocumentFailure `json:"failures,omitempty"`
	Aborted  bool              `json:"aborted,omitempty"`
}

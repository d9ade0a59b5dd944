package model

// Mention is a raw entity occurrence delivered by the NER collaborator.
type Mention struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// UnlinkedReason explains why a mention could not be resolved.
type UnlinkedReason string

const (
	ReasonNoCandidates       UnlinkedReason = "no_candidates"
	ReasonLowConfidence      UnlinkedReason = "low_confidence"
	ReasonLookupUnavailable  UnlinkedReason = "lookup_unavailable"
	ReasonEmptyMention       UnlinkedReason = "empty_mention"
)

// LinkedEntity is the result of resolving one mention against the catalogs.
// It is built once per mention per document and never mutated afterwards.
type LinkedEntity struct {
	MentionText   string            `json:"mention_text"`
	MentionType   string            `json:"mention_type"`
	Linked        bool              `json:"linked"`
	CanonicalName string            `json:"canonical_name,omitempty"`
	URI           string            `json:"uri,omitempty"`
	Description   string            `json:"description,omitempty"`
	Properties    map[string]string `json:"properties,omitempty"`
	Confidence    float64           `json:"confidence"`
	MatchStrategy Strategy          `json:"match_strategy,omitempty"`
	SourceCatalog string            `json:"source_catalog,omitempty"`
	MatchedAlias  string            `json:"matched_alias,omitempty"`
	Candidates    int               `json:"candidates"`
	Reason        UnlinkedReason    `json:"unlinked_reason,omitempty"`
}

// Key returns the canonical identity of the entity for relation keying:
// the catalog canonical name when linked, the raw mention text otherwise.
func (e *LinkedEntity) Key() string {
	if e.Linked && e.CanonicalName != "" {
		return e.CanonicalName
	}
	return e.MentionText
}

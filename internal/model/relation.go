package model

// Method identifies which extractor produced a relation candidate.
type Method string

const (
	MethodRule Method = "rule"
	MethodML   Method = "ml"
	MethodBoth Method = "both"
)

// RelationCandidate is one extracted (subject, relation, object) triple with
// its confidence. Rule and ML extractors produce these independently; the
// ensemble merges them.
type RelationCandidate struct {
	Subject       string  `json:"subject"`
	SubjectType   string  `json:"subject_type,omitempty"`
	RelationLabel string  `json:"relation_label"`
	Object        string  `json:"object"`
	ObjectType    string  `json:"object_type,omitempty"`
	Confidence    float64 `json:"confidence"`
	Method        Method  `json:"method"`
	EvidenceSpan  string  `json:"evidence_span,omitempty"`
}

package model

// OntologyClass is one node in the class forest. Each class has at most one
// parent; cycles are rejected at load time.
type OntologyClass struct {
	Name        string   `json:"name" yaml:"-"`
	Namespace   string   `json:"namespace" yaml:"-"`
	Parent      string   `json:"parent,omitempty" yaml:"parent"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases"`
	Properties  []string `json:"properties,omitempty" yaml:"properties"`
	Description string   `json:"description,omitempty" yaml:"description"`
}

// FullName returns the namespace-qualified class name, e.g. "schema:Person".
func (c *OntologyClass) FullName() string {
	return c.Namespace + ":" + c.Name
}

// OntologyRelation is a typed relation with domain/range constraints.
type OntologyRelation struct {
	Name        string   `json:"name" yaml:"-"`
	Namespace   string   `json:"namespace" yaml:"-"`
	Domain      []string `json:"domain,omitempty" yaml:"domain"`
	Range       []string `json:"range,omitempty" yaml:"range"`
	Inverse     string   `json:"inverse,omitempty" yaml:"inverse"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases"`
	Description string   `json:"description,omitempty" yaml:"description"`
}

// FullName returns the namespace-qualified relation name.
func (r *OntologyRelation) FullName() string {
	return r.Namespace + ":" + r.Name
}

// ClassMapping is one ranked ontology class match for a linked entity.
type ClassMapping struct {
	Class      *OntologyClass `json:"class"`
	Confidence float64        `json:"confidence"`
	Strategy   Strategy       `json:"strategy"`
}

// RelationMapping is one ranked ontology relation match for a relation label.
type RelationMapping struct {
	Relation   *OntologyRelation `json:"relation"`
	Confidence float64           `json:"confidence"`
	Strategy   Strategy          `json:"strategy"`
}

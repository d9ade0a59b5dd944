package ontology

import (
	"context"

	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/match"
	"github.com/autograph-kg/autograph/internal/model"
)

// mappingLimit caps ranked class/relation suggestions per element.
const mappingLimit = 3

// Mapper maps linked entities onto ontology classes and relation labels onto
// ontology relations. Classes and relations are presented to the candidate
// matcher as record pools so both mappings share the catalog scoring
// mechanics.
type Mapper struct {
	ont            *Ontology
	matcher        *match.Matcher
	classPool      *match.Pool
	relationPool   *match.Pool
	recordClass    map[*model.CatalogRecord]*model.OntologyClass
	recordRelation map[*model.CatalogRecord]*model.OntologyRelation
	logger         *zap.Logger
}

func NewMapper(ont *Ontology, matcher *match.Matcher, logger *zap.Logger) *Mapper {
	m := &Mapper{
		ont:            ont,
		matcher:        matcher,
		recordClass:    make(map[*model.CatalogRecord]*model.OntologyClass),
		recordRelation: make(map[*model.CatalogRecord]*model.OntologyRelation),
		logger:         logger.Named("ontology.mapper"),
	}

	classRecords := make([]*model.CatalogRecord, 0, len(ont.Classes))
	for _, c := range ont.Classes {
		props := make(map[string]string, len(c.Properties))
		for _, p := range c.Properties {
			props[p] = ""
		}
		r := &model.CatalogRecord{
			ID:            c.FullName(),
			CanonicalName: c.Name,
			Aliases:       c.Aliases,
			Description:   c.Description,
			Properties:    props,
			URI:           c.FullName(),
		}
		classRecords = append(classRecords, r)
		m.recordClass[r] = c
	}
	m.classPool = match.NewPool("ontology_classes", 0, classRecords)

	relationRecords := make([]*model.CatalogRecord, 0, len(ont.Relations))
	for _, rel := range ont.Relations {
		r := &model.CatalogRecord{
			ID:            rel.FullName(),
			CanonicalName: rel.Name,
			Aliases:       rel.Aliases,
			Description:   rel.Description,
			URI:           rel.FullName(),
		}
		relationRecords = append(relationRecords, r)
		m.recordRelation[r] = rel
	}
	m.relationPool = match.NewPool("ontology_relations", 0, relationRecords)

	return m
}

// MapEntity returns up to three ranked class mappings for an entity name.
// When the name itself yields nothing, the entity-type label is looked up
// instead, which resolves NER labels through the builtin class aliases.
func (m *Mapper) MapEntity(ctx context.Context, name, entityType string, properties []string) []model.ClassMapping {
	sources := []match.Source{m.classPool}
	cands := m.matcher.FindCandidates(ctx,
		match.Query{Text: name, Properties: properties}, sources, mappingLimit)
	if len(cands) == 0 && entityType != "" {
		cands = m.matcher.FindCandidates(ctx,
			match.Query{Text: entityType}, sources, mappingLimit)
	}

	out := make([]model.ClassMapping, 0, len(cands))
	for _, c := range cands {
		class, ok := m.recordClass[c.Record]
		if !ok {
			continue
		}
		out = append(out, model.ClassMapping{
			Class:      class,
			Confidence: c.Score,
			Strategy:   c.Strategy,
		})
	}
	return out
}

// MapRelation returns up to three ranked relation mappings for a label.
func (m *Mapper) MapRelation(ctx context.Context, label string) []model.RelationMapping {
	cands := m.matcher.FindCandidates(ctx,
		match.Query{Text: label}, []match.Source{m.relationPool}, mappingLimit)

	out := make([]model.RelationMapping, 0, len(cands))
	for _, c := range cands {
		rel, ok := m.recordRelation[c.Record]
		if !ok {
			continue
		}
		out = append(out, model.RelationMapping{
			Relation:   rel,
			Confidence: c.Score,
			Strategy:   c.Strategy,
		})
	}
	return out
}

// CheckTriple reports whether a labeled relation between two entity-type
// labels is consistent with the ontology's domain/range constraints.
// Relations or types the ontology does not know pass unchecked, as does a
// relation with no declared constraint.
func (m *Mapper) CheckTriple(subjectType, label, objectType string) bool {
	rel := m.ont.RelationForLabel(label)
	if rel == nil {
		return true
	}
	if len(rel.Domain) > 0 {
		if c := m.ont.ClassForLabel(subjectType); c != nil && !m.ont.TypeCompatible(c.FullName(), rel.Domain) {
			return false
		}
	}
	if len(rel.Range) > 0 {
		if c := m.ont.ClassForLabel(objectType); c != nil && !m.ont.TypeCompatible(c.FullName(), rel.Range) {
			return false
		}
	}
	return true
}

// InverseLabel returns the declared inverse relation's name for a label, or
// "" when the relation has none or is unknown.
func (m *Mapper) InverseLabel(label string) string {
	rel := m.ont.RelationForLabel(label)
	if rel == nil || rel.Inverse == "" {
		return ""
	}
	if inv, ok := m.ont.Relations[rel.Inverse]; ok {
		return inv.Name
	}
	return rel.Inverse
}

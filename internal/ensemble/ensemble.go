package ensemble

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/model"
)

// Consistency is the ontology view the combiner needs: triple-level
// domain/range checking and inverse resolution for redundancy collapsing.
type Consistency interface {
	CheckTriple(subjectType, label, objectType string) bool
	InverseLabel(label string) string
}

// Combiner merges rule-based and ML-extracted relation candidates by
// weighted union. A triple found by both extractors scores the weighted sum
// of both confidences; a triple found by one scores that extractor's weight
// times its confidence. No consensus bonus beyond the sum is applied.
type Combiner struct {
	ruleWeight float64
	mlWeight   float64
	threshold  float64
	checker    Consistency
	logger     *zap.Logger
}

func NewCombiner(ruleWeight, mlWeight, threshold float64, checker Consistency, logger *zap.Logger) *Combiner {
	return &Combiner{
		ruleWeight: ruleWeight,
		mlWeight:   mlWeight,
		threshold:  threshold,
		checker:    checker,
		logger:     logger.Named("ensemble"),
	}
}

// tripleKey normalizes a candidate to its identity for merging. Labels and
// entity names are compared case-insensitively.
func tripleKey(subject, label, object string) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.ToLower(subject), strings.ToLower(label), strings.ToLower(object))
}

type merged struct {
	cand     model.RelationCandidate
	ruleConf float64
	mlConf   float64
	hasRule  bool
	hasML    bool
}

// Combine merges the two candidate sets, drops ontology-inconsistent and
// sub-threshold triples, collapses inverse duplicates, and returns the
// survivors ranked by confidence.
//
// A nil ml slice means the ML extractor is unavailable; rule candidates then
// pass through with their confidences unchanged, filters still applied.
func (c *Combiner) Combine(rule, ml []model.RelationCandidate) []model.RelationCandidate {
	var out []model.RelationCandidate
	if ml == nil {
		out = make([]model.RelationCandidate, len(rule))
		copy(out, rule)
		for i := range out {
			out[i].Method = model.MethodRule
		}
	} else {
		out = c.weightedUnion(rule, ml)
	}

	out = c.filterConsistent(out)

	kept := out[:0]
	for _, r := range out {
		if r.Confidence >= c.threshold {
			kept = append(kept, r)
		}
	}
	out = kept

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if ri, rj := methodRank(out[i].Method), methodRank(out[j].Method); ri != rj {
			return ri < rj
		}
		return tripleKey(out[i].Subject, out[i].RelationLabel, out[i].Object) <
			tripleKey(out[j].Subject, out[j].RelationLabel, out[j].Object)
	})

	return c.collapseInverses(out)
}

// methodRank breaks confidence ties: consensus first, then rule, then ML.
func methodRank(m model.Method) int {
	switch m {
	case model.MethodBoth:
		return 0
	case model.MethodRule:
		return 1
	default:
		return 2
	}
}

func (c *Combiner) weightedUnion(rule, ml []model.RelationCandidate) []model.RelationCandidate {
	byKey := make(map[string]*merged)
	var order []string

	add := func(cand model.RelationCandidate, isRule bool) {
		key := tripleKey(cand.Subject, cand.RelationLabel, cand.Object)
		m, ok := byKey[key]
		if !ok {
			m = &merged{cand: cand}
			byKey[key] = m
			order = append(order, key)
		}
		// Duplicates within one extractor keep the highest confidence.
		if isRule {
			if !m.hasRule || cand.Confidence > m.ruleConf {
				m.ruleConf = cand.Confidence
			}
			m.hasRule = true
			m.cand.EvidenceSpan = firstNonEmpty(cand.EvidenceSpan, m.cand.EvidenceSpan)
		} else {
			if !m.hasML || cand.Confidence > m.mlConf {
				m.mlConf = cand.Confidence
			}
			m.hasML = true
			m.cand.EvidenceSpan = firstNonEmpty(m.cand.EvidenceSpan, cand.EvidenceSpan)
		}
	}

	for _, r := range rule {
		add(r, true)
	}
	for _, r := range ml {
		add(r, false)
	}

	out := make([]model.RelationCandidate, 0, len(order))
	for _, key := range order {
		m := byKey[key]
		switch {
		case m.hasRule && m.hasML:
			m.cand.Confidence = c.ruleWeight*m.ruleConf + c.mlWeight*m.mlConf
			m.cand.Method = model.MethodBoth
		case m.hasRule:
			m.cand.Confidence = c.ruleWeight * m.ruleConf
			m.cand.Method = model.MethodRule
		default:
			m.cand.Confidence = c.mlWeight * m.mlConf
			m.cand.Method = model.MethodML
		}
		if m.cand.Confidence > 1.0 {
			m.cand.Confidence = 1.0
		}
		out = append(out, m.cand)
	}
	return out
}

func (c *Combiner) filterConsistent(in []model.RelationCandidate) []model.RelationCandidate {
	if c.checker == nil {
		return in
	}
	out := in[:0]
	for _, r := range in {
		if c.checker.CheckTriple(r.SubjectType, r.RelationLabel, r.ObjectType) {
			out = append(out, r)
			continue
		}
		c.logger.Debug("relation dropped, ontology inconsistent",
			zap.String("subject", r.Subject),
			zap.String("label", r.RelationLabel),
			zap.String("object", r.Object))
	}
	return out
}

// collapseInverses drops a triple when its declared inverse is already kept
// with equal or higher rank. Input must be sorted, so the survivor is the
// higher-confidence direction.
func (c *Combiner) collapseInverses(in []model.RelationCandidate) []model.RelationCandidate {
	if c.checker == nil {
		return in
	}
	kept := make(map[string]bool, len(in))
	out := in[:0]
	for _, r := range in {
		if inv := c.checker.InverseLabel(r.RelationLabel); inv != "" {
			if kept[tripleKey(r.Object, inv, r.Subject)] {
				continue
			}
		}
		kept[tripleKey(r.Subject, r.RelationLabel, r.Object)] = true
		out = append(out, r)
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/model"
)

type mockChecker struct {
	invalid  map[string]bool // "subjectType|label|objectType"
	inverses map[string]string
}

func (m *mockChecker) CheckTriple(subjectType, label, objectType string) bool {
	return !m.invalid[subjectType+"|"+label+"|"+objectType]
}

func (m *mockChecker) InverseLabel(label string) string {
	return m.inverses[label]
}

func rel(subject, label, object string, conf float64) model.RelationCandidate {
	return model.RelationCandidate{
		Subject: subject, RelationLabel: label, Object: object, Confidence: conf,
	}
}

func TestDualSourceWeightedSum(t *testing.T) {
	c := NewCombiner(0.3, 0.7, 0.5, nil, zap.NewNop())

	got := c.Combine(
		[]model.RelationCandidate{rel("Alice", "worksFor", "BMW AG", 0.9)},
		[]model.RelationCandidate{rel("alice", "WORKSFOR", "bmw ag", 0.8)},
	)

	require.Len(t, got, 1)
	assert.Equal(t, model.MethodBoth, got[0].Method)
	assert.InDelta(t, 0.3*0.9+0.7*0.8, got[0].Confidence, 1e-9)
}

func TestSingleSourceWeighting(t *testing.T) {
	c := NewCombiner(0.6, 0.4, 0.5, nil, zap.NewNop())

	// ML-only candidate: 0.4 * 0.87 = 0.348, below 0.5, filtered.
	got := c.Combine(
		[]model.RelationCandidate{},
		[]model.RelationCandidate{rel("Alice", "knows", "Bob", 0.87)},
	)
	assert.Empty(t, got)

	// Same candidate passes a lower threshold with the weighted confidence.
	c = NewCombiner(0.6, 0.4, 0.3, nil, zap.NewNop())
	got = c.Combine(
		[]model.RelationCandidate{},
		[]model.RelationCandidate{rel("Alice", "knows", "Bob", 0.87)},
	)
	require.Len(t, got, 1)
	assert.Equal(t, model.MethodML, got[0].Method)
	assert.InDelta(t, 0.348, got[0].Confidence, 1e-9)
}

func TestConsensusNeverScoresBelowParts(t *testing.T) {
	c := NewCombiner(0.3, 0.7, 0.0, nil, zap.NewNop())

	single := c.Combine(nil, []model.RelationCandidate{rel("A", "r", "B", 0.8)})
	require.Len(t, single, 1)

	dual := c.Combine(
		[]model.RelationCandidate{rel("A", "r", "B", 0.8)},
		[]model.RelationCandidate{rel("A", "r", "B", 0.8)},
	)
	require.Len(t, dual, 1)
	assert.GreaterOrEqual(t, dual[0].Confidence, single[0].Confidence)
}

func TestRuleOnlyPassthrough(t *testing.T) {
	c := NewCombiner(0.3, 0.7, 0.5, nil, zap.NewNop())

	// nil ML slice means the extractor is unavailable; confidences are kept.
	got := c.Combine([]model.RelationCandidate{rel("Alice", "worksFor", "BMW AG", 0.75)}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, model.MethodRule, got[0].Method)
	assert.Equal(t, 0.75, got[0].Confidence)

	// An empty (non-nil) ML slice means the extractor ran and found nothing;
	// rule candidates are down-weighted as single-source.
	got = c.Combine([]model.RelationCandidate{rel("Alice", "worksFor", "BMW AG", 0.75)},
		[]model.RelationCandidate{})
	assert.Empty(t, got)
}

func TestConfidenceClampedToOne(t *testing.T) {
	c := NewCombiner(0.8, 0.8, 0.0, nil, zap.NewNop())

	got := c.Combine(
		[]model.RelationCandidate{rel("A", "r", "B", 1.0)},
		[]model.RelationCandidate{rel("A", "r", "B", 1.0)},
	)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Confidence)
}

func TestOntologyInconsistentDropped(t *testing.T) {
	checker := &mockChecker{invalid: map[string]bool{"LOC|worksFor|ORG": true}}
	c := NewCombiner(0.3, 0.7, 0.0, checker, zap.NewNop())

	bad := rel("Berlin", "worksFor", "BMW AG", 0.9)
	bad.SubjectType, bad.ObjectType = "LOC", "ORG"
	good := rel("Alice", "worksFor", "BMW AG", 0.9)
	good.SubjectType, good.ObjectType = "PERSON", "ORG"

	got := c.Combine([]model.RelationCandidate{bad, good}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Subject)
}

func TestInverseCollapseKeepsHigherConfidence(t *testing.T) {
	checker := &mockChecker{inverses: map[string]string{
		"founder":   "founderOf",
		"founderOf": "founder",
	}}
	c := NewCombiner(0.3, 0.7, 0.0, checker, zap.NewNop())

	got := c.Combine([]model.RelationCandidate{
		rel("BMW AG", "founder", "Karl Rapp", 0.7),
		rel("Karl Rapp", "founderOf", "BMW AG", 0.9),
	}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Karl Rapp", got[0].Subject)
	assert.Equal(t, "founderOf", got[0].RelationLabel)
}

func TestRankingIsDeterministic(t *testing.T) {
	c := NewCombiner(0.5, 0.5, 0.0, nil, zap.NewNop())

	got := c.Combine([]model.RelationCandidate{
		rel("B", "r", "C", 0.8),
		rel("A", "r", "B", 0.8),
		rel("A", "s", "C", 0.9),
	}, nil)

	require.Len(t, got, 3)
	assert.Equal(t, "s", got[0].RelationLabel)
	assert.Equal(t, "A", got[1].Subject)
	assert.Equal(t, "B", got[2].Subject)
}

func TestDuplicateWithinSourceKeepsMax(t *testing.T) {
	c := NewCombiner(1.0, 1.0, 0.0, nil, zap.NewNop())

	got := c.Combine(
		[]model.RelationCandidate{
			rel("A", "r", "B", 0.6),
			rel("A", "r", "B", 0.9),
		},
		[]model.RelationCandidate{},
	)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)
}

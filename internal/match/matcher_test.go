package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/model"
)

type countingEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func testPool() *Pool {
	return NewPool("test", 1, []*model.CatalogRecord{
		{
			ID:            "drug:aspirin",
			CanonicalName: "Acetylsalicylsäure",
			EntityType:    "DRUG",
			Domain:        "medizin",
			Aliases:       []string{"Aspirin", "ASS"},
		},
		{
			ID:            "org:bmw",
			CanonicalName: "BMW AG",
			EntityType:    "ORG",
			Domain:        "wirtschaft",
			Aliases:       []string{"BMW", "Bayerische Motoren Werke"},
		},
		{
			ID:            "org:siemens",
			CanonicalName: "Siemens AG",
			EntityType:    "ORG",
			Domain:        "wirtschaft",
			Aliases:       []string{"Siemens"},
		},
	})
}

func TestExactMatchScoresOne(t *testing.T) {
	m := NewMatcher(nil, zap.NewNop())
	got := m.FindCandidates(context.Background(),
		Query{Text: "BMW AG", Type: "ORG"}, []Source{testPool()}, 10)

	require.NotEmpty(t, got)
	assert.Equal(t, model.StrategyExact, got[0].Strategy)
	assert.Equal(t, 1.0, got[0].Score)
	assert.Equal(t, "BMW AG", got[0].Record.CanonicalName)
}

func TestAliasMatchScoresPointNine(t *testing.T) {
	m := NewMatcher(nil, zap.NewNop())
	got := m.FindCandidates(context.Background(),
		Query{Text: "Aspirin", Type: "DRUG", Domain: "medizin"}, []Source{testPool()}, 10)

	require.NotEmpty(t, got)
	assert.Equal(t, model.StrategyAlias, got[0].Strategy)
	assert.InDelta(t, 0.9, got[0].Score, 1e-9)
	assert.Equal(t, "Acetylsalicylsäure", got[0].Record.CanonicalName)
	assert.Equal(t, "Aspirin", got[0].MatchedAlias)
}

func TestFuzzyMatchRespectsFloor(t *testing.T) {
	m := NewMatcher(nil, zap.NewNop())

	got := m.FindCandidates(context.Background(),
		Query{Text: "Siemens A", Type: "ORG"}, []Source{testPool()}, 10)
	require.NotEmpty(t, got)
	assert.Equal(t, model.StrategyFuzzy, got[0].Strategy)
	assert.GreaterOrEqual(t, got[0].RawScore, FuzzyFloor)
	assert.InDelta(t, got[0].RawScore*0.8, got[0].Score, 1e-9)

	got = m.FindCandidates(context.Background(),
		Query{Text: "Lufthansa", Type: "ORG"}, []Source{testPool()}, 10)
	assert.Empty(t, got)
}

func TestTypeAndDomainPartition(t *testing.T) {
	m := NewMatcher(nil, zap.NewNop())

	// Typed record never matches a conflicting typed query.
	got := m.FindCandidates(context.Background(),
		Query{Text: "BMW AG", Type: "LOC"}, []Source{testPool()}, 10)
	assert.Empty(t, got)

	// Foreign-domain records are skipped.
	got = m.FindCandidates(context.Background(),
		Query{Text: "BMW AG", Domain: "medizin"}, []Source{testPool()}, 10)
	assert.Empty(t, got)

	// Domain-neutral records stay eligible everywhere.
	neutral := NewPool("neutral", 1, []*model.CatalogRecord{
		{CanonicalName: "Berlin", EntityType: "LOC", Domain: "allgemein"},
	})
	got = m.FindCandidates(context.Background(),
		Query{Text: "Berlin", Domain: "medizin"}, []Source{neutral}, 10)
	require.NotEmpty(t, got)
	assert.Equal(t, 1.0, got[0].Score)
}

func TestCatalogPriorityBreaksTies(t *testing.T) {
	low := NewPool("low", 5, []*model.CatalogRecord{
		{ID: "low:x", CanonicalName: "Siemens AG", EntityType: "ORG"},
	})
	high := NewPool("high", 1, []*model.CatalogRecord{
		{ID: "high:x", CanonicalName: "Siemens AG", EntityType: "ORG"},
	})

	m := NewMatcher(nil, zap.NewNop())
	got := m.FindCandidates(context.Background(),
		Query{Text: "Siemens AG"}, []Source{low, high}, 10)

	require.Len(t, got, 2)
	assert.Equal(t, "high:x", got[0].Record.ID)
	assert.Equal(t, "low:x", got[1].Record.ID)
}

func TestPropertyOverlapRatio(t *testing.T) {
	pool := NewPool("props", 1, []*model.CatalogRecord{
		{
			CanonicalName: "Arzt",
			Properties:    map[string]string{"name": "", "fachgebiet": "", "klinik": ""},
		},
	})

	m := NewMatcher(nil, zap.NewNop())
	got := m.FindCandidates(context.Background(),
		Query{Text: "Doktor", Properties: []string{"name", "fachgebiet", "geburtstag", "titel"}},
		[]Source{pool}, 10)

	require.NotEmpty(t, got)
	assert.Equal(t, model.StrategyPropertyOverlap, got[0].Strategy)
	assert.InDelta(t, 0.5, got[0].RawScore, 1e-9)
}

func TestSemanticSkipsEmbeddingWithoutTargets(t *testing.T) {
	emb := &countingEmbedder{}
	m := NewMatcher(emb, zap.NewNop())

	empty := NewPool("empty", 1, nil)
	got := m.FindCandidates(context.Background(),
		Query{Text: "Aspirin", Context: "Kopfschmerzen"}, []Source{empty}, 10)

	assert.Empty(t, got)
	assert.Equal(t, 0, emb.calls, "no embedding call without eligible records")
}

func TestSemanticMatchUsesDescriptions(t *testing.T) {
	emb := &countingEmbedder{vectors: map[string][]float32{
		"Schmerzmittel gegen Kopfschmerzen": {1, 0, 0},
		"Medikament zur Schmerzlinderung":   {0.9, 0.1, 0},
	}}
	pool := NewPool("drugs", 1, []*model.CatalogRecord{
		{
			CanonicalName: "Ibuprofen",
			Description:   "Medikament zur Schmerzlinderung",
		},
	})

	m := NewMatcher(emb, zap.NewNop())
	got := m.FindCandidates(context.Background(),
		Query{Text: "Schmerzmittel", Context: "gegen Kopfschmerzen"}, []Source{pool}, 10)

	require.NotEmpty(t, got)
	assert.Equal(t, model.StrategySemantic, got[0].Strategy)
	assert.Greater(t, got[0].Score, 0.0)
	assert.LessOrEqual(t, got[0].Score, 0.7)
}

func TestMaxCapsResults(t *testing.T) {
	m := NewMatcher(nil, zap.NewNop())
	got := m.FindCandidates(context.Background(),
		Query{Text: "Siemens AG"}, []Source{testPool()}, 1)
	assert.Len(t, got, 1)
}

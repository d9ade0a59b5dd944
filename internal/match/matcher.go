package match

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/common"
	"github.com/autograph-kg/autograph/internal/llm"
	"github.com/autograph-kg/autograph/internal/model"
)

// FuzzyFloor is the minimum similarity a fuzzy candidate must reach.
const FuzzyFloor = 0.8

// Source is anything the matcher can draw candidates from: an entity
// catalog, or an ontology's classes or relations viewed as records.
type Source interface {
	SourceName() string
	SourcePriority() int
	All() []*model.CatalogRecord
	ByName(key string) []*model.CatalogRecord
	ByAlias(key string) []*model.CatalogRecord
}

// Query describes one lookup.
type Query struct {
	Text    string
	Type    string
	Domain  string
	Context string
	// Properties enables the property-overlap strategy (ontology mapping).
	Properties []string
}

// Matcher produces ranked candidates from one or more sources. The strategy
// set is fixed; each variant scores independently and the pooled results are
// ranked by weighted score.
type Matcher struct {
	embedder llm.EmbedderClient
	logger   *zap.Logger
}

func NewMatcher(embedder llm.EmbedderClient, logger *zap.Logger) *Matcher {
	return &Matcher{embedder: embedder, logger: logger.Named("match")}
}

// FindCandidates pools candidates across all strategies and sources, keeps
// the best candidate per record, and returns at most max, ranked.
func (m *Matcher) FindCandidates(ctx context.Context, q Query, sources []Source, max int) []model.MatchCandidate {
	best := make(map[*model.CatalogRecord]model.MatchCandidate)

	keep := func(c model.MatchCandidate) {
		prev, ok := best[c.Record]
		if !ok || c.Score > prev.Score ||
			(c.Score == prev.Score && c.Strategy.Rank() < prev.Strategy.Rank()) {
			best[c.Record] = c
		}
	}

	for _, src := range sources {
		for _, c := range m.exactCandidates(q, src) {
			keep(c)
		}
		for _, c := range m.aliasCandidates(q, src) {
			keep(c)
		}
		for _, c := range m.fuzzyCandidates(q, src) {
			keep(c)
		}
		for _, c := range m.overlapCandidates(q, src) {
			keep(c)
		}
	}

	// Semantic scoring needs the embedding collaborator and textual context;
	// without either the strategy is skipped entirely. No embedding call is
	// made unless at least one eligible described record exists.
	if m.embedder != nil && q.Context != "" {
		for _, c := range m.semanticCandidates(ctx, q, sources) {
			keep(c)
		}
	}

	ranked := make([]model.MatchCandidate, 0, len(best))
	for _, c := range best {
		ranked = append(ranked, c)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Strategy.Rank() != ranked[j].Strategy.Rank() {
			return ranked[i].Strategy.Rank() < ranked[j].Strategy.Rank()
		}
		if ranked[i].CatalogPriority != ranked[j].CatalogPriority {
			return ranked[i].CatalogPriority < ranked[j].CatalogPriority
		}
		return ranked[i].Record.CanonicalName < ranked[j].Record.CanonicalName
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// eligible applies the type/domain partition: a typed record must match a
// typed query, and a record in another specific domain is skipped.
// Domain-neutral ("allgemein" or empty) records are always eligible.
func eligible(q Query, r *model.CatalogRecord) bool {
	if q.Type != "" && r.EntityType != "" && !strings.EqualFold(q.Type, r.EntityType) {
		return false
	}
	if q.Domain != "" && r.Domain != "" && r.Domain != "allgemein" && !strings.EqualFold(q.Domain, r.Domain) {
		return false
	}
	return true
}

func (m *Matcher) exactCandidates(q Query, src Source) []model.MatchCandidate {
	var out []model.MatchCandidate
	for _, r := range src.ByName(q.Text) {
		if !eligible(q, r) {
			continue
		}
		out = append(out, candidate(r, src, model.StrategyExact, 1.0, ""))
	}
	return out
}

func (m *Matcher) aliasCandidates(q Query, src Source) []model.MatchCandidate {
	var out []model.MatchCandidate
	seen := make(map[*model.CatalogRecord]bool)

	for _, r := range src.ByAlias(q.Text) {
		if !eligible(q, r) {
			continue
		}
		out = append(out, candidate(r, src, model.StrategyAlias, 1.0, q.Text))
		seen[r] = true
	}

	// Normalized pass picks up punctuation/diacritics variants the direct
	// alias index misses.
	nq := normalize(q.Text)
	for _, r := range src.All() {
		if seen[r] || !eligible(q, r) {
			continue
		}
		for _, a := range r.Aliases {
			if normalize(a) == nq {
				out = append(out, candidate(r, src, model.StrategyAlias, 1.0, a))
				break
			}
		}
	}
	return out
}

func (m *Matcher) fuzzyCandidates(q Query, src Source) []model.MatchCandidate {
	nq := normalize(q.Text)
	var out []model.MatchCandidate
	for _, r := range src.All() {
		if !eligible(q, r) {
			continue
		}
		sim := Similarity(nq, normalize(r.CanonicalName))
		for _, a := range r.Aliases {
			if s := Similarity(nq, normalize(a)); s > sim {
				sim = s
			}
		}
		if sim >= FuzzyFloor {
			out = append(out, candidate(r, src, model.StrategyFuzzy, sim, ""))
		}
	}
	return out
}

func (m *Matcher) overlapCandidates(q Query, src Source) []model.MatchCandidate {
	if len(q.Properties) == 0 {
		return nil
	}
	var out []model.MatchCandidate
	for _, r := range src.All() {
		if !eligible(q, r) || len(r.Properties) == 0 {
			continue
		}
		matched := 0
		for _, p := range q.Properties {
			if _, ok := r.Properties[p]; ok {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		ratio := float64(matched) / float64(len(q.Properties))
		out = append(out, candidate(r, src, model.StrategyPropertyOverlap, ratio, ""))
	}
	return out
}

func (m *Matcher) semanticCandidates(ctx context.Context, q Query, sources []Source) []model.MatchCandidate {
	type target struct {
		rec *model.CatalogRecord
		src Source
	}
	var targets []target
	for _, src := range sources {
		for _, r := range src.All() {
			if eligible(q, r) && r.Description != "" {
				targets = append(targets, target{rec: r, src: src})
			}
		}
	}
	if len(targets) == 0 {
		return nil
	}

	queryVec, err := m.embedder.Embed(ctx, q.Text+" "+q.Context)
	if err != nil {
		m.logger.Warn("semantic strategy skipped, query embedding failed", zap.Error(err))
		return nil
	}

	var out []model.MatchCandidate
	for _, t := range targets {
		vec, err := m.embedder.Embed(ctx, t.rec.Description)
		if err != nil {
			continue
		}
		sim := common.Cosine(queryVec, vec)
		if sim <= 0 {
			continue
		}
		out = append(out, candidate(t.rec, t.src, model.StrategySemantic, sim, ""))
	}
	return out
}

func candidate(r *model.CatalogRecord, src Source, strategy model.Strategy, raw float64, alias string) model.MatchCandidate {
	return model.MatchCandidate{
		Record:          r,
		Strategy:        strategy,
		RawScore:        raw,
		Score:           raw * strategy.Weight(),
		MatchedAlias:    alias,
		CatalogPriority: src.SourcePriority(),
	}
}

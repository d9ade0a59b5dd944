package linker

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/catalog"
	"github.com/autograph-kg/autograph/internal/config"
	"github.com/autograph-kg/autograph/internal/lookup"
	"github.com/autograph-kg/autograph/internal/match"
	"github.com/autograph-kg/autograph/internal/model"
)

// externalPriority ranks the external source behind every local catalog.
const externalPriority = 1 << 20

// Linker resolves entity mentions to catalog records under the configured
// source-priority policy. Apart from populating the lookup cache it performs
// no mutation, so identical catalog state yields identical results.
type Linker struct {
	store         *catalog.Store
	matcher       *match.Matcher
	external      lookup.Client
	cache         lookup.Cache
	mode          config.Mode
	threshold     float64
	maxCandidates int
	logger        *zap.Logger
}

type Options struct {
	Mode          config.Mode
	Threshold     float64
	MaxCandidates int
}

func New(store *catalog.Store, matcher *match.Matcher, external lookup.Client, cache lookup.Cache, opts Options, logger *zap.Logger) *Linker {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 10
	}
	return &Linker{
		store:         store,
		matcher:       matcher,
		external:      external,
		cache:         cache,
		mode:          opts.Mode,
		threshold:     opts.Threshold,
		maxCandidates: opts.MaxCandidates,
		logger:        logger.Named("linker"),
	}
}

// Link resolves one mention. It never returns an error: transient lookup
// failures degrade to an unlinked result with the reason recorded.
func (l *Linker) Link(ctx context.Context, mention model.Mention, domain, textContext string) model.LinkedEntity {
	text := strings.TrimSpace(mention.Text)
	if text == "" {
		return unlinked(mention, model.ReasonEmptyMention, 0, 0)
	}

	q := match.Query{
		Text:    text,
		Type:    mention.Type,
		Domain:  domain,
		Context: textContext,
	}

	switch l.mode {
	case config.ModeOnline:
		return l.linkOnline(ctx, mention, q)
	case config.ModeHybrid:
		return l.linkHybrid(ctx, mention, q)
	default:
		return l.linkOffline(ctx, mention, q)
	}
}

// linkOffline consults offline-eligible catalogs in ascending priority and
// stops at the first catalog with a candidate above the threshold.
func (l *Linker) linkOffline(ctx context.Context, mention model.Mention, q match.Query) model.LinkedEntity {
	best, seen := l.localBest(ctx, q, true)
	if best != nil {
		return l.fromCandidate(mention, *best, seen)
	}
	if seen == 0 {
		return unlinked(mention, model.ReasonNoCandidates, 0, 0)
	}
	return unlinked(mention, model.ReasonLowConfidence, l.bestLocalScore(ctx, q, true), seen)
}

// linkHybrid tries local catalogs first and only then the external source.
// A local exact or alias match short-circuits before any network activity,
// so an external result can never outrank one.
func (l *Linker) linkHybrid(ctx context.Context, mention model.Mention, q match.Query) model.LinkedEntity {
	best, seen := l.localBest(ctx, q, true)
	if best != nil {
		return l.fromCandidate(mention, *best, seen)
	}

	result, err := l.externalLookup(ctx, q)
	if err != nil {
		l.logger.Warn("external lookup degraded to not-linked",
			zap.String("mention", q.Text), zap.Error(err))
		if seen == 0 {
			return unlinked(mention, model.ReasonLookupUnavailable, 0, 0)
		}
		return unlinked(mention, model.ReasonLowConfidence, l.bestLocalScore(ctx, q, true), seen)
	}

	if result != nil && result.Found {
		if c := l.matchExternal(ctx, q, result.Record); c != nil {
			return l.fromCandidate(mention, *c, seen+1)
		}
	}
	if seen == 0 {
		return unlinked(mention, model.ReasonNoCandidates, 0, 0)
	}
	return unlinked(mention, model.ReasonLowConfidence, l.bestLocalScore(ctx, q, true), seen)
}

// linkOnline queries the external source first and falls back to the full
// local catalog set only when it yields nothing.
func (l *Linker) linkOnline(ctx context.Context, mention model.Mention, q match.Query) model.LinkedEntity {
	result, err := l.externalLookup(ctx, q)
	if err == nil && result != nil && result.Found {
		if c := l.matchExternal(ctx, q, result.Record); c != nil {
			return l.fromCandidate(mention, *c, 1)
		}
	}
	if err != nil {
		l.logger.Warn("external lookup failed, falling back to local catalogs",
			zap.String("mention", q.Text), zap.Error(err))
	}

	best, seen := l.localBest(ctx, q, false)
	if best != nil {
		return l.fromCandidate(mention, *best, seen)
	}
	if seen == 0 {
		reason := model.ReasonNoCandidates
		if err != nil {
			reason = model.ReasonLookupUnavailable
		}
		return unlinked(mention, reason, 0, 0)
	}
	return unlinked(mention, model.ReasonLowConfidence, l.bestLocalScore(ctx, q, false), seen)
}

// localBest walks catalogs in priority order, returning the first
// above-threshold candidate and the total number of candidates seen.
func (l *Linker) localBest(ctx context.Context, q match.Query, offlineOnly bool) (*model.MatchCandidate, int) {
	seen := 0
	for _, c := range l.store.InPriorityOrder(offlineOnly) {
		candidates := l.matcher.FindCandidates(ctx, q, []match.Source{c}, l.maxCandidates)
		seen += len(candidates)
		if len(candidates) > 0 && candidates[0].Score >= l.threshold {
			return &candidates[0], seen
		}
	}
	return nil, seen
}

// bestLocalScore reports the top below-threshold score for diagnostics.
func (l *Linker) bestLocalScore(ctx context.Context, q match.Query, offlineOnly bool) float64 {
	best := 0.0
	for _, c := range l.store.InPriorityOrder(offlineOnly) {
		candidates := l.matcher.FindCandidates(ctx, q, []match.Source{c}, 1)
		if len(candidates) > 0 && candidates[0].Score > best {
			best = candidates[0].Score
		}
	}
	return best
}

// externalLookup consults the cache, then the live client, caching whatever
// it learns. Cache entries are idempotent lookups, so a racing writer is
// harmless.
func (l *Linker) externalLookup(ctx context.Context, q match.Query) (*lookup.Result, error) {
	if l.external == nil {
		return nil, lookup.ErrUnavailable
	}

	key := lookup.Key{Text: q.Text, Type: q.Type, Domain: q.Domain}
	if l.cache != nil {
		if r, ok := l.cache.Get(ctx, key); ok {
			return r, nil
		}
	}

	r, err := l.external.Lookup(ctx, q.Text, q.Type, q.Domain)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		l.cache.Set(ctx, key, r)
	}
	return r, nil
}

// matchExternal scores the externally found record with the same strategy
// mechanics as local records and applies the confidence threshold.
func (l *Linker) matchExternal(ctx context.Context, q match.Query, rec *model.CatalogRecord) *model.MatchCandidate {
	if rec == nil {
		return nil
	}
	pool := match.NewPool("external", externalPriority, []*model.CatalogRecord{rec})
	candidates := l.matcher.FindCandidates(ctx, q, []match.Source{pool}, 1)
	if len(candidates) == 0 || candidates[0].Score < l.threshold {
		return nil
	}
	return &candidates[0]
}

func (l *Linker) fromCandidate(mention model.Mention, c model.MatchCandidate, seen int) model.LinkedEntity {
	return model.LinkedEntity{
		MentionText:   mention.Text,
		MentionType:   mention.Type,
		Linked:        true,
		CanonicalName: c.Record.CanonicalName,
		URI:           c.Record.URI,
		Description:   c.Record.Description,
		Properties:    c.Record.Properties,
		Confidence:    c.Score,
		MatchStrategy: c.Strategy,
		SourceCatalog: c.Record.SourceCatalog,
		MatchedAlias:  c.MatchedAlias,
		Candidates:    seen,
	}
}

func unlinked(mention model.Mention, reason model.UnlinkedReason, confidence float64, seen int) model.LinkedEntity {
	return model.LinkedEntity{
		MentionText: mention.Text,
		MentionType: mention.Type,
		Linked:      false,
		Confidence:  confidence,
		Candidates:  seen,
		Reason:      reason,
	}
}

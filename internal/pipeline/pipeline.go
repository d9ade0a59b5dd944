package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/autograph-kg/autograph/internal/ensemble"
	"github.com/autograph-kg/autograph/internal/linker"
	"github.com/autograph-kg/autograph/internal/llm"
	"github.com/autograph-kg/autograph/internal/model"
	"github.com/autograph-kg/autograph/internal/ontology"
)

// maxScoredPairs caps the entity pairs per document sent to the relation
// scorer so LLM cost stays bounded on entity-dense documents.
const maxScoredPairs = 20

// GraphWriter is the optional persistence sink for document results.
type GraphWriter interface {
	WriteDocument(ctx context.Context, result *model.DocumentResult) error
}

// Engine drives one document through the full resolution chain: mention
// linking, relation extraction and combination, ontology mapping, and
// optional graph persistence.
type Engine struct {
	linker   *linker.Linker
	combiner *ensemble.Combiner
	mapper   *ontology.Mapper
	scorer   llm.RelationScorer // nil disables ML relation extraction
	writer   GraphWriter        // nil disables persistence
	workers  int64
	logger   *zap.Logger
}

type Options struct {
	Scorer  llm.RelationScorer
	Writer  GraphWriter
	Workers int
}

func NewEngine(lk *linker.Linker, cb *ensemble.Combiner, mp *ontology.Mapper, opts Options, logger *zap.Logger) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Engine{
		linker:   lk,
		combiner: cb,
		mapper:   mp,
		scorer:   opts.Scorer,
		writer:   opts.Writer,
		workers:  int64(workers),
		logger:   logger.Named("pipeline"),
	}
}

// ProcessDocument resolves one document. Linking never fails a document;
// only persistence errors do.
func (e *Engine) ProcessDocument(ctx context.Context, doc model.DocumentInput) (*model.DocumentResult, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	result := &model.DocumentResult{DocumentID: doc.ID, Domain: doc.Domain}

	linked := make([]model.LinkedEntity, 0, len(doc.Mentions))
	byMention := make(map[string]*model.LinkedEntity, len(doc.Mentions))
	for _, mention := range doc.Mentions {
		ent := e.linker.Link(ctx, mention, doc.Domain, doc.Text)
		linked = append(linked, ent)
		if _, ok := byMention[strings.ToLower(mention.Text)]; !ok {
			byMention[strings.ToLower(mention.Text)] = &linked[len(linked)-1]
		}
		e.tally(&result.Diagnostics, &ent)
	}

	rule := canonicalize(doc.RuleRelations, byMention)
	result.Diagnostics.RuleRelations = len(rule)

	var ml []model.RelationCandidate
	if e.scorer != nil {
		ml = e.scoreRelations(ctx, doc, linked)
		result.Diagnostics.MLRelations = len(ml)
	}

	final := e.combiner.Combine(rule, ml)
	result.Diagnostics.FinalRelations = len(final)

	for i := range linked {
		ent := linked[i]
		me := model.MappedEntity{Entity: ent}
		if ent.Linked {
			me.Mappings = e.mapper.MapEntity(ctx, ent.Key(), ent.MentionType, propertyKeys(ent.Properties))
		}
		result.Entities = append(result.Entities, me)
	}

	for _, rel := range final {
		mr := model.MappedRelation{Relation: rel}
		if mappings := e.mapper.MapRelation(ctx, rel.RelationLabel); len(mappings) > 0 {
			mr.Mapping = &mappings[0]
		}
		result.Relations = append(result.Relations, mr)
	}

	if e.writer != nil {
		if err := e.writer.WriteDocument(ctx, result); err != nil {
			return nil, fmt.Errorf("persisting document %s: %w", doc.ID, err)
		}
	}

	e.logger.Debug("document processed",
		zap.String("document_id", doc.ID),
		zap.Int("linked", result.Diagnostics.LinkedEntities),
		zap.Int("relations", result.Diagnostics.FinalRelations))
	return result, nil
}

func (e *Engine) tally(d *model.Diagnostics, ent *model.LinkedEntity) {
	d.TotalMentions++
	if ent.Linked {
		d.LinkedEntities++
		return
	}
	switch ent.Reason {
	case model.ReasonNoCandidates, model.ReasonEmptyMention:
		d.NoCandidates++
	case model.ReasonLowConfidence:
		d.BelowThreshold++
	case model.ReasonLookupUnavailable:
		d.LookupUnavailable++
	}
}

// canonicalize rewrites rule relation endpoints from surface mention text to
// the linked canonical names so both extractor outputs key identically.
func canonicalize(rels []model.RelationCandidate, byMention map[string]*model.LinkedEntity) []model.RelationCandidate {
	out := make([]model.RelationCandidate, len(rels))
	for i, r := range rels {
		r.Method = model.MethodRule
		if ent, ok := byMention[strings.ToLower(r.Subject)]; ok {
			r.Subject = ent.Key()
			r.SubjectType = ent.MentionType
		}
		if ent, ok := byMention[strings.ToLower(r.Object)]; ok {
			r.Object = ent.Key()
			r.ObjectType = ent.MentionType
		}
		out[i] = r
	}
	return out
}

// scoreRelations asks the LLM scorer about linked entity pairs that share a
// sentence. Scoring errors skip the pair; extraction is best effort.
func (e *Engine) scoreRelations(ctx context.Context, doc model.DocumentInput, linked []model.LinkedEntity) []model.RelationCandidate {
	type occurrence struct {
		ent     *model.LinkedEntity
		mention model.Mention
	}
	var occs []occurrence
	for i := range linked {
		if linked[i].Linked {
			occs = append(occs, occurrence{ent: &linked[i], mention: findMention(doc.Mentions, linked[i].MentionText)})
		}
	}

	// Non-nil even when empty so Combine applies single-source weighting
	// to rule relations whenever the scorer actually ran.
	out := []model.RelationCandidate{}
	pairs := 0
	failed := 0
	for i := 0; i < len(occs) && pairs < maxScoredPairs; i++ {
		for j := 0; j < len(occs) && pairs < maxScoredPairs; j++ {
			if i == j || occs[i].ent.Key() == occs[j].ent.Key() {
				continue
			}
			sentence := sentenceAround(doc.Text, occs[i].mention, occs[j].mention)
			if sentence == "" {
				continue
			}
			pairs++

			scores, err := e.scorer.ScoreRelation(ctx, sentence, occs[i].ent.Key(), occs[j].ent.Key())
			if err != nil {
				e.logger.Warn("relation scoring failed",
					zap.String("subject", occs[i].ent.Key()),
					zap.String("object", occs[j].ent.Key()),
					zap.Error(err))
				failed++
				continue
			}
			for _, s := range scores {
				if s.Label == "" || s.Confidence <= 0 {
					continue
				}
				out = append(out, model.RelationCandidate{
					Subject:       occs[i].ent.Key(),
					SubjectType:   occs[i].ent.MentionType,
					RelationLabel: s.Label,
					Object:        occs[j].ent.Key(),
					ObjectType:    occs[j].ent.MentionType,
					Confidence:    s.Confidence,
					Method:        model.MethodML,
					EvidenceSpan:  sentence,
				})
			}
		}
	}
	// Every pair failing means the scorer is down, not that it found
	// nothing; rule relations should then pass through unweighted.
	if pairs > 0 && failed == pairs {
		return nil
	}
	return out
}

func findMention(mentions []model.Mention, text string) model.Mention {
	for _, m := range mentions {
		if m.Text == text {
			return m
		}
	}
	return model.Mention{Text: text}
}

// sentenceAround returns the sentence containing both mentions, or "" when
// they do not co-occur in one.
func sentenceAround(text string, a, b model.Mention) string {
	if a.End == 0 || b.End == 0 || len(text) == 0 {
		return ""
	}
	lo, hi := a.Start, b.End
	if b.Start < lo {
		lo = b.Start
	}
	if a.End > hi {
		hi = a.End
	}
	if lo < 0 || hi > len(text) {
		return ""
	}

	start := lo
	for start > 0 && !isSentenceBreak(text[start-1]) {
		start--
	}
	end := hi
	for end < len(text) && !isSentenceBreak(text[end]) {
		end++
	}
	if end < len(text) {
		end++
	}
	return strings.TrimSpace(text[start:end])
}

func isSentenceBreak(c byte) bool {
	return c == '.' || c == '!' || c == '?' || c == '\n'
}

// ProcessBatch runs documents concurrently under a worker bound. On
// cancellation no new documents start; completed results are returned with
// Aborted set. Result order follows input order.
func (e *Engine) ProcessBatch(ctx context.Context, docs []model.DocumentInput) model.BatchResult {
	sem := semaphore.NewWeighted(e.workers)

	type slot struct {
		index   int
		result  *model.DocumentResult
		failure *model.DocumentFailure
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		slots []slot
	)
	batch := model.BatchResult{}

	for i, doc := range docs {
		if err := sem.Acquire(ctx, 1); err != nil {
			batch.Aborted = true
			break
		}
		wg.Add(1)
		go func(index int, doc model.DocumentInput) {
			defer wg.Done()
			defer sem.Release(1)

			// Assign the ID here so a failure stays attributable even
			// when the input arrived without one.
			if doc.ID == "" {
				doc.ID = uuid.New().String()
			}
			s := slot{index: index}
			result, err := e.ProcessDocument(ctx, doc)
			if err != nil {
				s.failure = &model.DocumentFailure{DocumentID: doc.ID, Error: err.Error()}
			} else {
				s.result = result
			}
			mu.Lock()
			slots = append(slots, s)
			mu.Unlock()
		}(i, doc)
	}
	wg.Wait()

	sort.Slice(slots, func(i, j int) bool { return slots[i].index < slots[j].index })
	for _, s := range slots {
		if s.failure != nil {
			batch.Failures = append(batch.Failures, *s.failure)
			continue
		}
		batch.Results = append(batch.Results, *s.result)
	}

	if batch.Aborted {
		e.logger.Warn("batch aborted",
			zap.Int("completed", len(batch.Results)),
			zap.Int("total", len(docs)))
	}
	return batch
}

func propertyKeys(props map[string]string) []string {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

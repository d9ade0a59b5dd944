package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/model"
)

// Writer persists document results: one Document node, one Entity node per
// resolved mention, MENTIONS edges, and RELATES_TO edges for the final
// relation set. Entity nodes merge on canonical name so repeated documents
// converge on one node per entity.
type Writer struct {
	driver Driver
	logger *zap.Logger
}

func NewWriter(driver Driver, logger *zap.Logger) *Writer {
	return &Writer{driver: driver, logger: logger.Named("graph.writer")}
}

func (w *Writer) WriteDocument(ctx context.Context, result *model.DocumentResult) error {
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := w.driver.ExecuteQuery(ctx, SaveDocumentNodeQuery, map[string]interface{}{
		"doc_id":     result.DocumentID,
		"uuid":       uuid.New().String(),
		"domain":     result.Domain,
		"created_at": now,
	})
	if err != nil {
		return fmt.Errorf("saving document %s: %w", result.DocumentID, err)
	}

	for i := range result.Entities {
		if err := w.writeEntity(ctx, result.DocumentID, &result.Entities[i], now); err != nil {
			return err
		}
	}

	for i := range result.Relations {
		if err := w.writeRelation(ctx, result.DocumentID, &result.Relations[i], now); err != nil {
			return err
		}
	}

	w.logger.Debug("document persisted",
		zap.String("document_id", result.DocumentID),
		zap.Int("entities", len(result.Entities)),
		zap.Int("relations", len(result.Relations)))
	return nil
}

func (w *Writer) writeEntity(ctx context.Context, docID string, me *model.MappedEntity, now string) error {
	ent := &me.Entity
	classes := make([]string, 0, len(me.Mappings))
	for _, m := range me.Mappings {
		classes = append(classes, m.Class.FullName())
	}

	_, err := w.driver.ExecuteQuery(ctx, SaveEntityNodeQuery, map[string]interface{}{
		"canonical_name":   ent.Key(),
		"uuid":             uuid.New().String(),
		"uri":              ent.URI,
		"entity_type":      ent.MentionType,
		"linked":           ent.Linked,
		"confidence":       ent.Confidence,
		"match_strategy":   string(ent.MatchStrategy),
		"source_catalog":   ent.SourceCatalog,
		"ontology_classes": strings.Join(classes, ","),
		"created_at":       now,
	})
	if err != nil {
		return fmt.Errorf("saving entity %s: %w", ent.Key(), err)
	}

	_, err = w.driver.ExecuteQuery(ctx, SaveMentionEdgeQuery, map[string]interface{}{
		"doc_id":         docID,
		"canonical_name": ent.Key(),
		"mention_text":   ent.MentionText,
		"created_at":     now,
	})
	if err != nil {
		return fmt.Errorf("saving mention edge for %s: %w", ent.Key(), err)
	}
	return nil
}

func (w *Writer) writeRelation(ctx context.Context, docID string, mr *model.MappedRelation, now string) error {
	rel := &mr.Relation
	ontologyRelation := ""
	if mr.Mapping != nil {
		ontologyRelation = mr.Mapping.Relation.FullName()
	}

	_, err := w.driver.ExecuteQuery(ctx, SaveRelationEdgeQuery, map[string]interface{}{
		"subject":           rel.Subject,
		"object":            rel.Object,
		"label":             rel.RelationLabel,
		"uuid":              uuid.New().String(),
		"confidence":        rel.Confidence,
		"method":            string(rel.Method),
		"evidence":          rel.EvidenceSpan,
		"ontology_relation": ontologyRelation,
		"doc_id":            docID,
		"created_at":        now,
	})
	if err != nil {
		return fmt.Errorf("saving relation %s-%s->%s: %w",
			rel.Subject, rel.RelationLabel, rel.Object, err)
	}
	return nil
}

// Stats returns node and edge counts for the stats endpoint.
func (w *Writer) Stats(ctx context.Context) (entities, relations int64, err error) {
	entities, err = w.count(ctx, CountEntitiesQuery)
	if err != nil {
		return 0, 0, err
	}
	relations, err = w.count(ctx, CountRelationsQuery)
	if err != nil {
		return 0, 0, err
	}
	return entities, relations, nil
}

func (w *Writer) count(ctx context.Context, query string) (int64, error) {
	result, err := w.driver.ExecuteQuery(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	if len(result.Records) == 0 {
		return 0, nil
	}
	if v, ok := result.Records[0].Get("count"); ok {
		if n, ok := v.(int64); ok {
			return n, nil
		}
	}
	return 0, nil
}

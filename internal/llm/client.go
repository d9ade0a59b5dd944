package llm

import (
	"context"
)

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RelationScore is one learned prediction for a sentence-level relation.
type RelationScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// RelationScorer is the learned relation-scoring collaborator.
type RelationScorer interface {
	ScoreRelation(ctx context.Context, sentence, subject, object string) ([]RelationScore, error)
}

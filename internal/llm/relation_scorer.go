package llm

import (
	"context"
	"fmt"

	"github.com/autograph-kg/autograph/internal/common"
)

// PromptRelationScorer scores subject/object relations in a sentence via
// the generative collaborator, replacing a dedicated fine-tuned model.
type PromptRelationScorer struct {
	LLM LLMClient
}

func NewPromptRelationScorer(client LLMClient) *PromptRelationScorer {
	return &PromptRelationScorer{LLM: client}
}

type relationScoreResponse struct {
	Relations []RelationScore `json:"relations"`
}

func (s *PromptRelationScorer) ScoreRelation(ctx context.Context, sentence, subject, object string) ([]RelationScore, error) {
	prompt := fmt.Sprintf(`Sentence: %s

Subject: %s
Object: %s

Which relations hold between the subject and the object in this sentence?
Return a JSON object with key "relations", a list of objects each with
"label" (lowercase verb phrase, words joined by underscores) and
"confidence" (float between 0 and 1). Return an empty list if no relation
is expressed.

Example JSON:
{
  "relations": [
    {"label": "arbeitet_fuer", "confidence": 0.85}
  ]
}`, sentence, subject, object)

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to score relation: %w", err)
	}

	result, err := common.ParseJSON[relationScoreResponse](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse relation scores: %w", err)
	}

	scores := result.Relations
	for i := range scores {
		if scores[i].Confidence < 0 {
			scores[i].Confidence = 0
		}
		if scores[i].Confidence > 1 {
			scores[i].Confidence = 1
		}
	}
	return scores, nil
}

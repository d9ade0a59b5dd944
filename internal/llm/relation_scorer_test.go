package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	response string
	err      error
	prompt   string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestScoreRelation(t *testing.T) {
	mock := &mockLLM{response: `{
		"relations": [
			{"label": "arbeitet_fuer", "confidence": 0.85},
			{"label": "kennt", "confidence": 1.7}
		]
	}`}
	s := NewPromptRelationScorer(mock)

	scores, err := s.ScoreRelation(context.Background(),
		"Alice arbeitet für die BMW AG.", "Alice", "BMW AG")
	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.Equal(t, "arbeitet_fuer", scores[0].Label)
	assert.Equal(t, 0.85, scores[0].Confidence)
	// Out-of-range confidences are clamped.
	assert.Equal(t, 1.0, scores[1].Confidence)

	assert.Contains(t, mock.prompt, "Alice")
	assert.Contains(t, mock.prompt, "BMW AG")
}

func TestScoreRelationEmpty(t *testing.T) {
	mock := &mockLLM{response: `{"relations": []}`}
	s := NewPromptRelationScorer(mock)

	scores, err := s.ScoreRelation(context.Background(), "Nichts passiert.", "A", "B")
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestScoreRelationGenerateError(t *testing.T) {
	s := NewPromptRelationScorer(&mockLLM{err: errors.New("model offline")})

	_, err := s.ScoreRelation(context.Background(), "x", "A", "B")
	assert.Error(t, err)
}

func TestScoreRelationGarbageResponse(t *testing.T) {
	s := NewPromptRelationScorer(&mockLLM{response: "I cannot answer that."})

	_, err := s.ScoreRelation(context.Background(), "x", "A", "B")
	assert.Error(t, err)
}

//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autograph-kg/autograph/internal/app"
	"github.com/autograph-kg/autograph/internal/config"
	"github.com/autograph-kg/autograph/internal/logging"
	"github.com/autograph-kg/autograph/internal/model"
)

// TestFullFlow runs a document through the assembled engine against a live
// graph store. Requires NEO4J_URI; LLM scoring is exercised only when a
// provider is configured.
func TestFullFlow(t *testing.T) {
	_ = godotenv.Load("../../.env")

	if os.Getenv("NEO4J_URI") == "" {
		t.Skip("Skipping integration test: NEO4J_URI not set")
	}

	cfg := config.Default()
	cfg.ApplyEnv()
	require.NoError(t, cfg.Validate())

	logger, err := logging.New(true)
	require.NoError(t, err)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, app.Options{WithGraph: true})
	require.NoError(t, err)
	defer a.Close(ctx)

	doc := model.DocumentInput{
		ID:     "integration-doc-1",
		Text:   "Die BMW AG hat ihren Sitz in München. Siemens AG ist ebenfalls in München ansässig.",
		Domain: "wirtschaft",
		Mentions: []model.Mention{
			{Text: "BMW AG", Type: "ORG", Start: 4, End: 10},
			{Text: "München", Type: "LOC", Start: 29, End: 36},
			{Text: "Siemens AG", Type: "ORG", Start: 38, End: 48},
		},
		RuleRelations: []model.RelationCandidate{
			{Subject: "BMW AG", SubjectType: "ORG", RelationLabel: "locatedIn",
				Object: "München", ObjectType: "LOC", Confidence: 0.9},
		},
	}

	result, err := a.Engine.ProcessDocument(ctx, doc)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Diagnostics.LinkedEntities)
	assert.NotEmpty(t, result.Relations)

	entities, relations, err := a.Writer.Stats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, entities, int64(3))
	assert.GreaterOrEqual(t, relations, int64(1))
}

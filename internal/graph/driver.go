package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Driver abstracts the Bolt-speaking graph store. Memgraph and Neo4j both
// satisfy it through the same implementation.
type Driver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}

type BoltDriver struct {
	Driver neo4j.DriverWithContext
	logger *zap.Logger
}

func NewBoltDriver(ctx context.Context, uri, username, password string, logger *zap.Logger) (*BoltDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, err
	}

	log := logger.Named("graph")
	log.Info("connected to graph store", zap.String("uri", uri))
	return &BoltDriver{Driver: driver, logger: log}, nil
}

func (d *BoltDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *BoltDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (d *BoltDriver) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :Entity(uuid);",
		"CREATE INDEX ON :Entity(canonical_name);",
		"CREATE INDEX ON :Entity(uri);",
		"CREATE INDEX ON :Document(uuid);",
		"CREATE INDEX ON :Document(doc_id);",
	}

	for _, q := range queries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			// Index may already exist.
			d.logger.Warn("index creation failed", zap.String("query", q), zap.Error(err))
		}
	}

	return nil
}

// Package app assembles the resolution engine from configuration. Both the
// HTTP server and the CLI wire through it.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/catalog"
	"github.com/autograph-kg/autograph/internal/config"
	"github.com/autograph-kg/autograph/internal/ensemble"
	"github.com/autograph-kg/autograph/internal/graph"
	"github.com/autograph-kg/autograph/internal/linker"
	"github.com/autograph-kg/autograph/internal/llm"
	"github.com/autograph-kg/autograph/internal/lookup"
	"github.com/autograph-kg/autograph/internal/match"
	"github.com/autograph-kg/autograph/internal/ontology"
	"github.com/autograph-kg/autograph/internal/pipeline"
)

// App holds the assembled components and the resources they own.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *catalog.Store
	Matcher  *match.Matcher
	Linker   *linker.Linker
	Combiner *ensemble.Combiner
	Ontology *ontology.Ontology
	Mapper   *ontology.Mapper
	Engine   *pipeline.Engine
	Writer   *graph.Writer

	driver     graph.Driver
	redisCache *lookup.RedisCache
}

// Options toggles optional collaborators.
type Options struct {
	// WithGraph connects the Bolt driver and enables persistence.
	WithGraph bool
}

// New builds the full component graph. An invalid ontology fails assembly;
// nothing is allowed to run against a broken class forest.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	llmClient, embedder, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	a.Store, err = catalog.NewStore(catalog.Options{
		Dir:            cfg.Linking.CatalogsDir,
		PriorityList:   cfg.Linking.CatalogPriority,
		IncludeBuiltin: cfg.Linking.UseBuiltinCatalogs,
	}, logger)
	if err != nil {
		return nil, err
	}

	a.Matcher = match.NewMatcher(embedder, logger)

	var external lookup.Client
	if cfg.Lookup.Endpoint != "" {
		external = lookup.NewHTTPClient(cfg.Lookup.Endpoint,
			time.Duration(cfg.Lookup.TimeoutSeconds)*time.Second)
	}

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	var cache lookup.Cache
	if cfg.Cache.Backend == "redis" {
		a.redisCache = lookup.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisDB, ttl)
		cache = a.redisCache
	} else {
		cache = lookup.NewMemoryCache(ttl)
	}

	a.Linker = linker.New(a.Store, a.Matcher, external, cache, linker.Options{
		Mode:          cfg.Linking.Mode,
		Threshold:     cfg.Linking.ConfidenceThreshold,
		MaxCandidates: cfg.Linking.MaxCandidates,
	}, logger)

	a.Ontology, err = ontology.Load(ontology.Options{
		Dir:        cfg.Ontology.Dir,
		Whitelist:  cfg.Ontology.WhitelistNamespaces,
		UseBuiltin: cfg.Ontology.UseBuiltin,
	}, logger)
	if err != nil {
		return nil, err
	}
	a.Mapper = ontology.NewMapper(a.Ontology, a.Matcher, logger)

	a.Combiner = ensemble.NewCombiner(
		cfg.Ensemble.RuleWeight, cfg.Ensemble.MLWeight,
		cfg.Ensemble.ConfidenceThreshold, a.Mapper, logger)

	pipelineOpts := pipeline.Options{Workers: cfg.Concurrency.BatchWorkers}
	if llmClient != nil {
		pipelineOpts.Scorer = llm.NewPromptRelationScorer(llmClient)
	}

	if opts.WithGraph {
		driver, err := graph.NewBoltDriver(ctx,
			cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, logger)
		if err != nil {
			return nil, err
		}
		if err := driver.BuildIndices(ctx); err != nil {
			return nil, err
		}
		a.driver = driver
		a.Writer = graph.NewWriter(driver, logger)
		pipelineOpts.Writer = a.Writer
	}

	a.Engine = pipeline.NewEngine(a.Linker, a.Combiner, a.Mapper, pipelineOpts, logger)
	return a, nil
}

func (a *App) Close(ctx context.Context) error {
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.driver != nil {
		return a.driver.Close(ctx)
	}
	return nil
}

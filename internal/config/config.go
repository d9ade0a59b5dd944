package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Mode governs whether and how external lookup sources are consulted.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeHybrid  Mode = "hybrid"
	ModeOnline  Mode = "online"
)

type LinkingConfig struct {
	Mode                Mode     `toml:"mode"`
	ConfidenceThreshold float64  `toml:"confidence_threshold"`
	CatalogsDir         string   `toml:"catalogs_dir"`
	CatalogPriority     []string `toml:"catalog_priority"`
	UseBuiltinCatalogs  bool     `toml:"use_builtin_catalogs"`
	MaxCandidates       int      `toml:"max_candidates"`
}

type EnsembleConfig struct {
	RuleWeight          float64 `toml:"rule_weight"`
	MLWeight            float64 `toml:"ml_weight"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

type OntologyConfig struct {
	Dir                 string   `toml:"dir"`
	WhitelistNamespaces []string `toml:"whitelist_namespaces"`
	UseBuiltin          bool     `toml:"use_builtin"`
}

type CacheConfig struct {
	Backend    string `toml:"backend"` // memory | redis
	TTLSeconds int    `toml:"ttl_seconds"`
	RedisAddr  string `toml:"redis_addr"`
	RedisDB    int    `toml:"redis_db"`
}

type LookupConfig struct {
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ConcurrencyConfig struct {
	BatchWorkers int `toml:"batch_workers"`
}

type Config struct {
	Debug       bool              `toml:"debug"`
	Linking     LinkingConfig     `toml:"linking"`
	Ensemble    EnsembleConfig    `toml:"ensemble"`
	Ontology    OntologyConfig    `toml:"ontology"`
	Cache       CacheConfig       `toml:"cache"`
	Lookup      LookupConfig      `toml:"lookup"`
	LLM         LLMConfig         `toml:"llm"`
	Neo4j       Neo4jConfig       `toml:"neo4j"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Linking: LinkingConfig{
			Mode:                ModeOffline,
			ConfidenceThreshold: 0.5,
			CatalogsDir:         "./entity_catalogs",
			UseBuiltinCatalogs:  true,
			MaxCandidates:       10,
		},
		Ensemble: EnsembleConfig{
			RuleWeight:          0.3,
			MLWeight:            0.7,
			ConfidenceThreshold: 0.5,
		},
		Ontology: OntologyConfig{
			Dir:                 "./ontologies",
			WhitelistNamespaces: []string{"schema", "dbpedia"},
			UseBuiltin:          true,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTLSeconds: 86400,
		},
		Lookup: LookupConfig{
			TimeoutSeconds: 5,
		},
		Neo4j: Neo4jConfig{
			URI: "bolt://localhost:7687",
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables where set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("AUTOGRAPH_MODE"); v != "" {
		c.Linking.Mode = Mode(v)
	}
	if v := os.Getenv("AUTOGRAPH_CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Linking.ConfidenceThreshold = f
		}
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		c.Neo4j.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Neo4j.Password = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		c.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Backend = "redis"
		c.Cache.RedisAddr = v
	}
}

// Validate rejects unrecognized or out-of-range values at load time.
func (c *Config) Validate() error {
	switch c.Linking.Mode {
	case ModeOffline, ModeHybrid, ModeOnline:
	default:
		return fmt.Errorf("invalid linking mode: %q (want offline, hybrid or online)", c.Linking.Mode)
	}
	if c.Linking.ConfidenceThreshold < 0 || c.Linking.ConfidenceThreshold > 1 {
		return fmt.Errorf("linking confidence_threshold out of range [0,1]: %f", c.Linking.ConfidenceThreshold)
	}
	if c.Ensemble.RuleWeight < 0 || c.Ensemble.RuleWeight > 1 {
		return fmt.Errorf("rule_weight out of range [0,1]: %f", c.Ensemble.RuleWeight)
	}
	if c.Ensemble.MLWeight < 0 || c.Ensemble.MLWeight > 1 {
		return fmt.Errorf("ml_weight out of range [0,1]: %f", c.Ensemble.MLWeight)
	}
	if c.Ensemble.ConfidenceThreshold < 0 || c.Ensemble.ConfidenceThreshold > 1 {
		return fmt.Errorf("ensemble confidence_threshold out of range [0,1]: %f", c.Ensemble.ConfidenceThreshold)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache ttl_seconds must be positive, got %d", c.Cache.TTLSeconds)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid cache backend: %q (want memory or redis)", c.Cache.Backend)
	}
	if c.Concurrency.BatchWorkers <= 0 {
		return fmt.Errorf("batch_workers must be positive, got %d", c.Concurrency.BatchWorkers)
	}
	return nil
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/autograph-kg/autograph/internal/app"
	"github.com/autograph-kg/autograph/internal/config"
	"github.com/autograph-kg/autograph/internal/logging"
	"github.com/autograph-kg/autograph/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	withGraph := os.Getenv("GRAPH_DISABLED") == ""
	a, err := app.New(ctx, cfg, logger, app.Options{WithGraph: withGraph})
	if err != nil {
		log.Fatalf("Failed to assemble engine: %v", err)
	}
	defer a.Close(ctx)

	srv := &server.Server{
		Engine:   a.Engine,
		Linker:   a.Linker,
		Combiner: a.Combiner,
		Mapper:   a.Mapper,
		Ontology: a.Ontology,
		Store:    a.Store,
		Writer:   a.Writer,
		Logger:   logger,
	}
	r := srv.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

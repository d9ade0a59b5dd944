package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autograph-kg/autograph/internal/app"
	"github.com/autograph-kg/autograph/internal/config"
	"github.com/autograph-kg/autograph/internal/logging"
	"github.com/autograph-kg/autograph/internal/model"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err == nil {
		return cfg, nil
	}
	cfg = config.Default()
	cfg.ApplyEnv()
	if verr := cfg.Validate(); verr != nil {
		return nil, verr
	}
	return cfg, nil
}

func newProcessCmd() *cobra.Command {
	var (
		write  bool
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "process <documents.json>",
		Short: "Process a batch of documents",
		Long:  "Reads a JSON array of documents with mentions and rule relations, runs the full resolution chain and prints the batch result.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading documents: %w", err)
			}
			var docs []model.DocumentInput
			if err := json.Unmarshal(data, &docs); err != nil {
				return fmt.Errorf("parsing documents: %w", err)
			}

			ctx := context.Background()
			a, err := app.New(ctx, cfg, logger, app.Options{WithGraph: write})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			result := a.Engine.ProcessBatch(ctx, docs)
			return printJSON(result, pretty)
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "persist results to the graph store")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent JSON output")
	return cmd
}

func newLinkCmd() *cobra.Command {
	var (
		entityType string
		domain     string
		textCtx    string
	)

	cmd := &cobra.Command{
		Use:   "link <mention>",
		Short: "Link a single mention against the catalogs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := context.Background()
			a, err := app.New(ctx, cfg, logger, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			entity := a.Linker.Link(ctx,
				model.Mention{Text: args[0], Type: entityType}, domain, textCtx)
			return printJSON(entity, true)
		},
	}

	cmd.Flags().StringVarP(&entityType, "type", "t", "", "entity type label (PERSON, ORG, LOC, ...)")
	cmd.Flags().StringVarP(&domain, "domain", "d", "", "domain to scope catalogs")
	cmd.Flags().StringVar(&textCtx, "context", "", "surrounding text for semantic matching")
	return cmd
}

func printJSON(v interface{}, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autograph-kg/autograph/internal/catalog"
	"github.com/autograph-kg/autograph/internal/logging"
	"github.com/autograph-kg/autograph/internal/ontology"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load catalogs and ontology and report structural problems",
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

			store, err := catalog.NewStore(catalog.Options{
				Dir:            cfg.Linking.CatalogsDir,
				PriorityList:   cfg.Linking.CatalogPriority,
				IncludeBuiltin: cfg.Linking.UseBuiltinCatalogs,
			}, logger)
			if err != nil {
				return fmt.Errorf("catalogs: %w", err)
			}
			for _, info := range store.Catalogs() {
				fmt.Printf("catalog %-24s priority=%-5d records=%d\n",
					info.Name, info.Priority, info.Records)
			}

			ont, err := ontology.Load(ontology.Options{
				Dir:        cfg.Ontology.Dir,
				Whitelist:  cfg.Ontology.WhitelistNamespaces,
				UseBuiltin: cfg.Ontology.UseBuiltin,
			}, logger)
			if err != nil {
				if errors.Is(err, ontology.ErrInvalidOntology) {
					_, issues := ontology.Validate(ont)
					for _, issue := range issues {
						fmt.Printf("ontology issue: %s\n", issue)
					}
				}
				return fmt.Errorf("ontology: %w", err)
			}
			fmt.Printf("ontology ok: %d classes, %d relations\n",
				len(ont.Classes), len(ont.Relations))
			return nil
		},
	}
}

func newExampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write starter catalog and ontology files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "catalog <domain> <path>",
		Short: "Write a starter entity catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := catalog.WriteExample(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ontology <namespace> <path>",
		Short: "Write a starter domain ontology",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ontology.WriteExample(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[1])
			return nil
		},
	})

	return cmd
}

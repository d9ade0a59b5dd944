package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	godotenv.Load()

	root := &cobra.Command{
		Use:   "autograph",
		Short: "Knowledge resolution engine CLI",
		Long:  "Links entity mentions against catalogs, combines relation extractors and maps results onto an ontology.",
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.toml", "path to config file")

	root.AddCommand(newProcessCmd())
	root.AddCommand(newLinkCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newExampleCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"github.com/ceotarot/ceotarot/cmd/cli/catalog"
	"github.com/ceotarot/ceotarot/cmd/cli/img"
	"github.com/ceotarot/ceotarot/cmd/cli/leads"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"os"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(catalog.Group)
	rootCmd.AddCommand(catalog.Validate, catalog.List)
	rootCmd.AddGroup(leads.Group)
	rootCmd.AddCommand(leads.List)
	rootCmd.AddGroup(img.Group)
	rootCmd.AddCommand(img.Generate)
}

var rootCmd = &cobra.Command{
	Use:          "ceotarot-cli",
	Long:         `Command line utilities for CEO Business Tarot https://www.ceotarot.space`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// Package catalog has the commands for inspecting scenario catalogs before they are deployed.
package catalog

import (
	"fmt"
	"github.com/ceotarot/ceotarot/internal/catalog"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"strings"
)

var Group = &cobra.Group{
	ID:    "catalog",
	Title: "Catalog operations",
}

// ErrInvalid is returned when validation finds errors so that the process exits non-zero.
var ErrInvalid = errors.NewSentinel("catalog is invalid")

var Validate = &cobra.Command{
	Use:     "validate [path]",
	GroupID: "catalog",
	Short:   "Validate a scenario catalog",
	Long:    `Checks a TOML scenario catalog for errors and warnings. Without a path the embedded catalog is loaded.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			c, err := catalog.Default()
			if err != nil {
				return errors.Wrap(err, "load embedded catalog")
			}
			_, _ = fmt.Fprintln(out, color.GreenString("✓")+" embedded catalog "+c.Version()+" is valid")
			return nil
		}

		path := args[0]
		results, err := catalog.ValidateFile(path)
		if err != nil {
			return errors.Wrap(err, "validate catalog")
		}
		for _, w := range results.Warnings {
			_, _ = fmt.Fprintln(out, color.YellowString("warning: ")+w)
		}
		for _, e := range results.Errors {
			_, _ = fmt.Fprintln(out, color.RedString("error: ")+e)
		}
		if !results.Valid() {
			return errors.Wrap(ErrInvalid, path)
		}
		_, _ = fmt.Fprintln(out, color.GreenString("✓")+" "+path+" is valid")
		return nil
	},
}

func init() {
	List.Flags().String("path", "", "catalog file, defaults to the embedded catalog")
}

var List = &cobra.Command{
	Use:     "ls",
	GroupID: "catalog",
	Short:   "List scenarios",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("path")
		if err != nil {
			return errors.Wrap(err, "invalid path flag")
		}
		c, err := catalog.Load(path)
		if err != nil {
			return errors.Wrap(err, "load catalog")
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "catalog %s, %d scenarios\n", c.Version(), c.Len())
		for _, s := range c.All() {
			_, _ = fmt.Fprintln(out, color.CyanString("%-12s", s.ID)+" "+
				color.HiWhiteString(s.Tarot.Name)+"  "+s.Category)
			_, _ = fmt.Fprintln(out, "             "+strings.TrimSpace(s.Question))
		}
		return nil
	},
}

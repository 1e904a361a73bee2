package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/FlorianBx/wam/internal/catalog"
)

func (c *cli) newCatalogCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List addons available for install",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd)
			if err != nil {
				return err
			}

			entries, err := s.app.Catalog(cmd.Context(), search)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				if search != "" {
					fmt.Fprintf(out, "No addons match %q.\n", search)
				} else {
					fmt.Fprintln(out, "The catalog is empty.")
				}
				return nil
			}

			for _, e := range entries {
				fmt.Fprintln(out, formatEntry(e))
				if e.Description != "" {
					fmt.Fprintf(out, "      %s\n", e.Description)
				}
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Legend: ✓ installed, ↑ update available, · not installed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name or description")
	return cmd
}

// statusSymbol returns the one-character marker for s.
func statusSymbol(s catalog.Status) string {
	switch s {
	case catalog.StatusInstalled:
		return color.GreenString("✓")
	case catalog.StatusUpdateAvailable:
		return color.YellowString("↑")
	default:
		return "·"
	}
}

// formatEntry renders one catalog line: marker, name, id and versions.
func formatEntry(e catalog.Entry) string {
	line := fmt.Sprintf("  %s %s (%s) %s", statusSymbol(e.Status), color.New(color.Bold).Sprint(e.Name), e.ID, e.Version)
	if e.Status == catalog.StatusUpdateAvailable {
		line += color.YellowString(" [installed %s]", e.InstalledVersion)
	}
	return line
}

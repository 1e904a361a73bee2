package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/FlorianBx/wam/internal/addon"
)

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed addons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd)
			if err != nil {
				return err
			}

			installed := s.app.ListInstalled()
			out := cmd.OutOrStdout()
			if len(installed) == 0 {
				fmt.Fprintln(out, "No addons are installed.")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "To install one:")
				fmt.Fprintln(out, "  wam catalog")
				fmt.Fprintln(out, "  wam install <id>")
				return nil
			}

			for _, rec := range installed {
				fmt.Fprintln(out, formatInstalled(rec))
			}
			return nil
		},
	}
}

// formatInstalled renders a ledger record. Unparseable timestamps are shown as stored.
func formatInstalled(rec addon.InstalledAddon) string {
	when := rec.InstalledAt
	if t, err := time.Parse(time.RFC3339, rec.InstalledAt); err == nil {
		when = t.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("  %s %s (installed %s)", rec.ID, rec.Version, when)
}

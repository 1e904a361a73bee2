package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (c *cli) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "install <id>...",
		Short:   "Install or update addons from the catalog",
		Example: "  wam install RushHour craftpad",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exclusive(cmd, func(s *session) error {
				return forEachID(cmd, args, "installed", func(id string) error {
					return s.app.InstallByID(cmd.Context(), id)
				})
			})
		},
	}
}

func (c *cli) newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove installed addons",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exclusive(cmd, func(s *session) error {
				return forEachID(cmd, args, "removed", func(id string) error {
					return s.app.Uninstall(cmd.Context(), id)
				})
			})
		},
	}
}

// forEachID runs op for every id, reporting each outcome. It keeps going
// after a failure and returns an error naming how many ids failed.
func forEachID(cmd *cobra.Command, ids []string, verb string, op func(id string) error) error {
	failed := 0
	for _, id := range ids {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		if err := op(id); err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", color.RedString("✗"), id, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", color.GreenString("✓"), id, verb)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d addons failed", failed, len(ids))
	}
	return nil
}

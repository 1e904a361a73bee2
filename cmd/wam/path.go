package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/FlorianBx/wam/internal/errs"
)

func (c *cli) newPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show the AddOns folder addons are installed into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd)
			if err != nil {
				return err
			}

			root, err := s.app.GetInstallPath()
			if err != nil {
				if errors.Is(err, errs.ErrPathNotFound) {
					color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), "Set it with: wam path set <dir>")
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <dir>",
		Short: "Use dir as the AddOns folder",
		Example: `  wam path set "/Applications/World of Warcraft/_retail_/Interface/AddOns"
  wam path set "D:\Games\World of Warcraft\_retail_\Interface\AddOns"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			return c.exclusive(cmd, func(s *session) error {
				if err := s.app.SetInstallPath(dir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s AddOns folder set to %s\n", color.GreenString("✓"), dir)
				return nil
			})
		},
	})

	return cmd
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/FlorianBx/wam/internal/lock"
)

// cli holds state shared by every command.
type cli struct {
	verbose bool
	newApp  appFactory
	session *session
}

func newRootCmd(newApp appFactory) *cobra.Command {
	c := &cli{newApp: newApp}

	root := &cobra.Command{
		Use:   "wam",
		Short: "Install and manage World of Warcraft addons",
		Long: `wam installs World of Warcraft addons from their GitHub repositories
into the game's AddOns folder and keeps track of what is installed.

The AddOns folder is found automatically in the usual install locations.
Use 'wam path set <dir>' when the game lives somewhere else.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.session != nil && c.session.release != nil {
				c.session.release()
			}
		},
	}
	root.SetVersionTemplate("wam {{.Version}}\n")
	root.PersistentFlags().BoolVar(&c.verbose, "verbose", false, "Enable debug logging")

	root.AddCommand(
		c.newPathCmd(),
		c.newCatalogCmd(),
		c.newListCmd(),
		c.newInstallCmd(),
		c.newUninstallCmd(),
	)

	return root
}

// load builds the session on first use.
func (c *cli) load(cmd *cobra.Command) (*session, error) {
	if c.session != nil {
		return c.session, nil
	}
	s, err := c.newApp(cmd.Context(), c.verbose)
	if err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}

// exclusive runs fn while holding the data directory lock, so only one
// wam process changes state at a time.
func (c *cli) exclusive(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := c.load(cmd)
	if err != nil {
		return err
	}

	l, err := lock.Acquire(cmd.Context(), s.dataDir)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return errors.New("another wam command is changing addons; try again when it finishes")
		}
		return err
	}
	defer l.Release()

	return fn(s)
}

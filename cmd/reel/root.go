package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tmdb"
	"github.com/mmcdole/reel/internal/tui"
)

// newRootCmd creates the root command. Without a subcommand it starts the
// terminal UI.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "reel",
		Short:         "Search movies and keep a list of favorites",
		Long:          `Reel searches The Movie Database from your terminal and remembers the movies you favorite.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cmd.Help()
			}
			return runTUI(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config file (default ~/.config/reel/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log to stderr at debug level")
	rootCmd.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "Keep favorites and theme in memory only")

	rootCmd.AddCommand(newSearchCmd(flags))
	rootCmd.AddCommand(newShowCmd(flags))
	rootCmd.AddCommand(newGenresCmd(flags))
	rootCmd.AddCommand(newFavCmd(flags))
	rootCmd.AddCommand(newThemeCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newResetCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// runTUI starts the interactive interface, running setup first when no
// API key is configured
func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	a, err := openApp(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting reel", "version", Version)

	if !a.cfg.IsConfigured() {
		return runSetupFlow(cmd, flags, a.cfg)
	}

	model := tui.NewModel(tui.Options{
		Search:    service.NewSearchFlow(a.catalog, a.logger),
		Detail:    service.NewDetailFlow(a.catalog, a.favorites, a.logger),
		Favorites: a.favorites,
		Theme:     a.theme,
		ImageURL:  a.catalog.ImageURL,
		PageURL:   tmdb.MoviePageURL,
		OpenURL:   a.browser.Launch,
		Timeout:   a.cfg.Catalog.Timeout + a.cfg.Catalog.Timeout/2,
		Logger:    a.logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}

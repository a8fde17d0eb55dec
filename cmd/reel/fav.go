package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
)

func newFavCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favorites"},
		Short:   "Manage favorite movies",
	}

	cmd.AddCommand(newFavListCmd(flags))
	cmd.AddCommand(newFavAddCmd(flags))
	cmd.AddCommand(newFavRmCmd(flags))
	return cmd
}

func newFavListCmd(flags *globalFlags) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List favorites in the order they were saved",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			favs, err := a.favorites.Favorites()
			if err != nil {
				return err
			}
			favs = service.FilterFavorites(favs, filter)

			out := cmd.OutOrStdout()
			if len(favs) == 0 {
				fmt.Fprintln(out, "No favorites.")
				return nil
			}

			rows := make([][]string, len(favs))
			for i, f := range favs {
				rows[i] = movieRow(f.GetID(), f.GetTitle(), f.GetYear(), f.GetRating(), true)
			}
			fmt.Fprintln(out, movieTable(rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter on title")
	return cmd
}

func newFavAddCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>",
		Short: "Save a movie to favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireCatalog(); err != nil {
				return err
			}

			flow := service.NewDetailFlow(a.catalog, a.favorites, a.logger)
			movie, err := flow.Fetch(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load movie %d: %w", id, err)
			}

			added, err := a.favorites.Add(domain.FavoriteFromDetail(*movie))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !added {
				fmt.Fprintf(out, "%s is already a favorite\n", movie.Title)
				return nil
			}
			fmt.Fprintf(out, "Added %s to favorites\n", movie.Title)
			return nil
		},
	}
}

func newFavRmCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a movie from favorites",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.favorites.Remove(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !removed {
				fmt.Fprintf(out, "%d is not a favorite\n", id)
				return nil
			}
			fmt.Fprintf(out, "Removed %d from favorites\n", id)
			return nil
		},
	}
}

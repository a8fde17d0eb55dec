package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tmdb"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/mmcdole/reel/internal/tui/styles"
)

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies by title",
		Long: `Search movies by title. Prints one page of results in catalog order;
--limit walks pages until that many results are collected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			if page < 1 {
				return fmt.Errorf("invalid page %d: pages start at 1", page)
			}
			if strings.TrimSpace(query) == "" {
				fmt.Fprintln(out, tui.EmptyResultsText)
				return nil
			}

			a, err := openApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireCatalog(); err != nil {
				return err
			}

			ctx := cmd.Context()

			switch {
			case limit > 0:
				movies, err := service.SearchAll(ctx, a.catalog, query, limit)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				printMovies(out, movies, a.favorites.IsFavorite)

			case page == 1:
				movies, err := service.NewSearchFlow(a.catalog, a.logger).Search(ctx, query)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				printMovies(out, movies, a.favorites.IsFavorite)

			default:
				result, err := a.catalog.SearchMoviesPage(ctx, query, page)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				printMovies(out, result.Results, a.favorites.IsFavorite)
				fmt.Fprintf(out, "page %d of %d (%d results)\n", result.Page, result.TotalPages, result.TotalResults)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Result page to show")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Collect up to n results across pages")
	return cmd
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full record of a movie",
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

			movie, err := a.catalog.GetMovieDetails(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load movie %d: %w", id, err)
			}

			isFav, err := a.favorites.IsFavorite(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderDetail(*movie, isFav, a.catalog.ImageURL, 80))

			if open {
				return a.browser.Launch(tmdb.MoviePageURL(id))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the movie page in a browser")
	return cmd
}

func newGenresCmd(flags *globalFlags) *cobra.Command {
	var tv bool

	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List movie (or TV) genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireCatalog(); err != nil {
				return err
			}

			fetch := a.catalog.GetMoviesGenres
			if tv {
				fetch = a.catalog.GetTVShowsGenres
			}
			genres, err := fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load genres: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, g := range genres {
				fmt.Fprintf(out, "%6d  %s\n", g.ID, g.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tv, "tv", false, "List TV show genres")
	return cmd
}

// printMovies writes results as a table, marking favorites
func printMovies(out io.Writer, movies []domain.MovieSummary, isFavorite func(int) (bool, error)) {
	if len(movies) == 0 {
		fmt.Fprintln(out, tui.EmptyResultsText)
		return
	}

	rows := make([][]string, len(movies))
	for i, m := range movies {
		fav, _ := isFavorite(m.ID)
		rows[i] = movieRow(m.ID, m.Title, domain.Year(m.ReleaseDate), m.Rating, fav)
	}
	fmt.Fprintln(out, movieTable(rows))
}

func movieRow(id int, title string, year int, rating float64, fav bool) []string {
	heart := ""
	if fav {
		heart = styles.HeartFull
	}
	yearText := ""
	if year > 0 {
		yearText = strconv.Itoa(year)
	}
	return []string{
		strconv.Itoa(id),
		heart,
		title,
		yearText,
		fmt.Sprintf("%d%%", domain.ScorePercent(rating)),
	}
}

func movieTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers("ID", "", "TITLE", "YEAR", "SCORE").
		Rows(rows...).
		String()
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", s)
	}
	return id, nil
}

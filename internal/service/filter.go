package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/reel/internal/domain"
)

// FilterFavorites returns the favorites whose title fuzzily matches query,
// best match first. An empty query returns favs unchanged.
func FilterFavorites(favs []domain.Favorite, query string) []domain.Favorite {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return favs
	}

	type rankedItem struct {
		fav   domain.Favorite
		score int
		pos   int
	}

	ranked := make([]rankedItem, 0, len(favs))
	for i, f := range favs {
		title := strings.ToLower(f.GetTitle())
		if !fuzzy.MatchFold(query, title) {
			continue
		}
		ranked = append(ranked, rankedItem{fav: f, score: matchScore(title, query), pos: i})
	}

	// Sort by score (lower is better), keeping saved order on ties
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	results := make([]domain.Favorite, len(ranked))
	for i, r := range ranked {
		results[i] = r.fav
	}
	return results
}

// matchScore ranks a title against query; lower is better
func matchScore(title, query string) int {
	// Exact match is best
	if title == query {
		return 0
	}

	// Prefix match is very good
	if strings.HasPrefix(title, query) {
		return 10
	}

	// Contains match is good
	if strings.Contains(title, query) {
		return 50
	}

	return 100 + fuzzy.LevenshteinDistance(query, title)
}

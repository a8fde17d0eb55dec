package tui

import (
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SearchResultsMsg carries a finished search, possibly stale
type SearchResultsMsg struct {
	Outcome service.SearchOutcome
}

// DetailLoadedMsg carries a finished detail load, possibly stale
type DetailLoadedMsg struct {
	Outcome service.DetailOutcome
}

// FavoritesChangedMsg carries the favorites after any mutation
type FavoritesChangedMsg struct {
	Favorites []domain.Favorite
}

// StatusMsg shows a transient message in the status bar
type StatusMsg struct {
	Text string
}

// ClearStatusMsg clears the status bar if it still shows the message
// with the given id
type ClearStatusMsg struct {
	ID int
}

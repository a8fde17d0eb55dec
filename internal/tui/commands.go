package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
)

// Command factories for async operations

// SearchCmd runs one submitted search
func SearchCmd(flow *service.SearchFlow, req service.SearchRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return SearchResultsMsg{Outcome: flow.Run(ctx, req)}
	}
}

// LoadDetailCmd loads the movie a navigation opened
func LoadDetailCmd(flow *service.DetailFlow, req service.DetailRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return DetailLoadedMsg{Outcome: flow.Load(ctx, req)}
	}
}

// ListenFavoritesCmd waits for the next favorites change from the observer
// channel. It is re-issued after every FavoritesChangedMsg.
func ListenFavoritesCmd(ch <-chan []domain.Favorite) tea.Cmd {
	return func() tea.Msg {
		favs, ok := <-ch
		if !ok {
			return nil
		}
		return FavoritesChangedMsg{Favorites: favs}
	}
}

// OpenURLCmd hands url to the browser launcher
func OpenURLCmd(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		if err := open(url); err != nil {
			return ErrMsg{Err: err, Context: "open"}
		}
		return StatusMsg{Text: "Opened " + url}
	}
}

// ClearStatusCmd clears status message id after d
func ClearStatusCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

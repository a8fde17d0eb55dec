package tui

import "github.com/mmcdole/reel/internal/domain"

// ChannelObserver adapts favorites.Listener to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan []domain.Favorite
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(size int) *ChannelObserver {
	return &ChannelObserver{ch: make(chan []domain.Favorite, size)}
}

// OnChange sends the snapshot to the channel. When the buffer is full the
// oldest pending snapshot is dropped; only the latest one matters.
func (o *ChannelObserver) OnChange(favs []domain.Favorite) {
	for {
		select {
		case o.ch <- favs:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}

// C returns the receive side of the channel.
func (o *ChannelObserver) C() <-chan []domain.Favorite {
	return o.ch
}

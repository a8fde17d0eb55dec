package domain

// Persistent keys
const (
	KeyFavorites = "favorites"
	KeyTheme     = "theme"
)

// KVStore is a small persistent string key-value store
type KVStore interface {
	// Get returns the value for key; ok is false when the key is absent
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Delete removes key (no error if absent)
	Delete(key string) error

	Close() error
}

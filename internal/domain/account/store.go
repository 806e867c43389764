package account

// Store keys for the persisted selection. One row per key; every
// resolve rewrites all of them.
const (
	KeyAvailableIDs  = "account.available_ids"
	KeySelectedIndex = "account.selected_index"
	KeyActiveID      = "account.active_id"
	KeyUsername      = "auth.username"
	KeySource        = "account.source"
)

// Store persists the account selection between console sessions.
// Get returns an empty string for keys that were never set.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Package account defines the console's account selection domain: the
// identity claims we accept from the external IdP, the resolution of
// those claims into a selectable account list, and the store interface
// the selection is persisted through.
package account

import "errors"

// ErrInvalidAccountIndex is returned when a switch targets an index
// outside the resolved account list. Persisted state is left untouched.
var ErrInvalidAccountIndex = errors.New("account index out of range")

// ErrNoResolution is returned when an operation needs a resolved
// account scope and no identity has been presented yet.
var ErrNoResolution = errors.New("no identity has been resolved")

// Source identifies which claim the account list was derived from.
type Source string

const (
	SourceAccountList Source = "account_list"
	SourceAccountID   Source = "account_id"
	SourceSubject     Source = "subject"
)

// IdentityClaims is the flat view of a decoded identity token. Raw
// claim values are kept as strings; list-shaped claims are parsed by
// ParseAccountList.
type IdentityClaims struct {
	Subject     string
	Username    string
	AccountList string
	AccountID   string
}

// Resolution is the outcome of resolving identity claims against the
// persisted selection.
type Resolution struct {
	AvailableIDs []string `json:"availableIds"`
	ActiveIndex  int      `json:"activeIndex"`
	ActiveID     string   `json:"activeId"`
	Username     string   `json:"username"`
	Source       Source   `json:"source"`
}

// Degraded reports whether the resolution fell back to the token
// subject because no account claim was present.
func (r Resolution) Degraded() bool {
	return r.Source == SourceSubject
}

package account

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ClaimsFromMap plucks the configured claim names out of a decoded
// claim map. Claim values that arrive as real JSON arrays are
// re-encoded so ParseAccountList sees the same shape either way.
func ClaimsFromMap(claims map[string]any, listClaim, idClaim, usernameClaim string) IdentityClaims {
	return IdentityClaims{
		Subject:     claimString(claims["sub"]),
		Username:    claimString(claims[usernameClaim]),
		AccountList: claimString(claims[listClaim]),
		AccountID:   claimString(claims[idClaim]),
	}
}

func claimString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	default:
		return ""
	}
}

// ParseAccountList splits a raw multi-account claim value into ids.
// A value that looks like a JSON array is decoded as one; on decode
// failure it is treated as comma-delimited, with segments trimmed and
// empties dropped. A bare string yields a single-element list. Order
// is preserved throughout.
func ParseAccountList(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(trimmed), &ids); err == nil {
			clean := make([]string, 0, len(ids))
			for _, id := range ids {
				if id = strings.TrimSpace(id); id != "" {
					clean = append(clean, id)
				}
			}
			return clean
		}
	}

	parts := strings.Split(trimmed, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// AvailableAccounts applies the claim priority chain: the multi-account
// claim wins, then the single-account claim, then the token subject as
// a degraded last resort.
func AvailableAccounts(claims IdentityClaims) ([]string, Source) {
	if ids := ParseAccountList(claims.AccountList); len(ids) > 0 {
		return ids, SourceAccountList
	}
	if id := strings.TrimSpace(claims.AccountID); id != "" {
		return []string{id}, SourceAccountID
	}
	if sub := strings.TrimSpace(claims.Subject); sub != "" {
		return []string{sub}, SourceSubject
	}
	return nil, SourceSubject
}

// ClampIndex resolves a persisted selection index against a list of n
// accounts. Missing, non-numeric, and out-of-range values all resolve
// to 0 so a stale selection can never address the wrong account.
func ClampIndex(raw string, n int) int {
	if n <= 0 {
		return 0
	}
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 0 || idx >= n {
		return 0
	}
	return idx
}

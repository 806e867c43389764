package account

import (
	"reflect"
	"strconv"
	"testing"
)

func TestParseAccountListEncodings(t *testing.T) {
	want := []string{"acct-alpha", "acct-beta", "acct-gamma"}

	cases := []struct {
		name string
		raw  string
	}{
		{"json array", `["acct-alpha","acct-beta","acct-gamma"]`},
		{"json array with whitespace", ` ["acct-alpha", "acct-beta", "acct-gamma"] `},
		{"comma delimited", "acct-alpha,acct-beta,acct-gamma"},
		{"comma delimited with whitespace", " acct-alpha , acct-beta ,acct-gamma "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAccountList(tc.raw)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestParseAccountListBareString(t *testing.T) {
	got := ParseAccountList("acct-solo")
	if len(got) != 1 || got[0] != "acct-solo" {
		t.Errorf("expected single element list, got %v", got)
	}
}

func TestParseAccountListPreservesOrder(t *testing.T) {
	got := ParseAccountList(`["zz","aa","mm"]`)
	want := []string{"zz", "aa", "mm"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected claim order preserved %v, got %v", want, got)
	}
}

func TestParseAccountListDropsEmptySegments(t *testing.T) {
	got := ParseAccountList("acct-1,, acct-2 ,")
	want := []string{"acct-1", "acct-2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected empty segments dropped, got %v", got)
	}
}

func TestParseAccountListMalformedJSONFallsBack(t *testing.T) {
	// A value that starts with "[" but is not valid JSON falls through
	// to comma splitting, brackets and all.
	got := ParseAccountList("[acct-1,acct-2")
	want := []string{"[acct-1", "acct-2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected comma fallback %v, got %v", want, got)
	}
}

func TestParseAccountListEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "[]", ",,,"} {
		if got := ParseAccountList(raw); len(got) != 0 {
			t.Errorf("expected empty list for %q, got %v", raw, got)
		}
	}
}

func TestAvailableAccountsPriority(t *testing.T) {
	cases := []struct {
		name       string
		claims     IdentityClaims
		want       []string
		wantSource Source
	}{
		{
			name: "list claim wins over everything",
			claims: IdentityClaims{
				Subject:     "sub-1",
				AccountList: `["a","b"]`,
				AccountID:   "single",
			},
			want:       []string{"a", "b"},
			wantSource: SourceAccountList,
		},
		{
			name: "single claim wins over subject",
			claims: IdentityClaims{
				Subject:   "sub-1",
				AccountID: "single",
			},
			want:       []string{"single"},
			wantSource: SourceAccountID,
		},
		{
			name:       "subject is the last resort",
			claims:     IdentityClaims{Subject: "sub-1"},
			want:       []string{"sub-1"},
			wantSource: SourceSubject,
		},
		{
			name:       "nothing resolves to nothing",
			claims:     IdentityClaims{},
			want:       nil,
			wantSource: SourceSubject,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, source := AvailableAccounts(tc.claims)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected accounts %v, got %v", tc.want, got)
			}
			if source != tc.wantSource {
				t.Errorf("expected source %s, got %s", tc.wantSource, source)
			}
		})
	}
}

func TestAvailableAccountsDegraded(t *testing.T) {
	ids, source := AvailableAccounts(IdentityClaims{Subject: "sub-9"})
	res := Resolution{AvailableIDs: ids, Source: source}
	if !res.Degraded() {
		t.Error("expected subject fallback to report degraded")
	}

	ids, source = AvailableAccounts(IdentityClaims{AccountID: "acct-1"})
	res = Resolution{AvailableIDs: ids, Source: source}
	if res.Degraded() {
		t.Error("expected account claim resolution to not report degraded")
	}
}

func TestClampIndex(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		n    int
		want int
	}{
		{"missing", "", 3, 0},
		{"non-numeric", "two", 3, 0},
		{"negative", "-1", 3, 0},
		{"past the end", "3", 3, 0},
		{"far past the end", "99", 3, 0},
		{"in range", "2", 3, 2},
		{"zero", "0", 3, 0},
		{"whitespace padded", " 1 ", 3, 1},
		{"empty list", "1", 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampIndex(tc.raw, tc.n); got != tc.want {
				t.Errorf("ClampIndex(%q, %d): expected %d, got %d", tc.raw, tc.n, tc.want, got)
			}
		})
	}
}

func TestClampIndexIdempotent(t *testing.T) {
	for _, raw := range []string{"", "junk", "-5", "0", "1", "7"} {
		first := ClampIndex(raw, 4)
		second := ClampIndex(strconv.Itoa(first), 4)
		if first != second {
			t.Errorf("clamp of %q not idempotent: %d then %d", raw, first, second)
		}
	}
}

func TestClaimsFromMap(t *testing.T) {
	claims := map[string]any{
		"sub":                "sub-abc",
		"preferred_username": "maya",
		"custom:account_ids": `["a","b"]`,
		"custom:account_id":  "a",
		"unrelated_claim":    42,
	}

	got := ClaimsFromMap(claims, "custom:account_ids", "custom:account_id", "preferred_username")
	if got.Subject != "sub-abc" {
		t.Errorf("expected subject sub-abc, got %q", got.Subject)
	}
	if got.Username != "maya" {
		t.Errorf("expected username maya, got %q", got.Username)
	}
	if got.AccountList != `["a","b"]` {
		t.Errorf("expected raw list claim preserved, got %q", got.AccountList)
	}
	if got.AccountID != "a" {
		t.Errorf("expected account id a, got %q", got.AccountID)
	}
}

func TestClaimsFromMapArrayValue(t *testing.T) {
	// Some IdPs emit the list claim as a real JSON array rather than a
	// string. It must parse to the same ids either way.
	claims := map[string]any{
		"sub":      "sub-abc",
		"accounts": []any{"a", "b"},
	}

	got := ClaimsFromMap(claims, "accounts", "", "")
	ids := ParseAccountList(got.AccountList)
	want := []string{"a", "b"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("expected %v from array-shaped claim, got %v", want, ids)
	}
}

func TestClaimsFromMapMissingNames(t *testing.T) {
	got := ClaimsFromMap(map[string]any{"sub": "s"}, "nope", "also-nope", "nor-this")
	if got.AccountList != "" || got.AccountID != "" || got.Username != "" {
		t.Errorf("expected empty values for missing claims, got %+v", got)
	}
}

package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// SortDirection is the ordering applied to the sort field.
type SortDirection string

const (
	// SortAsc orders results from the smallest to the largest value.
	SortAsc SortDirection = "asc"
	// SortDesc orders results from the largest to the smallest value.
	SortDesc SortDirection = "desc"
)

// SearchMode selects how SearchQuery is matched against records.
type SearchMode string

const (
	// SearchNone disables text search; the query is ignored.
	SearchNone SearchMode = ""
	// SearchPrefix matches records whose searchable text starts with the query.
	SearchPrefix SearchMode = "prefix"
	// SearchContains matches records whose searchable text contains the query.
	SearchContains SearchMode = "contains"
)

const (
	signatureSeparator = ":"
	// Sentinels start with '*', which url.QueryEscape always escapes, so no
	// user-supplied value can encode to them.
	sentinelAll  = "*all"
	sentinelNone = "*none"
)

// FilterSignature is the canonical key of one filter/sort/search combination.
type FilterSignature string

// String returns the signature text.
func (s FilterSignature) String() string {
	return string(s)
}

// Scope returns the leading entity scope segment of the signature.
func (s FilterSignature) Scope() string {
	scope, _, _ := strings.Cut(string(s), signatureSeparator)
	v, err := url.QueryUnescape(scope)
	if err != nil {
		return scope
	}
	return v
}

// PageKey returns the cache key of one page of results for the signature.
func (s FilterSignature) PageKey(page int) string {
	return s.PagePrefix() + strconv.Itoa(page)
}

// PagePrefix returns the prefix shared by every page key of the signature.
func (s FilterSignature) PagePrefix() string {
	return string(s) + "/page/"
}

// Filter describes what a list view is showing.
type Filter struct {
	Scope         string
	SortField     string
	SortDirection SortDirection
	Category      string // empty means all categories
	SearchMode    SearchMode
	SearchQuery   string
}

// Normalize returns f with a canonical direction and search mode.
func (f Filter) Normalize() Filter {
	switch SortDirection(strings.ToLower(string(f.SortDirection))) {
	case SortDesc:
		f.SortDirection = SortDesc
	default:
		f.SortDirection = SortAsc
	}

	f.SearchMode = SearchMode(strings.ToLower(string(f.SearchMode)))
	if f.SearchMode == SearchNone || f.SearchMode == "none" {
		f.SearchMode = SearchNone
		f.SearchQuery = ""
	}
	return f
}

// Signature encodes the filter into its canonical key.
//
// Layout: scope:sortField:direction:category|*all:searchMode|*none:query.
func (f Filter) Signature() FilterSignature {
	n := f.Normalize()

	category := sentinelAll
	if n.Category != "" {
		category = url.QueryEscape(n.Category)
	}

	mode := sentinelNone
	query := ""
	if n.SearchMode != SearchNone {
		mode = url.QueryEscape(string(n.SearchMode))
		query = url.QueryEscape(n.SearchQuery)
	}

	parts := []string{
		url.QueryEscape(n.Scope),
		url.QueryEscape(n.SortField),
		string(n.SortDirection),
		category,
		mode,
		query,
	}
	return FilterSignature(strings.Join(parts, signatureSeparator))
}

// ScopePrefix returns the key prefix shared by every signature and cache key of scope.
func ScopePrefix(scope string) string {
	return url.QueryEscape(scope) + signatureSeparator
}

package directory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/elliotchance/pie/v2"
)

type MatchMode string

const (
	MatchAny MatchMode = "any"
	MatchAll MatchMode = "all"
)

// Filter is a normalised search. Skills are expected trimmed and
// de-duplicated; matching is case-insensitive either way.
type Filter struct {
	Skills           []string
	MatchMode        MatchMode
	RequireAvailable bool
	// College matches as a case-insensitive substring.
	College string
	// Year is exact; zero means any year.
	Year  int
	Limit int
}

// Scoped reports whether f narrows the directory at all. Availability on its
// own does not count.
func (f Filter) Scoped() bool {
	return len(f.Skills) > 0 || strings.TrimSpace(f.College) != "" || f.Year != 0
}

// Matches applies f to a single candidate.
func (f Filter) Matches(c Candidate) bool {
	if f.RequireAvailable && c.Availability != AvailabilityAvailable {
		return false
	}
	if f.Year != 0 && c.Year != f.Year {
		return false
	}
	if college := strings.TrimSpace(f.College); college != "" && !containsFold(c.College, college) {
		return false
	}
	if len(f.Skills) == 0 {
		return true
	}

	hasSkill := func(query string) bool {
		return slices.ContainsFunc(c.Skills, func(s string) bool { return containsFold(s, query) })
	}
	if f.MatchMode == MatchAll {
		return pie.All(f.Skills, hasSkill)
	}
	return pie.Any(f.Skills, hasSkill)
}

// Apply filters, orders and truncates candidates. Backends without query
// support use it directly.
func Apply(candidates []Candidate, f Filter) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	SortCandidates(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// SortCandidates orders by name then id, byte-wise.
func SortCandidates(cs []Candidate) {
	slices.SortStableFunc(cs, func(a, b Candidate) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

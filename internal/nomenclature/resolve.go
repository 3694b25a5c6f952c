package nomenclature

import (
	"strings"

	"markorder/internal/logging"
)

// Pass identifies which matching pass produced a result.
type Pass int

const (
	PassNone Pass = iota
	PassExact
	PassFallback
)

func (p Pass) String() string {
	switch p {
	case PassExact:
		return "exact"
	case PassFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Query is a product descriptor as entered by the operator.
// Empty Color and Collar mean "not constrained".
type Query struct {
	SimplifiedName string
	Size           string
	UnitsPerPack   string
	Color          string
	Collar         string
}

// Match is a resolved product. The first matching row wins, so a match is
// a best effort and not an authoritative identification.
type Match struct {
	Code        string
	DisplayName string
	Pass        Pass
}

type normalizedQuery struct {
	simplified string
	size       string
	units      string
	color      string
	collar     string
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve maps a descriptor to a product code in two passes.
//
// The exact pass requires the simplified name to be equal, the size to be a
// substring of the row's size and units-per-pack to be string-equal. The
// fallback pass runs only when the exact pass finds nothing; it accepts rows
// whose simplified name contains the query and ignores units-per-pack. Color
// and collar, when given, must be equal in both passes. All text comparisons
// are case-insensitive.
//
// Resolve never panics; a failure inside matching is logged and reported as
// not found.
func (t *Table) Resolve(q Query) (m Match, ok bool) {
	log := logging.Get(logging.CategoryResolver)
	defer func() {
		if r := recover(); r != nil {
			log.Error("resolve %+v panicked: %v", q, r)
			m, ok = Match{}, false
		}
	}()

	if t == nil {
		log.Warn("resolve %+v against nil table", q)
		return Match{}, false
	}

	nq := normalizedQuery{
		simplified: fold(q.SimplifiedName),
		size:       fold(q.Size),
		units:      strings.TrimSpace(q.UnitsPerPack),
		color:      fold(q.Color),
		collar:     fold(q.Collar),
	}

	if row, found := t.first(nq, exactRow); found {
		log.Debug("exact match for %+v: %s", q, row.Code)
		return Match{Code: row.Code, DisplayName: row.Name, Pass: PassExact}, true
	}
	if row, found := t.first(nq, fallbackRow); found {
		log.Info("fallback match for %+v: %s (%s)", q, row.Code, row.Simplified)
		return Match{Code: row.Code, DisplayName: row.Name, Pass: PassFallback}, true
	}
	log.Info("no match for %+v", q)
	return Match{}, false
}

func (t *Table) first(q normalizedQuery, pred func(Row, normalizedQuery) bool) (Row, bool) {
	for _, row := range t.rows {
		if pred(row, q) {
			return row, true
		}
	}
	return Row{}, false
}

func exactRow(r Row, q normalizedQuery) bool {
	return fold(r.Simplified) == q.simplified &&
		strings.Contains(fold(r.Size), q.size) &&
		strings.TrimSpace(r.UnitsPerPack) == q.units &&
		optionalEqual(r, q)
}

func fallbackRow(r Row, q normalizedQuery) bool {
	return strings.Contains(fold(r.Simplified), q.simplified) &&
		strings.Contains(fold(r.Size), q.size) &&
		optionalEqual(r, q)
}

func optionalEqual(r Row, q normalizedQuery) bool {
	if q.collar != "" && fold(r.Collar) != q.collar {
		return false
	}
	if q.color != "" && fold(r.Color) != q.color {
		return false
	}
	return true
}

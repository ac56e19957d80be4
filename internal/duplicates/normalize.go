package duplicates

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/solardesk/solardesk/internal/projects"
)

// ComparisonRecord is the normalized, comparison-ready shape of a
// project record. Built once per record at the start of a scan and
// reused for every pair involving that record; never persisted.
type ComparisonRecord struct {
	Name        string
	Address     string
	Tokens      map[string]struct{}
	Capacity    float64
	HasCapacity bool
}

// addressMarkers are the address-component boundaries used for
// tokenization. Each marker closes the token it appears in, so
// "中山路50號" splits into "中山路" and "50號".
var addressMarkers = map[rune]struct{}{
	'縣': {},
	'市': {},
	'區': {},
	'鄉': {},
	'鎮': {},
	'村': {},
	'里': {},
	'路': {},
	'街': {},
	'段': {},
	'巷': {},
	'弄': {},
	'號': {},
	'樓': {},
}

// Normalize converts a raw project record into its comparison shape.
// Total over any input: missing fields normalize to empty strings and
// an empty token set.
func Normalize(p projects.Project) ComparisonRecord {
	name := normalizeString(p.Name)
	address := normalizeString(p.Address)

	rec := ComparisonRecord{
		Name:    name,
		Address: address,
		Tokens:  tokenizeAddress(address),
	}

	if p.CapacityKWP != nil {
		rec.Capacity = *p.CapacityKWP
		rec.HasCapacity = *p.CapacityKWP != 0
	}

	return rec
}

// normalizeString trims, case-folds, and narrows full-width characters
// to their half-width equivalents so "１２３" compares equal to "123".
func normalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(width.Narrow.String(s)))
}

// tokenizeAddress splits a normalized address into a token set on
// whitespace and address-component markers. Markers terminate the token
// they end, keeping road and section names distinct. Empty tokens are
// discarded.
func tokenizeAddress(address string) map[string]struct{} {
	tokens := make(map[string]struct{})

	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens[current.String()] = struct{}{}
			current.Reset()
		}
	}

	for _, r := range address {
		switch {
		case isSpace(r):
			flush()
		case isMarker(r):
			current.WriteRune(r)
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '　', ',', '，', '、':
		return true
	}
	return false
}

func isMarker(r rune) bool {
	_, ok := addressMarkers[r]
	return ok
}

// Package duplicates implements the duplicate-project detection and
// resolution engine for SolarDesk. A scan compares every active project
// pairwise, classifies candidate pairs into confidence tiers, and filters
// out pairs an operator has already dismissed. Resolution actions
// (dismiss, confirm-delete, merge) are the terminal outcomes, each
// recorded in the audit log.
package duplicates

import (
	"github.com/google/uuid"

	"github.com/solardesk/solardesk/internal/projects"
)

// ConfidenceLevel is the classifier's verdict on a candidate pair.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Rank orders confidence levels for sorting, highest first.
func (c ConfidenceLevel) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// MatchCriterion records one classification check and its outcome, so
// operators can see why a pair was or was not flagged. Value carries the
// computed similarity or matched field value when the check passed.
type MatchCriterion struct {
	Name    string `json:"name"`
	Matched bool   `json:"matched"`
	Value   string `json:"value,omitempty"`
}

// Group is one detected candidate pair. Groups are produced fresh on
// every scan and never persisted; the canonical pair key identifies the
// pair across scans, for dismissal and for clients tracking groups
// between runs.
type Group struct {
	PairKey           string              `json:"pair_key"`
	Projects          [2]projects.Project `json:"projects"`
	Confidence        ConfidenceLevel     `json:"confidence"`
	MatchedCriteria   []MatchCriterion    `json:"matched_criteria"`
	UnmatchedCriteria []MatchCriterion    `json:"unmatched_criteria"`
}

// PairKey returns the canonical key for an unordered project pair:
// the two ids as strings, sorted, joined with a colon. Both orderings
// of the same pair produce the same key.
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

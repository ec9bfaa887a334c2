// Package match implements fuzzy FAQ matching.
//
// An inbound message is scored against every canonical question with a
// token-order-insensitive metric first. When the best score falls short
// of the acceptance threshold, the whole candidate set is rescored with a
// partial-overlap metric, which rescues short fragments embedded in a
// longer canonical question (or vice versa). Whichever pass produced the
// final winner, the candidate is accepted only at or above the threshold.
package match

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/text/cases"
)

// Threshold is the minimum score (0-100) for a candidate to be accepted.
const Threshold = 65

// Match is a scored candidate question.
type Match struct {
	Question string
	Score    int
}

var foldCaser = cases.Fold()

// normalize applies Unicode case folding so scoring is case-insensitive
// for non-ASCII questions too.
func normalize(s string) string {
	return foldCaser.String(s)
}

// Best returns the best-matching question for message among questions,
// or ok=false when nothing scores at or above Threshold.
//
// Ties on equal score are broken deterministically in favor of the
// lexicographically smallest question, so the result does not depend on
// the order of the candidate slice.
func Best(message string, questions []string) (Match, bool) {
	if len(questions) == 0 {
		return Match{}, false
	}

	msg := normalize(message)

	best := scan(msg, questions, func(a, b string) int {
		return fuzzy.TokenSortRatio(a, b)
	})

	// Token-order scoring penalizes short, fragmentary phrasings too
	// harshly; rescore with the partial-overlap metric before giving up.
	if best.Score < Threshold {
		best = scan(msg, questions, fuzzy.PartialRatio)
	}

	if best.Score < Threshold {
		return Match{}, false
	}
	return best, true
}

// scan scores every candidate with one metric and returns the winner.
func scan(msg string, questions []string, score func(a, b string) int) Match {
	var best Match
	first := true
	for _, q := range questions {
		m := Match{Question: q, Score: score(msg, normalize(q))}
		if first || m.Score > best.Score || (m.Score == best.Score && m.Question < best.Question) {
			best = m
			first = false
		}
	}
	return best
}

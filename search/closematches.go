package search

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

type scoredKey struct {
	index int
	key   string
	score float64
}

// closeMatches returns the indexes of the best n keys whose similarity ratio
// to word is at least cutoff, best first. Equal scores are ordered by key,
// largest first.
//
// The ratio is the character-level sequence matcher ratio 2*M/T; the cheap
// upper bounds are checked before the full ratio is computed.
func closeMatches(word string, keys []string, n int, cutoff float64) []int {
	if n <= 0 {
		return nil
	}

	// The matcher caches its analysis of the second sequence, so word goes there
	m := difflib.NewMatcher(nil, strings.Split(word, ""))

	var scored []scoredKey
	for i, key := range keys {
		m.SetSeq1(strings.Split(key, ""))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := m.Ratio(); r >= cutoff {
			scored = append(scored, scoredKey{index: i, key: key, score: r})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].key > scored[j].key
	})

	if len(scored) > n {
		scored = scored[:n]
	}

	out := make([]int, len(scored))
	for i, s := range scored {
		out[i] = s.index
	}
	return out
}

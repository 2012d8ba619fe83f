package search

import (
	"context"
	"testing"

	"github.com/giygas/openbnf/fold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseMatchesOrderAndLimit(t *testing.T) {
	keys := []string{"APPLE", "APPLY", "APE", "APPLES", "APPLET"}

	got := closeMatches("APPLE", keys, 3, 0.6)
	// Exact first, then the two 10/11 ties with the larger key first
	assert.Equal(t, []int{0, 4, 3}, got)

	assert.Equal(t, []int{0, 4, 3, 1, 2}, closeMatches("APPLE", keys, 10, 0.6))
	assert.Equal(t, []int{0}, closeMatches("APPLE", keys, 10, 1.0))
	assert.Empty(t, closeMatches("APPLE", keys, 0, 0.6))
}

func TestCloseMatchesCutoff(t *testing.T) {
	keys := []string{"ASPIRIN", "PARACETAMOL", "IBUPROFEN"}

	assert.Equal(t, []int{0}, closeMatches("ASPRIN", keys, 3, 0.6))
	assert.Empty(t, closeMatches("XZZZZY", keys, 3, 0.6))
	assert.Empty(t, closeMatches("", keys, 3, 0.6))
	assert.Empty(t, closeMatches("ASPRIN", nil, 3, 0.6))
}

func newExampleSuggester(t *testing.T) *Suggester {
	t.Helper()
	ix, err := BuildNameIndex(context.Background(), exampleStore())
	require.NoError(t, err)
	return NewSuggester(ix, 0, 0)
}

func TestSuggestScenarios(t *testing.T) {
	s := newExampleSuggester(t)

	tests := []struct {
		term string
		want []string
	}{
		{"Asprin", []string{"Aspirin"}},
		{"asprin", []string{"Aspirin"}},
		{"xzzzzy", []string{}},
		{"ibuprofn", []string{"Ibuprofen"}},
		// The whole term is too far from any name; its first word is not
		{"Asprin tablets 300mg", []string{"Aspirin"}},
		// Both lookups find the same name, which is returned once
		{"Aspirn Aspirin", []string{"Aspirin"}},
		{"", []string{}},
		{"   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := s.Suggest(tt.term)
			require.NotNil(t, got)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestSuggestIsSubsetOfBothLookups(t *testing.T) {
	ix := NewNameIndex([]string{"Aspirin", "Aspirin dispersible", "Paracetamol", "Ibuprofen", "Ibuprofen lysine", "Co-codamol"})
	s := NewSuggester(ix, 3, 0.6)

	for _, term := range []string{"Asprin", "ibuprofn lysin", "paracetomol suspension", "cocodamol", "zzz", "Ibu profen"} {
		got := s.Suggest(term)

		allowed := map[string]bool{}
		for _, i := range closeMatches(fold.Upper(term), ix.keys, 3, 0.6) {
			allowed[ix.names[i]] = true
		}
		for _, i := range closeMatches(fold.Upper(firstWord(term)), ix.keys, 3, 0.6) {
			allowed[ix.names[i]] = true
		}

		assert.Len(t, got, len(allowed), "term %q", term)
		for _, name := range got {
			assert.True(t, allowed[name], "term %q suggested %q", term, name)
		}
	}
}

func firstWord(term string) string {
	for i, r := range term {
		if r == ' ' {
			return term[:i]
		}
	}
	return term
}

func TestNewSuggesterDefaults(t *testing.T) {
	s := NewSuggester(NewNameIndex(nil), -1, 2)
	assert.Equal(t, DefaultSuggestionLimit, s.limit)
	assert.Equal(t, DefaultSuggestionCutoff, s.cutoff)
	assert.Empty(t, s.Suggest("Aspirin"))
}

func TestNameIndex(t *testing.T) {
	ix := NewNameIndex([]string{"Aspirin", "Ibuprofen"})
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []string{"ASPIRIN", "IBUPROFEN"}, ix.keys)
	assert.False(t, ix.BuiltAt().IsZero())

	names := ix.Names()
	names[0] = "changed"
	assert.Equal(t, "Aspirin", ix.Names()[0], "Names returns a copy")
}

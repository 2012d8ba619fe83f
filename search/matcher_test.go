package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleStore() *store.MemoryStore {
	return store.NewMemoryStore([]entities.Drug{
		{Name: "Aspirin", Doses: "300 mg every 4 hours"},
		{Name: "Paracetamol", Doses: "0.5-1 g every 4-6 hours"},
		{Name: "Ibuprofen", Doses: "200-400 mg 3 times daily"},
	}, nil)
}

func drugNames(drugs []entities.Drug) []string {
	out := make([]string, len(drugs))
	for i, d := range drugs {
		out[i] = d.Name
	}
	return out
}

// failingStore fails every name lookup whose term contains failOn.
type failingStore struct {
	*store.MemoryStore
	failOn string
	mu     sync.Mutex
	calls  []string
}

var errStoreDown = errors.New("store unavailable")

func (f *failingStore) FindByNameSubstring(ctx context.Context, term string) ([]entities.Drug, error) {
	f.mu.Lock()
	f.calls = append(f.calls, term)
	f.mu.Unlock()
	if f.failOn != "" && strings.Contains(term, f.failOn) {
		return nil, errStoreDown
	}
	return f.MemoryStore.FindByNameSubstring(ctx, term)
}

func TestSubTerms(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"aspirin", []string{"aspirin"}},
		{"Aspirin|Ibuprofen", []string{"Aspirin", "Ibuprofen"}},
		{"Aspirin OR Ibuprofen", []string{"Aspirin", "Ibuprofen"}},
		{"a|b|c", []string{"a", "b", "c"}},
		// The pipe is checked first wherever it is, then each side is split again
		{"asp OR para|ibu", []string{"asp", "para", "ibu"}},
		{"asp|para OR ibu", []string{"asp", "para", "ibu"}},
		{"asp|", []string{"asp", ""}},
		{"|", []string{"", ""}},
		{"ORange", []string{"ORange"}},
		{"asp or ibu", []string{"asp or ibu"}},
		{"", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, subTerms(tt.term))
		})
	}
}

func TestFindMatchesScenarios(t *testing.T) {
	m := NewMatcher(exampleStore())
	ctx := context.Background()

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"substring", "asp", []string{"Aspirin"}},
		{"pipe concatenates", "Aspirin|Ibuprofen", []string{"Aspirin", "Ibuprofen"}},
		{"OR concatenates", "Paracetamol OR Ibuprofen", []string{"Paracetamol", "Ibuprofen"}},
		{"no match", "xzzzzy", []string{}},
		{"misspelled", "Asprin", []string{}},
		{"empty term matches all", "", []string{"Aspirin", "Paracetamol", "Ibuprofen"}},
		{"duplicates are kept across branches", "Aspirin|asp", []string{"Aspirin", "Aspirin"}},
		{"trailing separator matches all on the empty side", "asp|", []string{"Aspirin", "Aspirin", "Paracetamol", "Ibuprofen"}},
		{"one empty branch", "xzzzzy|ibu", []string{"Ibuprofen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FindMatches(ctx, tt.term)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, drugNames(got))
		})
	}
}

func TestFindMatchesReturnsFullRecords(t *testing.T) {
	got, err := NewMatcher(exampleStore()).FindMatches(context.Background(), "IBU")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "200-400 mg 3 times daily", got[0].Doses)
}

func TestFindMatchesContainment(t *testing.T) {
	st := exampleStore()
	m := NewMatcher(st)
	ctx := context.Background()
	all, err := st.FindAll(ctx)
	require.NoError(t, err)

	for _, term := range []string{"a", "A", "in", "OFEN", "ce", "rin", "q", "Paracetamol", "paracetamolx"} {
		got, err := m.FindMatches(ctx, term)
		require.NoError(t, err)

		var want []string
		for _, d := range all {
			if strings.Contains(strings.ToLower(d.Name), strings.ToLower(term)) {
				want = append(want, d.Name)
			}
		}
		assert.ElementsMatch(t, want, drugNames(got), "term %q", term)
	}
}

func TestFindMatchesSplitIsConcatenation(t *testing.T) {
	m := NewMatcher(exampleStore())
	ctx := context.Background()
	terms := []string{"", "a", "asp", "IBU", "xzzzzy", "par", "n"}

	for _, a := range terms {
		for _, b := range terms {
			left, err := m.FindMatches(ctx, a)
			require.NoError(t, err)
			right, err := m.FindMatches(ctx, b)
			require.NoError(t, err)

			got, err := m.FindMatches(ctx, a+"|"+b)
			require.NoError(t, err)
			assert.Equal(t, append(drugNames(left), drugNames(right)...), drugNames(got), "%q|%q", a, b)
		}
	}
}

func TestFindMatchesIsIdempotent(t *testing.T) {
	m := NewMatcher(exampleStore())
	ctx := context.Background()

	for _, term := range []string{"a", "asp|ibu", "", "x OR para"} {
		first, err := m.FindMatches(ctx, term)
		require.NoError(t, err)
		second, err := m.FindMatches(ctx, term)
		require.NoError(t, err)
		assert.ElementsMatch(t, drugNames(first), drugNames(second))
	}
}

func TestFindMatchesPropagatesStoreFailure(t *testing.T) {
	fs := &failingStore{MemoryStore: exampleStore(), failOn: "ibu"}
	m := NewMatcher(fs)
	ctx := context.Background()

	_, err := m.FindMatches(ctx, "ibu")
	assert.ErrorIs(t, err, errStoreDown)

	got, err := m.FindMatches(ctx, "asp|ibu")
	assert.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, got, "a failing branch fails the whole match")

	got, err = m.FindMatches(ctx, "asp|para")
	require.NoError(t, err)
	assert.Equal(t, []string{"Aspirin", "Paracetamol"}, drugNames(got))
}

func TestFindMatchesQueriesEveryBranch(t *testing.T) {
	fs := &failingStore{MemoryStore: exampleStore()}
	_, err := NewMatcher(fs).FindMatches(context.Background(), "a|b OR c|d")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, fs.calls)
}

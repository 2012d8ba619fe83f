// Package store provides the drug record store backends: MongoDB for deployments
// and an in-memory store loaded from seed files for development and tests.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/fold"
	"github.com/giygas/openbnf/interfaces"
)

var (
	// ErrNotFound is returned by single-record lookups that match nothing
	ErrNotFound = errors.New("record not found")

	// ErrUnsearchableField is returned for field lookups outside the searchable schema
	ErrUnsearchableField = errors.New("field is not searchable")
)

// Compile-time check to ensure MemoryStore implements RecordStore
var _ interfaces.RecordStore = (*MemoryStore)(nil)

// MemoryStore is an immutable RecordStore over a fixed set of records.
type MemoryStore struct {
	drugs []entities.Drug
	codes map[string]entities.CodeMapping
}

// NewMemoryStore creates a store over drugs and codes. The slices are copied.
func NewMemoryStore(drugs []entities.Drug, codes []entities.CodeMapping) *MemoryStore {
	ms := &MemoryStore{
		drugs: append([]entities.Drug(nil), drugs...),
		codes: make(map[string]entities.CodeMapping, len(codes)),
	}
	for _, c := range codes {
		ms.codes[c.Code] = c
	}
	return ms
}

func (ms *MemoryStore) FindAll(ctx context.Context) ([]entities.Drug, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]entities.Drug{}, ms.drugs...), nil
}

func (ms *MemoryStore) FindByNameSubstring(ctx context.Context, term string) ([]entities.Drug, error) {
	return ms.filter(ctx, func(d *entities.Drug) bool {
		return fold.Contains(d.Name, term)
	})
}

func (ms *MemoryStore) FindOneByExactName(ctx context.Context, name string) (*entities.Drug, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i := range ms.drugs {
		if ms.drugs[i].Name == name {
			d := ms.drugs[i]
			return &d, nil
		}
	}
	return nil, fmt.Errorf("drug %q: %w", name, ErrNotFound)
}

func (ms *MemoryStore) FindByFieldSubstring(ctx context.Context, field, term string) ([]entities.Drug, error) {
	if f, ok := entities.LookupField(field); !ok || !entities.IsSearchable(f) {
		return nil, fmt.Errorf("%s: %w", field, ErrUnsearchableField)
	}
	// Records without the field never match, as with a Mongo $regex
	return ms.filter(ctx, func(d *entities.Drug) bool {
		text := d.Text(field)
		return text != "" && fold.Contains(text, term)
	})
}

func (ms *MemoryStore) FindOneByCode(ctx context.Context, code string) (*entities.CodeMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, ok := ms.codes[code]
	if !ok {
		return nil, fmt.Errorf("code %q: %w", code, ErrNotFound)
	}
	return &c, nil
}

func (ms *MemoryStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(ms.drugs)), nil
}

func (ms *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (ms *MemoryStore) filter(ctx context.Context, keep func(*entities.Drug) bool) ([]entities.Drug, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := []entities.Drug{}
	for i := range ms.drugs {
		if keep(&ms.drugs[i]) {
			results = append(results, ms.drugs[i])
		}
	}
	return results, nil
}

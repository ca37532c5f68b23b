package resumes

import (
	"context"
	"encoding/json"
	"fmt"

	"resulens-backend/internal/kv"
	"resulens-backend/internal/shared/telemetry"
)

// Store persists Records in the key/value store under "resume:<id>" keys.
type Store struct {
	kv kv.Store
}

// NewStore constructs a record store over the given key/value backend.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Save writes the full record under its key, overwriting any prior value.
func (s *Store) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}
	if err := s.kv.Set(ctx, recordKey(rec.ID), string(data)); err != nil {
		return fmt.Errorf("store record %s: %w", rec.ID, err)
	}
	return nil
}

// Get fetches and decodes one record. Returns kv.ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	value, err := s.kv.Get(ctx, recordKey(id))
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return Record{}, fmt.Errorf("decode record %s: %w", id, err)
	}
	return rec, nil
}

// List returns every parseable record under the resume prefix. Entries whose
// value fails to decode are dropped from the result, never surfaced as a
// listing failure.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	items, err := s.kv.List(ctx, listPattern, true)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		var rec Record
		if err := json.Unmarshal([]byte(item.Value), &rec); err != nil {
			telemetry.Warn("resumes.list.corrupt_entry", map[string]any{
				"key": item.Key,
				"err": err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	ai "github.com/striderml/strider"
)

// Record is the persisted transcript of one completed agent run.
type Record struct {
	ID         string       `json:"id"`
	Prompt     string       `json:"prompt"`
	State      string       `json:"state"`
	Reason     string       `json:"reason"`
	Steps      int          `json:"steps"`
	Messages   []ai.Message `json:"messages"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// RunStore persists run records on top of an Adapter.
type RunStore struct {
	adapter Adapter
}

// NewRunStore creates a run store. A nil adapter defaults to in-memory.
func NewRunStore(adapter Adapter) *RunStore {
	if adapter == nil {
		adapter = NewMemoryAdapter()
	}
	return &RunStore{adapter: adapter}
}

// Save persists a record under its run ID.
func (s *RunStore) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.adapter.Set(ctx, rec.ID, data)
}

// Get retrieves a record by run ID.
func (s *RunStore) Get(ctx context.Context, id string) (Record, bool, error) {
	data, ok, err := s.adapter.Get(ctx, id)
	if err != nil || !ok {
		return Record{}, ok, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// List returns all records, most recently started first.
func (s *RunStore) List(ctx context.Context) ([]Record, error) {
	keys, err := s.adapter.Keys(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		rec, ok, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records, nil
}

// Delete removes a record by run ID.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	return s.adapter.Delete(ctx, id)
}

// Len returns the number of stored records.
func (s *RunStore) Len(ctx context.Context) (int, error) {
	return s.adapter.Len(ctx)
}

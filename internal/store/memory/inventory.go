package memory

import (
	"context"
	"encoding/json"
	"time"

	"stockd/internal/domain"
	"stockd/internal/model"
)

func (s *Store) AddQuantity(_ context.Context, item string, qty int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, bad := s.raw[item]; bad {
		return 0, domain.ErrInvalidQuantity
	}
	if _, exists := s.items[item]; !exists {
		s.order = append(s.order, item)
	}
	s.items[item] += qty

	s.logs = append(s.logs, model.LogEntry{
		Seq:       s.nextSeq,
		Item:      item,
		Quantity:  qty,
		CreatedAt: time.Now().UTC(),
	})
	s.nextSeq++

	return s.items[item], nil
}

func (s *Store) RemoveQuantity(_ context.Context, item string, qty int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, bad := s.raw[item]; bad {
		return 0, domain.ErrInvalidQuantity
	}
	current, exists := s.items[item]
	if !exists {
		return 0, domain.ErrItemNotFound
	}

	remaining := current - qty
	if remaining <= 0 {
		delete(s.items, item)
		s.dropFromOrder(item)
		return 0, nil
	}
	s.items[item] = remaining
	return remaining, nil
}

func (s *Store) Quantity(_ context.Context, item string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[item], nil
}

func (s *Store) List(_ context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]model.Item, 0, len(s.items))
	for _, name := range s.order {
		if qty, ok := s.items[name]; ok {
			result = append(result, model.Item{Name: name, Quantity: qty})
		}
	}
	return result, nil
}

func (s *Store) LowStock(_ context.Context, threshold int64) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Item
	for _, name := range s.order {
		if qty, ok := s.items[name]; ok && qty < threshold {
			result = append(result, model.Item{Name: name, Quantity: qty})
		}
	}
	return result, nil
}

func (s *Store) ListLog(_ context.Context) ([]model.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]model.LogEntry, len(s.logs))
	copy(result, s.logs)
	return result, nil
}

func (s *Store) Snapshot(_ context.Context) (model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(model.Snapshot, 0, len(s.order))
	for _, name := range s.order {
		if raw, bad := s.raw[name]; bad {
			snap = append(snap, model.SnapshotEntry{Name: name, Raw: raw})
			continue
		}
		snap = append(snap, model.SnapshotEntry{Name: name, Quantity: s.items[name]})
	}
	return snap, nil
}

// Replace swaps the mapping wholesale. Entries with non-integer values are
// kept verbatim so a later save round-trips them; arithmetic against them
// fails with ErrInvalidQuantity. A name appearing twice keeps its first
// position and last value. The add-event log is untouched.
func (s *Store) Replace(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.items = make(map[string]int64, len(snap))
	s.raw = make(map[string]json.RawMessage)
	for _, entry := range snap {
		_, hasQty := s.items[entry.Name]
		_, hasRaw := s.raw[entry.Name]
		if !hasQty && !hasRaw {
			s.order = append(s.order, entry.Name)
		}
		if entry.Raw != nil {
			delete(s.items, entry.Name)
			s.raw[entry.Name] = entry.Raw
			continue
		}
		delete(s.raw, entry.Name)
		s.items[entry.Name] = entry.Quantity
	}
	return nil
}

func (s *Store) dropFromOrder(item string) {
	for i, name := range s.order {
		if name == item {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

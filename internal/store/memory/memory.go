package memory

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"stockd/internal/model"
)

// Store keeps the inventory mapping in process memory. Iteration order is
// insertion order, tracked separately from the maps.
type Store struct {
	mu      sync.Mutex
	order   []string
	items   map[string]int64
	raw     map[string]json.RawMessage
	logs    []model.LogEntry
	nextSeq int64
	log     *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{
		items:   make(map[string]int64),
		raw:     make(map[string]json.RawMessage),
		nextSeq: 1,
		log:     logger,
	}
}

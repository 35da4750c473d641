package model

import (
	"encoding/json"
	"time"
)

type Item struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// LogEntry records a single successful add. Entries are append-only and
// ordered chronologically.
type LogEntry struct {
	Seq       int64     `json:"seq"`
	Item      string    `json:"item"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// StockEvent is broadcast to SSE subscribers after every successful mutation.
type StockEvent struct {
	Seq       int64     `json:"seq"`
	Action    string    `json:"action"`
	Item      string    `json:"item"`
	Quantity  int64     `json:"quantity"`
	Remaining int64     `json:"remaining"`
	At        time.Time `json:"at"`
}

// SnapshotEntry is one inventory entry as it appears on disk. Raw is set
// when the persisted value is not an integer; such entries are carried
// through load/save untouched and reject arithmetic operations.
type SnapshotEntry struct {
	Name     string
	Quantity int64
	Raw      json.RawMessage
}

// Snapshot preserves the on-disk (insertion) order of entries.
type Snapshot []SnapshotEntry

package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"stockd/internal/model"
)

// FileStore reads and writes inventory snapshots as a single JSON object.
// Values are written in insertion order with 4-space indentation. The
// reader accepts any valid JSON object; values that are not integers are
// carried through as raw entries rather than rejected.
type FileStore struct {
	log *zap.Logger
}

func NewFileStore(logger *zap.Logger) *FileStore {
	return &FileStore{log: logger}
}

func (f *FileStore) Load(path string) (model.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	dec := json.NewDecoder(file)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode inventory file: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode inventory file: top level is not a JSON object")
	}

	var snap model.Snapshot
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode inventory file: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode inventory file: unexpected key token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode inventory file: %w", err)
		}

		entry := model.SnapshotEntry{Name: key, Raw: raw}
		var qty int64
		if err := json.Unmarshal(raw, &qty); err == nil {
			entry = model.SnapshotEntry{Name: key, Quantity: qty}
		}

		// A duplicate key keeps its first position but takes the last value.
		if i, dup := seen[key]; dup {
			snap[i] = entry
			continue
		}
		seen[key] = len(snap)
		snap = append(snap, entry)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode inventory file: %w", err)
	}

	return snap, nil
}

func (f *FileStore) Save(path string, snap model.Snapshot) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range snap {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n    ")
		name, err := json.Marshal(entry.Name)
		if err != nil {
			return fmt.Errorf("encode inventory: %w", err)
		}
		buf.Write(name)
		buf.WriteString(": ")
		if entry.Raw != nil {
			buf.Write(entry.Raw)
		} else {
			buf.WriteString(strconv.FormatInt(entry.Quantity, 10))
		}
	}
	if len(snap) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		f.log.Error("save inventory failed", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stockd/internal/domain"
	"stockd/internal/model"
)

var removeScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if not current then
	return redis.error_reply('not found')
end
local qty = tonumber(current)
if qty == nil then
	return redis.error_reply('invalid quantity')
end
local remaining = qty - tonumber(ARGV[2])
if remaining <= 0 then
	redis.call('HDEL', KEYS[1], ARGV[1])
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], remaining)
return remaining
`)

func (s *Store) AddQuantity(ctx context.Context, item string, qty int64) (int64, error) {
	remaining, err := s.client.HIncrBy(ctx, inventoryKey, item, qty).Result()
	if err != nil {
		if strings.Contains(err.Error(), "not an integer") {
			return 0, domain.ErrInvalidQuantity
		}
		return 0, fmt.Errorf("redis hincrby: %w", err)
	}

	seq, err := s.client.Incr(ctx, logSeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis log seq: %w", err)
	}
	entry, err := json.Marshal(model.LogEntry{
		Seq:       seq,
		Item:      item,
		Quantity:  qty,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("encode log entry: %w", err)
	}
	if err := s.client.RPush(ctx, logKey, entry).Err(); err != nil {
		s.log.Error("redis append log failed", zap.String("item", item), zap.Error(err))
		return 0, fmt.Errorf("redis rpush log: %w", err)
	}
	return remaining, nil
}

func (s *Store) RemoveQuantity(ctx context.Context, item string, qty int64) (int64, error) {
	remaining, err := removeScript.Run(ctx, s.client, []string{inventoryKey}, item, qty).Int64()
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "not found"):
			return 0, domain.ErrItemNotFound
		case strings.Contains(err.Error(), "invalid quantity"):
			return 0, domain.ErrInvalidQuantity
		default:
			return 0, fmt.Errorf("redis remove script: %w", err)
		}
	}
	return remaining, nil
}

func (s *Store) Quantity(ctx context.Context, item string) (int64, error) {
	value, err := s.client.HGet(ctx, inventoryKey, item).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis hget: %w", err)
	}
	qty, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, nil
	}
	return qty, nil
}

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	return s.listBelow(ctx, 0, false)
}

func (s *Store) LowStock(ctx context.Context, threshold int64) ([]model.Item, error) {
	return s.listBelow(ctx, threshold, true)
}

func (s *Store) listBelow(ctx context.Context, threshold int64, filter bool) ([]model.Item, error) {
	fields, err := s.client.HGetAll(ctx, inventoryKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var result []model.Item
	for _, name := range names {
		qty, err := strconv.ParseInt(fields[name], 10, 64)
		if err != nil {
			continue
		}
		if filter && qty >= threshold {
			continue
		}
		result = append(result, model.Item{Name: name, Quantity: qty})
	}
	return result, nil
}

func (s *Store) ListLog(ctx context.Context) ([]model.LogEntry, error) {
	raw, err := s.client.LRange(ctx, logKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange log: %w", err)
	}

	result := make([]model.LogEntry, 0, len(raw))
	for _, item := range raw {
		var entry model.LogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			s.log.Warn("skipping malformed log entry", zap.Error(err))
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *Store) Snapshot(ctx context.Context) (model.Snapshot, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	snap := make(model.Snapshot, 0, len(items))
	for _, item := range items {
		snap = append(snap, model.SnapshotEntry{Name: item.Name, Quantity: item.Quantity})
	}
	return snap, nil
}

// Replace swaps the hash contents. Raw (non-integer) entries cannot be
// stored as quantities and are skipped with a warning.
func (s *Store) Replace(ctx context.Context, snap model.Snapshot) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, inventoryKey)
	for _, entry := range snap {
		if entry.Raw != nil {
			s.log.Warn("skipping non-integer inventory entry",
				zap.String("item", entry.Name),
			)
			continue
		}
		pipe.HSet(ctx, inventoryKey, entry.Name, entry.Quantity)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis replace: %w", err)
	}
	return nil
}

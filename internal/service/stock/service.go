package stock

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"stockd/internal/domain"
	"stockd/internal/metrics"
	"stockd/internal/model"
	"stockd/internal/persist"
	"stockd/internal/repository"
	"stockd/internal/sse"
)

type Service struct {
	store   repository.InventoryRepository
	files   *persist.FileStore
	hub     *sse.Hub
	metrics *metrics.Metrics
	log     *zap.Logger
	seq     atomic.Int64
}

func NewService(store repository.InventoryRepository, files *persist.FileStore, hub *sse.Hub, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{store: store, files: files, hub: hub, metrics: m, log: logger}
}

// Add validates and applies an addition. Empty item names and negative
// quantities are rejected without touching the store.
func (s *Service) Add(ctx context.Context, item string, qty int64) (model.Item, error) {
	if err := domain.ValidateAdd(item, qty); err != nil {
		s.metrics.Record(domain.ActionAdd, metrics.OutcomeRejected)
		if !errors.Is(err, domain.ErrEmptyItem) {
			s.log.Warn("add rejected",
				zap.String("item", item),
				zap.Int64("qty", qty),
				zap.Error(err),
			)
		}
		return model.Item{}, err
	}

	remaining, err := s.store.AddQuantity(ctx, item, qty)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) {
			s.metrics.Record(domain.ActionAdd, metrics.OutcomeRejected)
			s.log.Warn("add rejected", zap.String("item", item), zap.Error(err))
			return model.Item{}, err
		}
		s.metrics.Record(domain.ActionAdd, metrics.OutcomeError)
		s.log.Error("store add failed", zap.String("item", item), zap.Int64("qty", qty), zap.Error(err))
		return model.Item{}, err
	}

	s.metrics.Record(domain.ActionAdd, metrics.OutcomeOK)
	s.broadcast(domain.ActionAdd, item, qty, remaining)
	return model.Item{Name: item, Quantity: remaining}, nil
}

// Remove applies a removal. The quantity sign is deliberately not checked:
// removing a negative quantity increases stock.
func (s *Service) Remove(ctx context.Context, item string, qty int64) (model.Item, error) {
	remaining, err := s.store.RemoveQuantity(ctx, item, qty)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, domain.ErrInvalidQuantity) {
			s.metrics.Record(domain.ActionRemove, metrics.OutcomeRejected)
			s.log.Warn("remove rejected", zap.String("item", item), zap.Error(err))
			return model.Item{}, err
		}
		s.metrics.Record(domain.ActionRemove, metrics.OutcomeError)
		s.log.Error("store remove failed", zap.String("item", item), zap.Int64("qty", qty), zap.Error(err))
		return model.Item{}, err
	}

	s.metrics.Record(domain.ActionRemove, metrics.OutcomeOK)
	s.broadcast(domain.ActionRemove, item, qty, remaining)
	return model.Item{Name: item, Quantity: remaining}, nil
}

// Quantity never reports absence as an error: unknown items read as zero.
func (s *Service) Quantity(ctx context.Context, item string) (int64, error) {
	return s.store.Quantity(ctx, item)
}

func (s *Service) Report(ctx context.Context) ([]model.Item, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("store list failed", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (s *Service) LowStock(ctx context.Context, threshold int64) ([]model.Item, error) {
	items, err := s.store.LowStock(ctx, threshold)
	if err != nil {
		s.log.Error("store low stock failed", zap.Int64("threshold", threshold), zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (s *Service) Log(ctx context.Context) ([]model.LogEntry, error) {
	entries, err := s.store.ListLog(ctx)
	if err != nil {
		s.log.Error("store list log failed", zap.Error(err))
		return nil, err
	}
	return entries, nil
}

// Save snapshots the store to path. A failed write may leave the file in
// a partial state; there is no atomic replace.
func (s *Service) Save(ctx context.Context, path string) error {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		s.log.Error("snapshot failed", zap.Error(err))
		return err
	}
	if err := s.files.Save(path, snap); err != nil {
		return err
	}
	s.log.Info("inventory saved", zap.String("path", path), zap.Int("items", len(snap)))
	return nil
}

// Load replaces the store contents with the file at path. A missing or
// undecodable file is never fatal: the inventory starts fresh. Returns
// the number of entries loaded.
func (s *Service) Load(ctx context.Context, path string) (int, error) {
	snap, err := s.files.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Info("no existing inventory file, starting fresh", zap.String("path", path))
		snap = nil
	case err != nil:
		s.log.Warn("inventory file undecodable, starting fresh",
			zap.String("path", path),
			zap.Error(err),
		)
		snap = nil
	}

	if err := s.store.Replace(ctx, snap); err != nil {
		s.log.Error("store replace failed", zap.Error(err))
		return 0, err
	}
	if len(snap) > 0 {
		s.log.Info("inventory loaded", zap.String("path", path), zap.Int("items", len(snap)))
	}
	return len(snap), nil
}

func (s *Service) broadcast(action, item string, qty, remaining int64) {
	s.hub.Broadcast(model.StockEvent{
		Seq:       s.seq.Add(1),
		Action:    action,
		Item:      item,
		Quantity:  qty,
		Remaining: remaining,
		At:        time.Now().UTC(),
	})
}

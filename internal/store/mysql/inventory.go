package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"stockd/internal/domain"
	"stockd/internal/model"
)

func (s *Store) AddQuantity(ctx context.Context, item string, qty int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory (name, quantity) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		item, qty,
	)
	if err != nil {
		s.log.Error("sql add quantity failed", zap.String("item", item), zap.Error(err))
		return 0, fmt.Errorf("upsert inventory: %w", err)
	}

	var remaining int64
	if err := tx.QueryRowContext(ctx,
		`SELECT quantity FROM inventory WHERE name = ?`, item,
	).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("read back quantity: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO inventory_log (item, quantity) VALUES (?, ?)`,
		item, qty,
	); err != nil {
		s.log.Error("sql append log failed", zap.String("item", item), zap.Error(err))
		return 0, fmt.Errorf("append log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return remaining, nil
}

func (s *Store) RemoveQuantity(ctx context.Context, item string, qty int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int64
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM inventory WHERE name = ? FOR UPDATE`, item,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query inventory: %w", err)
	}

	remaining := current - qty
	if remaining <= 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM inventory WHERE name = ?`, item,
		); err != nil {
			return 0, fmt.Errorf("delete inventory: %w", err)
		}
		remaining = 0
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = ? WHERE name = ?`, remaining, item,
		); err != nil {
			return 0, fmt.Errorf("update inventory: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return remaining, nil
}

func (s *Store) Quantity(ctx context.Context, item string) (int64, error) {
	var qty int64
	err := s.db.QueryRowContext(ctx,
		`SELECT quantity FROM inventory WHERE name = ?`, item,
	).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query inventory: %w", err)
	}
	return qty, nil
}

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	return s.listWhere(ctx,
		`SELECT name, quantity FROM inventory ORDER BY id`)
}

func (s *Store) LowStock(ctx context.Context, threshold int64) ([]model.Item, error) {
	return s.listWhere(ctx,
		`SELECT name, quantity FROM inventory WHERE quantity < ? ORDER BY id`, threshold)
}

func (s *Store) listWhere(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.Name, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (s *Store) ListLog(ctx context.Context) ([]model.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item, quantity, created_at FROM inventory_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.LogEntry
	for rows.Next() {
		var entry model.LogEntry
		if err := rows.Scan(&entry.Seq, &entry.Item, &entry.Quantity, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
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

// Replace swaps the table contents. Entries carrying raw (non-integer)
// values cannot be represented in a typed column and are skipped with a
// warning.
func (s *Store) Replace(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory`); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}
	for _, entry := range snap {
		if entry.Raw != nil {
			s.log.Warn("skipping non-integer inventory entry",
				zap.String("item", entry.Name),
			)
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO inventory (name, quantity) VALUES (?, ?)`,
			entry.Name, entry.Quantity,
		); err != nil {
			return fmt.Errorf("insert inventory: %w", err)
		}
	}
	return tx.Commit()
}

package mysql

import (
	"database/sql"

	"go.uber.org/zap"
)

// Store backs the inventory with MySQL. Insertion order is recovered from
// the auto-increment id on the inventory table.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, log: logger}
}

package redis

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	inventoryKey = "inventory"
	logKey       = "inventory:log"
	logSeqKey    = "inventory:log:seq"
)

// Store backs the inventory with a Redis hash. Redis hashes have no stable
// field order, so listings are sorted lexicographically by item name.
type Store struct {
	client *redis.Client
	log    *zap.Logger
}

func New(client *redis.Client, logger *zap.Logger) *Store {
	return &Store{client: client, log: logger}
}

package store

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stockd/internal/config"
	"stockd/internal/repository"
	"stockd/internal/store/memory"
	"stockd/internal/store/mysql"
	"stockd/internal/store/redis"
)

// NewStore picks the inventory backend from configuration: MySQL when a
// DSN is set, Redis when an address is set, in-memory otherwise.
func NewStore(cfg *config.Config, logger *zap.Logger) (repository.InventoryRepository, error) {
	if cfg.MySQLDSN != "" {
		sqlDB, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Error("mysql open failed", zap.Error(err))
			return nil, err
		}
		if err := sqlDB.Ping(); err != nil {
			logger.Error("mysql ping failed", zap.Error(err))
			return nil, err
		}
		return mysql.New(sqlDB, logger), nil
	}
	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		return redis.New(client, logger), nil
	}
	return memory.New(logger), nil
}

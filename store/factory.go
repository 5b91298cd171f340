package store

import (
	"fmt"
	"path/filepath"

	"github.com/mezonai/tokencore/db"
)

// StoreType represents the type of store implementation
type StoreType string

const (
	// LevelDBStoreType uses the LevelDB implementation
	LevelDBStoreType StoreType = "leveldb"

	// MemoryStoreType uses LevelDB over in-memory storage
	MemoryStoreType StoreType = "memory"

	// BoltStoreType uses the bbolt implementation
	BoltStoreType StoreType = "bolt"

	// RedisStoreType uses the Redis implementation
	RedisStoreType StoreType = "redis"

	// PostgresStoreType uses the Postgres implementation
	PostgresStoreType StoreType = "postgres"
)

// StoreConfig holds configuration for creating store instances
type StoreConfig struct {
	// Type specifies which store implementation to use
	Type StoreType `ini:"type" json:"type" yaml:"type"`

	// Directory is the database directory path (for file-based databases)
	Directory string `ini:"directory" json:"directory" yaml:"directory"`

	// Address is the Redis server address
	Address string `ini:"address" json:"address" yaml:"address"`

	// RedisDB selects the Redis logical database
	RedisDB int `ini:"redis_db" json:"redis_db" yaml:"redis_db"`

	// DSN is the Postgres connection string
	DSN string `ini:"dsn" json:"dsn" yaml:"dsn"`
}

// Validate validates the store configuration
func (sc *StoreConfig) Validate() error {
	if sc.Type == "" {
		return fmt.Errorf("store type cannot be empty")
	}

	switch sc.Type {
	case LevelDBStoreType, BoltStoreType:
		if sc.Directory == "" {
			return fmt.Errorf("directory cannot be empty")
		}
	case RedisStoreType:
		if sc.Address == "" {
			return fmt.Errorf("redis address cannot be empty")
		}
	case PostgresStoreType:
		if sc.DSN == "" {
			return fmt.Errorf("postgres dsn cannot be empty")
		}
	case MemoryStoreType:
	default:
		return fmt.Errorf("unsupported store type: %s", sc.Type)
	}
	return nil
}

// StoreFactory take responsibility to create store instances
type StoreFactory struct{}

// NewStoreFactory creates a new store factory
func NewStoreFactory() *StoreFactory {
	return &StoreFactory{}
}

// CreateProvider creates a database provider based on the configuration
func (sf *StoreFactory) CreateProvider(config *StoreConfig) (db.IterableProvider, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch config.Type {
	case LevelDBStoreType:
		return db.NewLevelDBProvider(config.Directory)

	case MemoryStoreType:
		return db.NewMemLevelDBProvider()

	case BoltStoreType:
		return db.NewBoltProvider(filepath.Join(config.Directory, "tokencore.db"))

	case RedisStoreType:
		return db.NewRedisProvider(config.Address, config.RedisDB)

	case PostgresStoreType:
		return db.NewPostgresProvider(config.DSN)

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// Global factory instance
var globalFactory = NewStoreFactory()

// CreateProvider creates a provider using the global factory
func CreateProvider(config *StoreConfig) (db.IterableProvider, error) {
	return globalFactory.CreateProvider(config)
}

package db

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	key   BYTEA PRIMARY KEY,
	value BYTEA NOT NULL
)`

const postgresUpsert = `INSERT INTO kv_store (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

// PostgresProvider implements IterableProvider on a single kv_store table.
// BYTEA compares byte-wise, which gives the same key order as LevelDB.
type PostgresProvider struct {
	once sync.Once
	db   *sql.DB
}

// NewPostgresProvider opens a connection and makes sure the table exists
func NewPostgresProvider(dsn string) (*PostgresProvider, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if _, err := conn.Exec(postgresSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return &PostgresProvider{db: conn}, nil
}

// Get retrieves a value by key
func (p *PostgresProvider) Get(key []byte) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow(`SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// GetBatch retrieves multiple values by keys
func (p *PostgresProvider) GetBatch(keys [][]byte) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		value, err := p.Get(key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			result[string(key)] = value
		}
	}
	return result, nil
}

// Put stores a key-value pair
func (p *PostgresProvider) Put(key, value []byte) error {
	_, err := p.db.Exec(postgresUpsert, key, value)
	return err
}

// Delete removes a key-value pair
func (p *PostgresProvider) Delete(key []byte) error {
	_, err := p.db.Exec(`DELETE FROM kv_store WHERE key = $1`, key)
	return err
}

// Has checks if a key exists
func (p *PostgresProvider) Has(key []byte) (bool, error) {
	var exists bool
	err := p.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM kv_store WHERE key = $1)`, key).Scan(&exists)
	return exists, err
}

// Close closes the database connection
func (p *PostgresProvider) Close() error {
	var err error
	p.once.Do(func() {
		err = p.db.Close()
	})
	return err
}

// Batch returns a batch applied inside one SQL transaction
func (p *PostgresProvider) Batch() DatabaseBatch {
	return &PostgresBatch{db: p.db}
}

// IteratePrefix iterates over all keys with the given prefix
func (p *PostgresProvider) IteratePrefix(prefix []byte, fn func(key, value []byte) bool) error {
	return p.IterateRange(prefix, PrefixLimit(prefix), fn)
}

// IterateRange iterates over keys in [start, limit) in ascending order
func (p *PostgresProvider) IterateRange(start, limit []byte, fn func(key, value []byte) bool) error {
	var (
		rows *sql.Rows
		err  error
	)
	if limit == nil {
		rows, err = p.db.Query(`SELECT key, value FROM kv_store WHERE key >= $1 ORDER BY key`, start)
	} else {
		rows, err = p.db.Query(`SELECT key, value FROM kv_store WHERE key >= $1 AND key < $2 ORDER BY key`, start, limit)
	}
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		if !fn(key, value) {
			return nil
		}
	}
	return rows.Err()
}

// PostgresBatch implements DatabaseBatch for Postgres
type PostgresBatch struct {
	db  *sql.DB
	ops []batchOp
}

// Put adds a key-value pair to the batch
func (b *PostgresBatch) Put(key, value []byte) {
	b.ops = append(b.ops, putOp(key, value))
}

// Delete adds a deletion to the batch
func (b *PostgresBatch) Delete(key []byte) {
	b.ops = append(b.ops, deleteOp(key))
}

// Write commits all operations in the batch
func (b *PostgresBatch) Write() error {
	if len(b.ops) == 0 {
		return nil
	}
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	for _, op := range b.ops {
		if op.delete {
			_, err = tx.Exec(`DELETE FROM kv_store WHERE key = $1`, op.key)
		} else {
			_, err = tx.Exec(postgresUpsert, op.key, op.value)
		}
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Reset clears the batch
func (b *PostgresBatch) Reset() {
	b.ops = b.ops[:0]
}

// Close releases batch resources
func (b *PostgresBatch) Close() {
	b.ops = nil
}

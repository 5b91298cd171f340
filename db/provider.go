package db

// DatabaseProvider abstracts the low-level key-value operations the ledger
// stores are built on, so they can work with different database backends
// without knowing the specific implementation details.
type DatabaseProvider interface {
	// Get retrieves a value by key, returning nil when the key is absent
	Get(key []byte) ([]byte, error)

	// GetBatch retrieves multiple values by keys in a single operation.
	// Missing keys are left out of the result.
	GetBatch(keys [][]byte) (map[string][]byte, error)

	// Put stores a key-value pair
	Put(key, value []byte) error

	// Delete removes a key-value pair
	Delete(key []byte) error

	// Has checks if a key exists
	Has(key []byte) (bool, error)

	// Close closes the database connection
	Close() error

	// Batch returns a new batch for atomic operations
	Batch() DatabaseBatch
}

// IterableProvider extends DatabaseProvider with ordered iteration.
// Keys are visited in ascending byte order.
type IterableProvider interface {
	DatabaseProvider

	// IteratePrefix iterates over all key-value pairs with the given prefix.
	// The callback function should return false to stop iteration
	IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error

	// IterateRange iterates over keys in [start, limit). A nil limit means
	// no upper bound.
	IterateRange(start, limit []byte, callback func(key, value []byte) bool) error
}

// DatabaseBatch provides atomic batch operations
type DatabaseBatch interface {
	// Put adds a key-value pair to the batch
	Put(key, value []byte)

	// Delete adds a deletion to the batch
	Delete(key []byte)

	// Write commits all operations in the batch
	Write() error

	// Reset clears the batch
	Reset()

	// Close releases batch resources
	Close()
}

// PrefixLimit returns the smallest key greater than every key starting with
// prefix, or nil when no such key exists (prefix is all 0xff).
func PrefixLimit(prefix []byte) []byte {
	limit := make([]byte, len(prefix))
	copy(limit, prefix)
	for i := len(limit) - 1; i >= 0; i-- {
		if limit[i] < 0xff {
			limit[i]++
			return limit[:i+1]
		}
	}
	return nil
}

// inRange reports whether key lies in [start, limit).
func inRange(key, start, limit []byte) bool {
	if string(key) < string(start) {
		return false
	}
	return limit == nil || string(key) < string(limit)
}

// batchOp is one buffered write for providers without a native batch type.
type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

func putOp(key, value []byte) batchOp {
	return batchOp{key: append([]byte(nil), key...), value: append([]byte(nil), value...)}
}

func deleteOp(key []byte) batchOp {
	return batchOp{key: append([]byte(nil), key...), delete: true}
}

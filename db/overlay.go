package db

import (
	"sort"
	"sync"
)

type overlayEntry struct {
	value   []byte
	deleted bool
}

// Overlay is a write buffer over a base provider. Reads fall through to the
// base for keys the overlay has not touched, iteration merges both, and
// nothing reaches the base until Commit applies every buffered write as a
// single batch. Discarding an Overlay leaves the base untouched.
type Overlay struct {
	base    IterableProvider
	mu      sync.RWMutex
	entries map[string]overlayEntry
}

// NewOverlay returns an empty overlay over base
func NewOverlay(base IterableProvider) *Overlay {
	return &Overlay{
		base:    base,
		entries: make(map[string]overlayEntry),
	}
}

// Base returns the provider the overlay reads through to
func (o *Overlay) Base() IterableProvider {
	return o.base
}

func (o *Overlay) lookup(key []byte) (overlayEntry, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	e, ok := o.entries[string(key)]
	return e, ok
}

// Get returns the buffered value for key, falling back to the base
func (o *Overlay) Get(key []byte) ([]byte, error) {
	if e, ok := o.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return append([]byte(nil), e.value...), nil
	}
	return o.base.Get(key)
}

// GetBatch resolves each key through Get
func (o *Overlay) GetBatch(keys [][]byte) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		value, err := o.Get(key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			result[string(key)] = value
		}
	}
	return result, nil
}

// Put buffers a write
func (o *Overlay) Put(key, value []byte) error {
	o.mu.Lock()
	o.entries[string(key)] = overlayEntry{value: append([]byte(nil), value...)}
	o.mu.Unlock()
	return nil
}

// Delete buffers a deletion
func (o *Overlay) Delete(key []byte) error {
	o.mu.Lock()
	o.entries[string(key)] = overlayEntry{deleted: true}
	o.mu.Unlock()
	return nil
}

// Has reports whether key exists in the merged view
func (o *Overlay) Has(key []byte) (bool, error) {
	if e, ok := o.lookup(key); ok {
		return !e.deleted, nil
	}
	return o.base.Has(key)
}

// Close drops buffered writes. The base provider stays open.
func (o *Overlay) Close() error {
	o.Discard()
	return nil
}

// Batch returns a batch whose Write lands in the overlay, not the base
func (o *Overlay) Batch() DatabaseBatch {
	return &overlayBatch{overlay: o}
}

// IteratePrefix iterates the merged view over all keys with prefix
func (o *Overlay) IteratePrefix(prefix []byte, fn func(key, value []byte) bool) error {
	return o.IterateRange(prefix, PrefixLimit(prefix), fn)
}

// IterateRange iterates the merged view over [start, limit) in byte order.
// Buffered values shadow base values; buffered deletions hide them.
func (o *Overlay) IterateRange(start, limit []byte, fn func(key, value []byte) bool) error {
	o.mu.RLock()
	pending := make([]string, 0)
	for k := range o.entries {
		if inRange([]byte(k), start, limit) {
			pending = append(pending, k)
		}
	}
	sort.Strings(pending)
	shadow := make(map[string]overlayEntry, len(pending))
	for _, k := range pending {
		shadow[k] = o.entries[k]
	}
	o.mu.RUnlock()

	stopped := false
	next := 0
	emitPending := func(upTo string, inclusive bool) {
		for next < len(pending) && !stopped {
			k := pending[next]
			if k > upTo || (k == upTo && !inclusive) {
				return
			}
			next++
			e := shadow[k]
			if e.deleted {
				continue
			}
			if !fn([]byte(k), e.value) {
				stopped = true
			}
		}
	}

	err := o.base.IterateRange(start, limit, func(key, value []byte) bool {
		k := string(key)
		emitPending(k, false)
		if stopped {
			return false
		}
		if _, ok := shadow[k]; ok {
			// buffered entry for the same key wins
			emitPending(k, true)
			return !stopped
		}
		if !fn(key, value) {
			stopped = true
		}
		return !stopped
	})
	if err != nil {
		return err
	}

	for next < len(pending) && !stopped {
		k := pending[next]
		next++
		e := shadow[k]
		if e.deleted {
			continue
		}
		if !fn([]byte(k), e.value) {
			stopped = true
		}
	}
	return nil
}

// Len returns the number of buffered writes and deletions
func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}

// Discard drops every buffered write
func (o *Overlay) Discard() {
	o.mu.Lock()
	o.entries = make(map[string]overlayEntry)
	o.mu.Unlock()
}

// Commit applies every buffered write to the base in one batch and clears
// the overlay. On failure the overlay keeps its entries.
func (o *Overlay) Commit() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.entries) == 0 {
		return nil
	}

	keys := make([]string, 0, len(o.entries))
	for k := range o.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	batch := o.base.Batch()
	defer batch.Close()
	for _, k := range keys {
		e := o.entries[k]
		if e.deleted {
			batch.Delete([]byte(k))
		} else {
			batch.Put([]byte(k), e.value)
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	o.entries = make(map[string]overlayEntry)
	return nil
}

type overlayBatch struct {
	overlay *Overlay
	ops     []batchOp
}

func (b *overlayBatch) Put(key, value []byte) {
	b.ops = append(b.ops, putOp(key, value))
}

func (b *overlayBatch) Delete(key []byte) {
	b.ops = append(b.ops, deleteOp(key))
}

func (b *overlayBatch) Write() error {
	for _, op := range b.ops {
		if op.delete {
			b.overlay.Delete(op.key)
		} else {
			b.overlay.Put(op.key, op.value)
		}
	}
	b.ops = nil
	return nil
}

func (b *overlayBatch) Reset() { b.ops = b.ops[:0] }

func (b *overlayBatch) Close() { b.ops = nil }

package repositories

import (
	"context"
	"errors"
	"sync"
)

type memoryRecord struct {
	data    []byte
	version int64
}

// MemoryRecordStore is an in-memory implementation of RecordStore.
type MemoryRecordStore struct {
	records map[string]memoryRecord
	mu      sync.RWMutex
	feed    changeFeed
}

// NewMemoryRecordStore creates a new instance of MemoryRecordStore.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		records: make(map[string]memoryRecord),
	}
}

func memoryKey(namespace string, collection Collection) string {
	return namespace + "/" + string(collection)
}

// Get returns the stored collection.
func (s *MemoryRecordStore) Get(ctx context.Context, namespace string, collection Collection) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[memoryKey(namespace, collection)]
	if !ok {
		return Snapshot{}, nil
	}
	return Snapshot{Data: append([]byte(nil), rec.data...), Version: rec.version}, nil
}

// Set overwrites the collection.
func (s *MemoryRecordStore) Set(ctx context.Context, namespace string, collection Collection, data []byte) (int64, error) {
	return s.Update(ctx, namespace, collection, func([]byte) ([]byte, error) {
		return data, nil
	})
}

// Update applies fn to the collection while holding the write lock.
func (s *MemoryRecordStore) Update(ctx context.Context, namespace string, collection Collection, fn UpdateFunc) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	key := memoryKey(namespace, collection)

	s.mu.Lock()
	rec, ok := s.records[key]
	var current []byte
	if ok {
		current = append([]byte(nil), rec.data...)
	}
	next, err := fn(current)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, ErrSkipWrite) {
			return rec.version, nil
		}
		return 0, err
	}
	rec = memoryRecord{data: append([]byte(nil), next...), version: rec.version + 1}
	s.records[key] = rec
	s.mu.Unlock()

	s.feed.publish(ChangeEvent{Namespace: namespace, Collection: collection, Version: rec.version})
	return rec.version, nil
}

// Delete removes the collection. Deleting a missing key is not an error.
func (s *MemoryRecordStore) Delete(ctx context.Context, namespace string, collection Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := memoryKey(namespace, collection)

	s.mu.Lock()
	_, ok := s.records[key]
	delete(s.records, key)
	s.mu.Unlock()

	if ok {
		s.feed.publish(ChangeEvent{Namespace: namespace, Collection: collection, Deleted: true})
	}
	return nil
}

// Subscribe registers a change listener.
func (s *MemoryRecordStore) Subscribe(listener ChangeListener) func() {
	return s.feed.subscribe(listener)
}

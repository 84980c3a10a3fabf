package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MemoryStore is a process-local backend. Used by tests and as a throwaway
// store; data does not survive the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append(json.RawMessage(nil), v...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append(json.RawMessage(nil), value...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// WithTx stages writes in an overlay and merges only the written keys on
// success, so a concurrent write to an unrelated key between snapshot and
// commit is not lost.
func (s *MemoryStore) WithTx(_ context.Context, fn func(tx Store) error) error {
	tx := &memoryTxStore{base: s, writes: map[string]json.RawMessage{}}
	if err := fn(tx); err != nil {
		return err
	}
	s.mu.Lock()
	for k, v := range tx.writes {
		s.data[k] = v
	}
	s.mu.Unlock()
	return nil
}

// memoryTxStore overlays staged writes on the base store: reads see the
// transaction's own writes first, then the live data.
type memoryTxStore struct {
	base   *MemoryStore
	writes map[string]json.RawMessage
}

func (s *memoryTxStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	if v, ok := s.writes[key]; ok {
		return append(json.RawMessage(nil), v...), true, nil
	}
	return s.base.Get(ctx, key)
}

func (s *memoryTxStore) Set(_ context.Context, key string, value json.RawMessage) error {
	s.writes[key] = append(json.RawMessage(nil), value...)
	return nil
}

func (s *memoryTxStore) Close() error { return errors.New("close inside transaction") }

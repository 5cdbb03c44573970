package localstore

import (
	"context"
	"sync"
)

// Memory is an in-process store. It backs session-scoped flags and tests.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory { return &Memory{m: make(map[string]string)} }

func (s *Memory) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

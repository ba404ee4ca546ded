package memory

import (
	"context"
	"sync"

	"simblissima-pedidos/internal/pedidos/data"
)

// Storage keeps key-value pairs in process memory. It is used when no database is configured.
type Storage struct {
	values map[string]string
	mux    *sync.RWMutex
	txMux  *sync.Mutex
}

func New() *Storage {
	return &Storage{
		values: make(map[string]string),
		mux:    &sync.RWMutex{},
		txMux:  &sync.Mutex{},
	}
}

func (s *Storage) Get(_ context.Context, key string) (string, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", data.ErrNoValue
	}
	return value, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.values[key] = value
	return nil
}

// DoWithTransaction serializes f against every other transaction on this storage.
// There is no rollback: writes made by f before it fails are kept.
func (s *Storage) DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	s.txMux.Lock()
	defer s.txMux.Unlock()
	return f(ctx)
}

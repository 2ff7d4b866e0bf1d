// FilePath: internal/repository/memory/memory.kv.go
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/beemind/hub/internal/repository"
)

type item struct {
	value   string
	expires time.Time // zero = no ttl
}

// KVStore keeps the local state in process memory. It is the default backend
// and the one tests run against.
type KVStore struct {
	mu   sync.Mutex
	data map[string]item
	now  func() time.Time
}

func NewKVStore() *KVStore {
	return &KVStore{
		data: make(map[string]item),
		now:  time.Now,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.data[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	if !it.expires.IsZero() && s.now().After(it.expires) {
		delete(s.data, key)
		return "", repository.ErrNotFound
	}
	return it.value, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.data[key] = item{value: value, expires: exp}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *KVStore) Close() error {
	return nil
}

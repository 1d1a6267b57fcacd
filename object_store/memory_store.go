package object_store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/turbot/tailpipe-sales-etl/types"
)

const MemoryStoreIdentifier = "memory"

// MemoryStore is an in-memory ObjectStore which records every call made to it.
// It is used in place of a real bucket when running without network access.
type MemoryStore struct {
	mut     sync.Mutex
	objects map[types.ObjectLocation][]byte

	GetCalls []types.ObjectLocation
	PutCalls []types.ObjectLocation
	// if set, returned from every Get / Put
	GetErr error
	PutErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[types.ObjectLocation][]byte)}
}

func (s *MemoryStore) Identifier() string {
	return MemoryStoreIdentifier
}

func (s *MemoryStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	loc := types.NewObjectLocation(bucket, key)
	s.GetCalls = append(s.GetCalls, loc)
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	data, ok := s.objects[loc]
	if !ok {
		return nil, fmt.Errorf("object %s, %w", loc, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Put(_ context.Context, bucket, key string, data []byte) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	loc := types.NewObjectLocation(bucket, key)
	s.PutCalls = append(s.PutCalls, loc)
	if s.PutErr != nil {
		return s.PutErr
	}
	s.objects[loc] = append([]byte(nil), data...)
	return nil
}

// Seed stores an object without recording a call
func (s *MemoryStore) Seed(bucket, key string, data []byte) {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.objects[types.NewObjectLocation(bucket, key)] = data
}

// Object returns the stored bytes for a location
func (s *MemoryStore) Object(bucket, key string) ([]byte, bool) {
	s.mut.Lock()
	defer s.mut.Unlock()

	data, ok := s.objects[types.NewObjectLocation(bucket, key)]
	return data, ok
}

// CallCount returns the total number of Get and Put calls
func (s *MemoryStore) CallCount() int {
	s.mut.Lock()
	defer s.mut.Unlock()

	return len(s.GetCalls) + len(s.PutCalls)
}

// Copyright 2024 The Solaris Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cached

import (
	"context"

	"github.com/logrange/linker"
	"github.com/solarisdb/commons/golibs/container/lru"
	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/kvs"
)

type (
	// Storage wraps kvs.Storage and keeps the recently read records
	// in the LRU cache. The cached records are dropped on any write
	// to the record key made via the Storage.
	Storage struct {
		storage kvs.Storage
		records *lru.Cache[string, kvs.Record]
	}
)

// DefaultCacheSize is the number of records kept by the Storage if no size is specified
const DefaultCacheSize = 1000

var _ kvs.Storage = (*Storage)(nil)

// New wraps the storage into the cache of the size provided. The size 0 turns
// the caching off.
func New(storage kvs.Storage, size int) (*Storage, error) {
	s := &Storage{storage: storage}
	var err error
	s.records, err = lru.NewCache(size, func(key string) (kvs.Record, error) {
		return storage.Get(context.Background(), key)
	}, nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Init implements linker.Initializer
func (s *Storage) Init(ctx context.Context) error {
	if init, ok := s.storage.(linker.Initializer); ok {
		return init.Init(ctx)
	}
	return nil
}

// Shutdown implements linker.Shutdowner
func (s *Storage) Shutdown() {
	s.records.Clear()
	if shut, ok := s.storage.(linker.Shutdowner); ok {
		shut.Shutdown()
	}
}

// Create implements kvs.Storage
func (s *Storage) Create(ctx context.Context, record kvs.Record) (string, error) {
	ver, err := s.storage.Create(ctx, record)
	if err != nil {
		return "", err
	}
	s.records.Remove(record.Key)
	return ver, nil
}

// Get implements kvs.Storage
func (s *Storage) Get(ctx context.Context, key string) (kvs.Record, error) {
	if err := ctx.Err(); err != nil {
		return kvs.Record{}, err
	}
	r, err := s.records.GetOrCreate(key)
	if err != nil {
		return kvs.Record{}, err
	}
	return r.Copy(), nil
}

// GetMany implements kvs.Storage. The records are read one by one through the cache.
func (s *Storage) GetMany(ctx context.Context, keys ...string) ([]*kvs.Record, error) {
	res := make([]*kvs.Record, len(keys))
	for idx, key := range keys {
		r, err := s.Get(ctx, key)
		if errors.Is(err, errors.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		res[idx] = &r
	}
	return res, nil
}

// Put implements kvs.Storage
func (s *Storage) Put(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	defer s.records.Remove(record.Key)
	return s.storage.Put(ctx, record)
}

// PutMany implements kvs.Storage
func (s *Storage) PutMany(ctx context.Context, records []kvs.Record) error {
	defer func() {
		for _, r := range records {
			s.records.Remove(r.Key)
		}
	}()
	return s.storage.PutMany(ctx, records)
}

// CasByVersion implements kvs.Storage
func (s *Storage) CasByVersion(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	defer s.records.Remove(record.Key)
	return s.storage.CasByVersion(ctx, record)
}

// Delete implements kvs.Storage
func (s *Storage) Delete(ctx context.Context, key string) error {
	defer s.records.Remove(key)
	return s.storage.Delete(ctx, key)
}

// ListKeys implements kvs.Storage
func (s *Storage) ListKeys(ctx context.Context, pattern string) ([]string, error) {
	return s.storage.ListKeys(ctx, pattern)
}

// Len returns the number of cached records
func (s *Storage) Len() int {
	return s.records.Len()
}

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

package inmem

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gobwas/glob"
	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/kvs"
	"github.com/solarisdb/commons/golibs/ulidutils"
)

type (
	service struct {
		lock sync.Mutex
		recs map[string]kvs.Record
	}
)

// New returns new kvs.Storage in memory
func New() kvs.Storage {
	res := new(service)
	res.recs = make(map[string]kvs.Record)
	return res
}

func (s *service) Create(ctx context.Context, record kvs.Record) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.recs[record.Key]; ok {
		return "", fmt.Errorf("record with key %q: %w", record.Key, errors.ErrExist)
	}
	record = record.Copy()
	record.Version = ulidutils.NewID()
	s.recs[record.Key] = record
	return record.Version, nil
}

func (s *service) Get(ctx context.Context, key string) (kvs.Record, error) {
	if ctx.Err() != nil {
		return kvs.Record{}, ctx.Err()
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	r, ok := s.recs[key]
	if !ok {
		return kvs.Record{}, fmt.Errorf("record with key %q: %w", key, errors.ErrNotExist)
	}
	return r.Copy(), nil
}

func (s *service) Put(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	if ctx.Err() != nil {
		return kvs.Record{}, ctx.Err()
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.put(record), nil
}

func (s *service) PutMany(ctx context.Context, records []kvs.Record) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, r := range records {
		s.put(r)
	}
	return nil
}

func (s *service) GetMany(ctx context.Context, keys ...string) ([]*kvs.Record, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	res := make([]*kvs.Record, len(keys))
	for idx, key := range keys {
		r, ok := s.recs[key]
		if !ok {
			continue
		}
		r = r.Copy()
		res[idx] = &r
	}
	return res, nil
}

func (s *service) CasByVersion(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	if ctx.Err() != nil {
		return kvs.Record{}, ctx.Err()
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	r, ok := s.recs[record.Key]
	if !ok {
		return kvs.Record{}, fmt.Errorf("record with key %q: %w", record.Key, errors.ErrNotExist)
	}
	if r.Version != record.Version {
		return kvs.Record{}, fmt.Errorf("record %q version %s, but expected %s: %w", record.Key, r.Version, record.Version, errors.ErrConflict)
	}
	return s.put(record), nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.recs[key]; !ok {
		return fmt.Errorf("record with key %q: %w", key, errors.ErrNotExist)
	}
	delete(s.recs, key)
	return nil
}

func (s *service) ListKeys(ctx context.Context, pattern string) ([]string, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("could not compile the pattern %q: %w", pattern, errors.ErrInvalid)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	res := []string{}
	for k := range s.recs {
		if g.Match(k) {
			res = append(res, k)
		}
	}
	slices.Sort(res)
	return res, nil
}

func (s *service) put(record kvs.Record) kvs.Record {
	record = record.Copy()
	record.Version = ulidutils.NewID()
	s.recs[record.Key] = record
	return record.Copy()
}

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
	"sync/atomic"
	"testing"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/kvs"
	"github.com/solarisdb/commons/golibs/kvs/buntdb"
	"github.com/solarisdb/commons/golibs/kvs/inmem"
	"github.com/solarisdb/commons/golibs/kvs/kvstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStorage struct {
	kvs.Storage
	gets atomic.Int32
}

func (cs *countingStorage) Get(ctx context.Context, key string) (kvs.Record, error) {
	cs.gets.Add(1)
	return cs.Storage.Get(ctx, key)
}

func TestStorage(t *testing.T) {
	kvstest.RunAll(t, func(t *testing.T) kvs.Storage {
		s, err := New(inmem.New(), 10)
		require.Nil(t, err)
		return s
	})
}

func TestStorage_ReadThrough(t *testing.T) {
	ctx := context.Background()
	cs := &countingStorage{Storage: inmem.New()}
	s, err := New(cs, 2)
	require.Nil(t, err)

	_, err = s.Create(ctx, kvs.Record{Key: "a", Value: []byte("1")})
	require.Nil(t, err)
	for i := 0; i < 3; i++ {
		r, err := s.Get(ctx, "a")
		require.Nil(t, err)
		assert.Equal(t, "1", string(r.Value))
	}
	assert.Equal(t, int32(1), cs.gets.Load())
	assert.Equal(t, 1, s.Len())

	_, err = s.Put(ctx, kvs.Record{Key: "a", Value: []byte("2")})
	require.Nil(t, err)
	assert.Equal(t, 0, s.Len())
	r, err := s.Get(ctx, "a")
	require.Nil(t, err)
	assert.Equal(t, "2", string(r.Value))
	assert.Equal(t, int32(2), cs.gets.Load())

	require.Nil(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, errors.ErrNotExist)
	assert.Equal(t, 0, s.Len())
}

func TestStorage_Bounded(t *testing.T) {
	ctx := context.Background()
	cs := &countingStorage{Storage: inmem.New()}
	s, err := New(cs, 2)
	require.Nil(t, err)
	require.Nil(t, cs.PutMany(ctx, []kvs.Record{{Key: "a"}, {Key: "b"}, {Key: "c"}}))

	for _, k := range []string{"a", "b", "c", "a"} {
		_, err := s.Get(ctx, k)
		require.Nil(t, err)
	}
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, int32(4), cs.gets.Load())
}

func TestStorage_CachedCopy(t *testing.T) {
	ctx := context.Background()
	s, err := New(inmem.New(), 2)
	require.Nil(t, err)
	_, err = s.Put(ctx, kvs.Record{Key: "a", Value: []byte("abc")})
	require.Nil(t, err)
	r, err := s.Get(ctx, "a")
	require.Nil(t, err)
	r.Value[0] = 'x'
	r, err = s.Get(ctx, "a")
	require.Nil(t, err)
	assert.Equal(t, "abc", string(r.Value))
}

func TestStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := New(buntdb.New(buntdb.Config{}), DefaultCacheSize)
	require.Nil(t, err)
	require.Nil(t, s.Init(ctx))
	_, err = s.Put(ctx, kvs.Record{Key: "a"})
	assert.Nil(t, err)
	s.Shutdown()
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, errors.ErrClosed)
}

func TestStorage_InvalidSize(t *testing.T) {
	_, err := New(inmem.New(), -1)
	assert.ErrorIs(t, err, errors.ErrInvalid)
}

type pausingStorage struct {
	kvs.Storage
	read    chan struct{}
	release chan struct{}
	paused  atomic.Bool
}

// Get pauses once, after the record is read from the underlying storage.
func (ps *pausingStorage) Get(ctx context.Context, key string) (kvs.Record, error) {
	r, err := ps.Storage.Get(ctx, key)
	if ps.paused.CompareAndSwap(false, true) {
		close(ps.read)
		<-ps.release
	}
	return r, err
}

func TestStorage_PutWhileLoading(t *testing.T) {
	ctx := context.Background()
	ps := &pausingStorage{Storage: inmem.New(), read: make(chan struct{}), release: make(chan struct{})}
	s, err := New(ps, 10)
	require.Nil(t, err)

	_, err = ps.Storage.Create(ctx, kvs.Record{Key: "a", Value: []byte("v1")})
	require.Nil(t, err)

	res := make(chan kvs.Record)
	go func() {
		r, _ := s.Get(ctx, "a")
		res <- r
	}()
	<-ps.read
	_, err = s.Put(ctx, kvs.Record{Key: "a", Value: []byte("v2")})
	require.Nil(t, err)
	close(ps.release)
	assert.Equal(t, "v1", string((<-res).Value))

	r, err := s.Get(ctx, "a")
	require.Nil(t, err)
	assert.Equal(t, "v2", string(r.Value))
}

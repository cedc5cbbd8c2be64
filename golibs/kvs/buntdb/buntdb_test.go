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

package buntdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/kvs"
	"github.com/solarisdb/commons/golibs/kvs/kvstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	kvstest.RunAll(t, func(t *testing.T) kvs.Storage {
		return getStorage(context.Background(), t, Config{})
	})
}

func TestStorage_File(t *testing.T) {
	ctx := context.Background()
	cfg := Config{DBFilePath: filepath.Join(t.TempDir(), "kvs.db")}
	s := New(cfg)
	require.Nil(t, s.Init(ctx))
	r, err := s.Put(ctx, kvs.Record{Key: "a", Value: []byte("b")})
	require.Nil(t, err)
	s.Shutdown()

	s = getStorage(ctx, t, cfg)
	r1, err := s.Get(ctx, "a")
	require.Nil(t, err)
	assert.Equal(t, r, r1)
}

func TestStorage_Closed(t *testing.T) {
	ctx := context.Background()
	s := New(Config{})
	require.Nil(t, s.Init(ctx))
	s.Shutdown()
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, errors.ErrClosed)
}

func getStorage(ctx context.Context, t *testing.T, cfg Config) *Storage {
	s := New(cfg)
	require.Nil(t, s.Init(ctx))
	t.Cleanup(s.Shutdown)
	return s
}

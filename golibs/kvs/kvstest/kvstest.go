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

// Package kvstest contains the checks every kvs.Storage implementation must pass.
package kvstest

import (
	"context"
	"testing"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/kvs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewStorageF returns an empty storage for one test
type NewStorageF func(t *testing.T) kvs.Storage

// RunAll runs all the storage checks as subtests
func RunAll(t *testing.T, newF NewStorageF) {
	t.Run("Create", func(t *testing.T) { CheckCreate(t, newF(t)) })
	t.Run("Get", func(t *testing.T) { CheckGet(t, newF(t)) })
	t.Run("Put", func(t *testing.T) { CheckPut(t, newF(t)) })
	t.Run("PutMany", func(t *testing.T) { CheckPutMany(t, newF(t)) })
	t.Run("GetMany", func(t *testing.T) { CheckGetMany(t, newF(t)) })
	t.Run("CasByVersion", func(t *testing.T) { CheckCasByVersion(t, newF(t)) })
	t.Run("Delete", func(t *testing.T) { CheckDelete(t, newF(t)) })
	t.Run("ListKeys", func(t *testing.T) { CheckListKeys(t, newF(t)) })
}

func CheckCreate(t *testing.T, s kvs.Storage) {
	ctx := context.Background()
	r := kvs.Record{Key: "aa", Value: []byte("v1"), Version: "ignored"}
	v, err := s.Create(ctx, r)
	require.Nil(t, err)
	assert.NotEmpty(t, v)
	assert.NotEqual(t, r.Version, v)

	_, err = s.Create(ctx, r)
	assert.ErrorIs(t, err, errors.ErrExist)

	r1, err := s.Get(ctx, "aa")
	require.Nil(t, err)
	assert.Equal(t, "v1", string(r1.Value))
	assert.Equal(t, v, r1.Version)
}

func CheckGet(t *testing.T, s kvs.Storage) {
	ctx := context.Background()
	_, err := s.Get(ctx, "aa")
	assert.ErrorIs(t, err, errors.ErrNotExist)

	v, err := s.Create(ctx, kvs.Record{Key: "aa", Value: []byte("bbbb")})
	require.Nil(t, err)
	r, err := s.Get(ctx, "aa")
	require.Nil(t, err)
	assert.Equal(t, kvs.Record{Key: "aa", Value: []byte("bbbb"), Version: v}, r)
}

func CheckPut(t *testing.T, s kvs.Storage) {
	ctx := context.Background()
	r := kvs.Record{Key: "aa", Value: []byte("a")}
	r1, err := s.Put(ctx, r)
	require.Nil(t, err)
	assert.NotEqual(t, r.Version, r1.Version)
	r.Version = r1.Version
	assert.Equal(t, r, r1)

	r2, err := s.Get(ctx, "aa")
	require.Nil(t, err)
	assert.Equal(t, r1, r2)

	r2.Value = []byte("ddd")
	r3, err := s.Put(ctx, r2)
	require.Nil(t, err)
	assert.NotEqual(t, r2.Version, r3.Version)
	r4, err := s.Get(ctx, "aa")
	require.Nil(t, err)
	assert.Equal(t, "ddd", string(r4.Value))
	assert.Equal(t, r3.Version, r4.Version)
}

func CheckPutMany(t *testing.T, s kvs.Storage) {
	ctx := context.Background()
	err := s.PutMany(ctx, []kvs.Record{{Key: "aa", Value: []byte("aa1")}, {Key: "bb", Value: []byte("bb1")}})
	require.Nil(t, err)
	r, err := s.Get(ctx, "aa")
	require.Nil(t, err)
	assert.Equal(t, "aa1", string(r.Value))
	assert.NotEmpty(t, r.Version)
	r, err = s.Get(ctx, "bb")
	require.Nil(t, err)
	assert.Equal(t, "bb1", string(r.Value))
}

func CheckGetMany(t *testing.T, s kvs.Storage) {
	ctx := context.Background()
	require.Nil(t, s.PutMany(ctx, []kvs.Record{{Key: "aaa", Value: []byte("bbbb")}, {Key: "aaa1", Value: []byte("bbbb1")}}))

	recs, err := s.GetMany(ctx, "aaa", "nope", "aaa1")
	require.Nil(t, err)
	require.Len(t, recs, 3)
	require.NotNil(t, recs[0])
	assert.Equal(t, "aaa", recs[0].Key)
	assert.Equal(t, "bbbb", string(recs[0].Value))
	assert.Nil(t, recs[1])
	require.NotNil(t, recs[2])
	assert.Equal(t, "bbbb1", string(recs[2].Value))
}

func CheckCasByVersion(t *testing.T, s kvs.Storage) {
	ctx := context.Background()
	r := kvs.Record{Key: "aa"}
	_, err := s.CasByVersion(ctx, r)
	assert.ErrorIs(t, err, errors.ErrNotExist)

	v, err := s.Create(ctx, r)
	require.Nil(t, err)

	r.Value = []byte("ddd")
	r.Version = v
	r2, err := s.CasByVersion(ctx, r)
	require.Nil(t, err)
	assert.Equal(t, r.Value, r2.Value)
	assert.NotEqual(t, v, r2.Version)

	_, err = s.CasByVersion(ctx, r)
	assert.ErrorIs(t, err, errors.ErrConflict)

	r3, err := s.Get(ctx, "aa")
	require.Nil(t, err)
	assert.Equal(t, r2.Version, r3.Version)
}

func CheckDelete(t *testing.T, s kvs.Storage) {
	ctx := context.Background()
	_, err := s.Create(ctx, kvs.Record{Key: "aa"})
	require.Nil(t, err)

	assert.Nil(t, s.Delete(ctx, "aa"))
	assert.ErrorIs(t, s.Delete(ctx, "aa"), errors.ErrNotExist)
	_, err = s.Get(ctx, "aa")
	assert.ErrorIs(t, err, errors.ErrNotExist)
}

func CheckListKeys(t *testing.T, s kvs.Storage) {
	ctx := context.Background()
	for _, k := range []string{"key1", "key2", "aaa", "ee", "ey"} {
		_, err := s.Create(ctx, kvs.Record{Key: k, Value: []byte(k)})
		require.Nil(t, err)
	}

	res, err := s.ListKeys(ctx, "*")
	require.Nil(t, err)
	assert.Equal(t, []string{"aaa", "ee", "ey", "key1", "key2"}, res)

	res, err = s.ListKeys(ctx, "k*")
	require.Nil(t, err)
	assert.Equal(t, []string{"key1", "key2"}, res)

	res, err = s.ListKeys(ctx, "*ey*")
	require.Nil(t, err)
	assert.Equal(t, []string{"ey", "key1", "key2"}, res)

	res, err = s.ListKeys(ctx, "e?")
	require.Nil(t, err)
	assert.Equal(t, []string{"ee", "ey"}, res)

	res, err = s.ListKeys(ctx, "ddd")
	require.Nil(t, err)
	assert.Empty(t, res)
}

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

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/solarisdb/commons/golibs/cast"
	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/kvs"
	"github.com/solarisdb/commons/golibs/logging"
	"github.com/solarisdb/commons/golibs/ulidutils"
)

type (
	client struct {
		rdb    *redis.Client
		logger logging.Logger
	}

	// Storage is the kvs.Storage over a Redis server. Shutdown closes the connections.
	Storage interface {
		kvs.Storage
		Shutdown()
	}

	dbRecord struct {
		Value   []byte `json:"value,omitempty"`
		Version string `json:"version"`
	}
)

const keyPrefix = "/kvs/"

// New returns the Redis storage for the connection options provided.
func New(opts *redis.Options) Storage {
	rdb := redis.NewClient(opts)
	return &client{rdb: rdb, logger: logging.NewLogger("kvs.redis")}
}

func (c *client) Create(ctx context.Context, record kvs.Record) (string, error) {
	record.Version = ulidutils.NewID()
	buf := rec2db(&record)
	ok, err := c.rdb.SetNX(ctx, rKey(record.Key), buf, 0).Result()
	if err != nil {
		return "", checkErr(err)
	}
	if !ok {
		return "", fmt.Errorf("record with key %q: %w", record.Key, errors.ErrExist)
	}
	return record.Version, nil
}

func (c *client) Get(ctx context.Context, key string) (kvs.Record, error) {
	val, err := c.rdb.Get(ctx, rKey(key)).Result()
	if err != nil {
		return kvs.Record{}, checkErr(err)
	}
	return db2rec(key, cast.StringToByteArray(val))
}

func (c *client) GetMany(ctx context.Context, keys ...string) ([]*kvs.Record, error) {
	if len(keys) == 0 {
		return []*kvs.Record{}, nil
	}
	res, err := c.rdb.MGet(ctx, rKeys(keys)...).Result()
	if err != nil {
		return nil, checkErr(err)
	}
	result := make([]*kvs.Record, len(keys))
	for idx, val := range res {
		s, ok := val.(string)
		if !ok {
			continue
		}
		r, err := db2rec(keys[idx], cast.StringToByteArray(s))
		if err != nil {
			return nil, err
		}
		result[idx] = &r
	}
	return result, nil
}

func (c *client) Put(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	record.Version = ulidutils.NewID()
	buf := rec2db(&record)
	_, err := c.rdb.Set(ctx, rKey(record.Key), buf, 0).Result()
	if err != nil {
		return kvs.Record{}, checkErr(err)
	}
	return record, nil
}

func (c *client) PutMany(ctx context.Context, records []kvs.Record) error {
	if len(records) == 0 {
		return nil
	}
	mset := make([]string, 0, len(records)*2)
	for _, r := range records {
		r.Version = ulidutils.NewID()
		mset = append(mset, rKey(r.Key), cast.ByteArrayToString(rec2db(&r)))
	}
	_, err := c.rdb.MSet(ctx, mset).Result()
	return checkErr(err)
}

func (c *client) CasByVersion(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	key := rKey(record.Key)
	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err != nil {
			return checkErr(err)
		}
		r, err := db2rec(record.Key, cast.StringToByteArray(val))
		if err != nil {
			return err
		}
		if r.Version != record.Version {
			return fmt.Errorf("record %q version %s, but expected %s: %w", record.Key, r.Version, record.Version, errors.ErrConflict)
		}
		record.Version = ulidutils.NewID()
		buf := rec2db(&record)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return pipe.Set(ctx, key, buf, 0).Err()
		})
		return err
	}, key)
	if err == redis.TxFailedErr {
		return kvs.Record{}, fmt.Errorf("record %q was changed concurrently: %w", record.Key, errors.ErrConflict)
	}
	if err != nil {
		return kvs.Record{}, checkErr(err)
	}
	return record, nil
}

func (c *client) Delete(ctx context.Context, key string) error {
	cnt, err := c.rdb.Del(ctx, rKey(key)).Result()
	if err != nil {
		return checkErr(err)
	}
	if cnt == 0 {
		return fmt.Errorf("record with key %q: %w", key, errors.ErrNotExist)
	}
	return nil
}

// ListKeys scans the keys with the Redis MATCH pattern built from the pattern provided.
func (c *client) ListKeys(ctx context.Context, pattern string) ([]string, error) {
	res := []string{}
	it := c.rdb.Scan(ctx, 0, rKey(pattern), 1000).Iterator()
	for it.Next(ctx) {
		res = append(res, key(it.Val()))
	}
	if err := it.Err(); err != nil {
		return nil, checkErr(err)
	}
	slices.Sort(res)
	return slices.Compact(res), nil
}

// Shutdown closes the client connections
func (c *client) Shutdown() {
	if err := c.rdb.Close(); err != nil {
		c.logger.Warnf("could not close the client: %v", err)
	}
}

func checkErr(err error) error {
	if err == nil {
		return nil
	}
	if err == redis.Nil {
		return errors.ErrNotExist
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		return err
	}
	return fmt.Errorf("redis: %s: %w", err.Error(), errors.ErrCommunication)
}

func rKeys(keys []string) []string {
	res := make([]string, len(keys))
	for idx, key := range keys {
		res[idx] = rKey(key)
	}
	return res
}

func rKey(key string) string {
	return keyPrefix + strings.TrimLeft(key, "/")
}

func key(rKey string) string {
	return strings.TrimPrefix(rKey, keyPrefix)
}

func rec2db(r *kvs.Record) []byte {
	if r == nil {
		panic("rec2db: record cannot be nil")
	}
	buf, err := json.Marshal(dbRecord{Value: r.Value, Version: r.Version})
	if err != nil {
		panic(fmt.Sprintf("could not marshal record r=%v: %s", r, err))
	}
	return buf
}

func db2rec(key string, buf []byte) (kvs.Record, error) {
	var r dbRecord
	if err := json.Unmarshal(buf, &r); err != nil {
		return kvs.Record{}, fmt.Errorf("could not unmarshal record %q: %s: %w", key, err, errors.ErrDataLoss)
	}
	return kvs.Record{Key: key, Value: r.Value, Version: r.Version}, nil
}

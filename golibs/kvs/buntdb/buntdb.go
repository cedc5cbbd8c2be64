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
	"encoding/json"
	"fmt"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/kvs"
	"github.com/solarisdb/commons/golibs/logging"
	"github.com/solarisdb/commons/golibs/ulidutils"
	"github.com/tidwall/buntdb"
)

type (
	// Config specifies configuration for the key-value storage
	// based on BuntDB https://github.com/tidwall/buntdb
	Config struct {
		// DBFilePath specifies path to the DB file
		// if empty the in-mem version is used
		DBFilePath string
	}

	// Storage implements kvs.Storage over the BuntDB embedded database.
	// The object must be initialized (Init) before use.
	Storage struct {
		cfg    Config
		db     *buntdb.DB
		logger logging.Logger
	}

	entry struct {
		Value   []byte `json:"value,omitempty"`
		Version string `json:"version"`
	}
)

var _ kvs.Storage = (*Storage)(nil)

// New creates new storage based on BuntDB
func New(cfg Config) *Storage {
	return &Storage{cfg: cfg, logger: logging.NewLogger("kvs.buntdb")}
}

// Init implements linker.Initializer
func (s *Storage) Init(ctx context.Context) error {
	path := s.cfg.DBFilePath
	if len(path) == 0 {
		path = ":memory:"
	}
	s.logger.Infof("Initializing with dbFilePath=%s", path)

	var err error
	s.db, err = buntdb.Open(path)
	if err != nil {
		return fmt.Errorf("buntdb.Open(%s) failed: %w", path, err)
	}
	return nil
}

// Shutdown implements linker.Shutdowner
func (s *Storage) Shutdown() {
	s.logger.Infof("Shutting down...")
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Create implements kvs.Storage
func (s *Storage) Create(ctx context.Context, record kvs.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ver := ulidutils.NewID()
	err := s.update(func(tx *buntdb.Tx) error {
		if _, err := tx.Get(record.Key); err == nil {
			return fmt.Errorf("record with key %q: %w", record.Key, errors.ErrExist)
		} else if err != buntdb.ErrNotFound {
			return toError(err)
		}
		_, _, err := tx.Set(record.Key, toEntry(record.Value, ver), nil)
		return toError(err)
	})
	if err != nil {
		return "", err
	}
	return ver, nil
}

// Get implements kvs.Storage
func (s *Storage) Get(ctx context.Context, key string) (kvs.Record, error) {
	if err := ctx.Err(); err != nil {
		return kvs.Record{}, err
	}
	var res kvs.Record
	err := s.view(func(tx *buntdb.Tx) error {
		var err error
		res, err = getRecord(tx, key)
		return err
	})
	return res, err
}

// GetMany implements kvs.Storage
func (s *Storage) GetMany(ctx context.Context, keys ...string) ([]*kvs.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := make([]*kvs.Record, len(keys))
	err := s.view(func(tx *buntdb.Tx) error {
		for idx, key := range keys {
			r, err := getRecord(tx, key)
			if errors.Is(err, errors.ErrNotExist) {
				continue
			}
			if err != nil {
				return err
			}
			res[idx] = &r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Put implements kvs.Storage
func (s *Storage) Put(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	if err := ctx.Err(); err != nil {
		return kvs.Record{}, err
	}
	record.Version = ulidutils.NewID()
	err := s.update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(record.Key, toEntry(record.Value, record.Version), nil)
		return toError(err)
	})
	if err != nil {
		return kvs.Record{}, err
	}
	return record, nil
}

// PutMany implements kvs.Storage, the records are written in one transaction
func (s *Storage) PutMany(ctx context.Context, records []kvs.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(tx *buntdb.Tx) error {
		for _, r := range records {
			if _, _, err := tx.Set(r.Key, toEntry(r.Value, ulidutils.NewID()), nil); err != nil {
				return toError(err)
			}
		}
		return nil
	})
}

// CasByVersion implements kvs.Storage
func (s *Storage) CasByVersion(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	if err := ctx.Err(); err != nil {
		return kvs.Record{}, err
	}
	err := s.update(func(tx *buntdb.Tx) error {
		r, err := getRecord(tx, record.Key)
		if err != nil {
			return err
		}
		if r.Version != record.Version {
			return fmt.Errorf("record %q version %s, but expected %s: %w", record.Key, r.Version, record.Version, errors.ErrConflict)
		}
		record.Version = ulidutils.NewID()
		_, _, err = tx.Set(record.Key, toEntry(record.Value, record.Version), nil)
		return toError(err)
	})
	if err != nil {
		return kvs.Record{}, err
	}
	return record, nil
}

// Delete implements kvs.Storage
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		if err == buntdb.ErrNotFound {
			return fmt.Errorf("record with key %q: %w", key, errors.ErrNotExist)
		}
		return toError(err)
	})
}

// ListKeys implements kvs.Storage. BuntDB iterates the keys in the ascending order
// and matches them with the pattern itself.
func (s *Storage) ListKeys(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := []string{}
	err := s.view(func(tx *buntdb.Tx) error {
		return toError(tx.AscendKeys(pattern, func(key, _ string) bool {
			res = append(res, key)
			return true
		}))
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Storage) view(fn func(tx *buntdb.Tx) error) error {
	return checkClosed(s.db.View(fn))
}

func (s *Storage) update(fn func(tx *buntdb.Tx) error) error {
	return checkClosed(s.db.Update(fn))
}

func checkClosed(err error) error {
	if err == buntdb.ErrDatabaseClosed {
		return toError(err)
	}
	return err
}

func getRecord(tx *buntdb.Tx, key string) (kvs.Record, error) {
	val, err := tx.Get(key)
	if err == buntdb.ErrNotFound {
		return kvs.Record{}, fmt.Errorf("record with key %q: %w", key, errors.ErrNotExist)
	}
	if err != nil {
		return kvs.Record{}, toError(err)
	}
	var e entry
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return kvs.Record{}, fmt.Errorf("could not unmarshal record %q: %s: %w", key, err, errors.ErrDataLoss)
	}
	return kvs.Record{Key: key, Value: e.Value, Version: e.Version}, nil
}

func toEntry(value []byte, version string) string {
	buf, err := json.Marshal(entry{Value: value, Version: version})
	if err != nil {
		panic(fmt.Sprintf("json.Marshal failed: %v", err))
	}
	return string(buf)
}

func toError(err error) error {
	if err == nil {
		return nil
	}
	if err == buntdb.ErrDatabaseClosed {
		return fmt.Errorf("buntdb: %s: %w", err, errors.ErrClosed)
	}
	return fmt.Errorf("buntdb: %s: %w", err, errors.ErrInternal)
}

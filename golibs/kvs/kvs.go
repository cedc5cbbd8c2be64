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

/*
kvs package contains interfaces and structures for working with a key-value storage.
The kvs.Storage can be implemented over a shared storage like Redis, or as an embedded
one (BuntDB) for stand-alone installations. The in-memory implementation is used in tests
and as the default backend of the command line tool.
*/

package kvs

import (
	"context"
	"slices"
)

type (

	// A record that can be stored in a storage
	Record struct {
		// Key is a key for the record
		Key string `json:"key"`
		// Value is a value for the record
		Value []byte `json:"value"`

		// A version that identifies the record. It is managed by the Storage, and
		// it is ignored in Create and update operations
		Version string `json:"version"`
	}

	// Storage interface defines some operations over the record storage.
	// The record storage allows to keep key-value pairs, and supports
	// optimistic updates via the record versions.
	Storage interface {
		// Create adds a new record into the storage. It returns ErrExist
		// if the key already exists in the storage.
		// Create returns version of the new record with error=nil
		Create(ctx context.Context, record Record) (string, error)

		// Get retrieves the record by its key. ErrNotExist is returned if the key
		// is not found in the storage
		Get(ctx context.Context, key string) (Record, error)

		// GetMany retrieves many records at a time. The result has the same length as
		// keys, the missing records are nil
		GetMany(ctx context.Context, keys ...string) ([]*Record, error)

		// Put replaces the record if it exists and write the new one if it doesn't
		// The record version will be updated automatically
		Put(ctx context.Context, record Record) (Record, error)

		// PutMany allows to update multiple records in one call
		PutMany(ctx context.Context, records []Record) error

		// CasByVersion compares-and-sets the record Value if the record stored
		// version is same as in the provided record. The record with the new version
		// is returned.
		//
		// The error will contain the reason if the operation was not successful:
		//   ErrConflict - indicates that the version is different than one is expected
		//   ErrNotExist - indicates that the record does not exist
		CasByVersion(ctx context.Context, record Record) (Record, error)

		// Delete removes the record from the storage by its key. It returns
		// an error if the operation was not successful:
		//   ErrNotExist - indicates that the record does not exist
		Delete(ctx context.Context, key string) error

		// ListKeys returns the sorted list of keys matching the glob-alike pattern
		// ('*' matches any sequence, '?' matches one symbol).
		ListKeys(ctx context.Context, pattern string) ([]string, error)
	}
)

// Copy returns copy of the record r
func (r Record) Copy() Record {
	res := r
	if r.Value != nil {
		res.Value = slices.Clone(r.Value)
	}
	return res
}

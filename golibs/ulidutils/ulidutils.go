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

package ulidutils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/solarisdb/commons/golibs/errors"
)

// New returns new ulid.ULID.
func New() ulid.ULID {
	return ulid.Make()
}

// NewUUID returns new ulid.ULID converted to uuid.UUID.
func NewUUID() uuid.UUID {
	return uuid.UUID(New())
}

// NewID returns new ulid.ULID in string format. The returned ID can be compared
// to any other result returned by the function. An ID returned earlier is less lexicographically
// to the ID returned after the first one.
func NewID() string {
	return New().String()
}

// Time returns the time when the ID was generated by NewID(). The IDs in the UUID
// format (see NewUUID) are accepted as well.
func Time(id string) (time.Time, error) {
	uID, err := ulid.ParseStrict(id)
	if err != nil {
		u, uerr := uuid.Parse(id)
		if uerr != nil {
			return time.Time{}, fmt.Errorf("could not parse ID=%q: %s: %w", id, err, errors.ErrInvalid)
		}
		uID = ulid.ULID(u)
	}
	return ulid.Time(uID.Time()), nil
}

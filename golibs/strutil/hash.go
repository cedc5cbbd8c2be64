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

package strutil

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/solarisdb/commons/golibs/errors"
)

// Hash is a sha256 digest. Its text form is the URL-safe base64 encoding of the digest.
type Hash [sha256.Size]byte

// String returns the base64 (URL encoding) form of the hash
func (h Hash) String() string {
	return base64.URLEncoding.EncodeToString(h[:])
}

// Bytes returns the digest
func (h Hash) Bytes() []byte {
	return h[:]
}

// CreateHash makes the Hash from the digest provided, buf must be sha256.Size bytes long.
func CreateHash(buf []byte) (Hash, error) {
	var h Hash
	if len(buf) != len(h) {
		return h, fmt.Errorf("the hash size should be %d bytes long, but it is %d: %w", len(h), len(buf), errors.ErrInvalid)
	}
	copy(h[:], buf)
	return h, nil
}

// ParseHash is the reverse of Hash.String()
func ParseHash(s string) (Hash, error) {
	buf, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("malformed hash %q: %s: %w", s, err, errors.ErrInvalid)
	}
	return CreateHash(buf)
}

// SumHashes returns the hash of the hashes sequence. The order matters.
func SumHashes(hashes ...Hash) Hash {
	h := sha256.New()
	for _, hsh := range hashes {
		h.Write(hsh[:])
	}
	var res Hash
	h.Sum(res[:0])
	return res
}

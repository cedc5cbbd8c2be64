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
	"testing"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/stretchr/testify/assert"
)

func TestSumHashes(t *testing.T) {
	h := SumHashes()
	assert.Equal(t, Hash(sha256.Sum256(nil)), h)
	h2 := randomHash()
	h3 := randomHash()
	sum := SumHashes(h2, h3)
	assert.NotEqual(t, h, sum)
	assert.Equal(t, sum, SumHashes(h2, h3))
	assert.NotEqual(t, SumHashes(h2, h3), SumHashes(h3, h2))
}

func TestCreateHash(t *testing.T) {
	_, err := CreateHash([]byte{1, 2, 3})
	assert.ErrorIs(t, err, errors.ErrInvalid)
	h2 := randomHash()
	h, err := CreateHash(h2.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, h2, h)
	assert.Equal(t, h2.String(), h.String())
}

func TestCreateHash_Copy(t *testing.T) {
	h2 := randomHash()
	buf := h2.Bytes()
	h, err := CreateHash(buf)
	assert.Nil(t, err)
	buf[0]++
	assert.NotEqual(t, buf, h.Bytes())
}

func TestParseHash(t *testing.T) {
	h := randomHash()
	h2, err := ParseHash(h.String())
	assert.Nil(t, err)
	assert.Equal(t, h, h2)

	_, err = ParseHash("not a hash!")
	assert.ErrorIs(t, err, errors.ErrInvalid)
	_, err = ParseHash("AAAA")
	assert.ErrorIs(t, err, errors.ErrInvalid)
}

func randomHash() Hash {
	return sha256.Sum256([]byte(RandomString(32)))
}

func TestRandomString(t *testing.T) {
	s := RandomString(64)
	assert.Len(t, s, 64)
	for _, c := range s {
		assert.Contains(t, randomAlphabet, string(c))
	}
	assert.NotEqual(t, s, RandomString(64))
	assert.Equal(t, "", RandomString(0))
}

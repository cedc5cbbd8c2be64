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

package cast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	now := time.Now()
	assert.Equal(t, time.Time{}, Value[time.Time](nil, time.Time{}))
	assert.Equal(t, now, Value(Ptr(now), time.Time{}))
	assert.Equal(t, "aaa", Value[string](nil, "aaa"))
	assert.Equal(t, 22, Value(Ptr(22), 23))
}

func TestStringToByteArray(t *testing.T) {
	assert.Nil(t, StringToByteArray(""))
	assert.Equal(t, []byte("abc"), StringToByteArray("abc"))
	assert.Equal(t, "", ByteArrayToString(nil))
	assert.Equal(t, "abc", ByteArrayToString([]byte("abc")))
}

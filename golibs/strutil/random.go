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
	"crypto/rand"
	"math/big"
)

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns a random string of the size length, which consists of the
// latin letters and digits
func RandomString(size int) string {
	if size <= 0 {
		return ""
	}
	res := make([]byte, size)
	al := big.NewInt(int64(len(randomAlphabet)))
	for i := range res {
		n, err := rand.Int(rand.Reader, al)
		if err != nil {
			panic("crypto/rand is not available: " + err.Error())
		}
		res[i] = randomAlphabet[n.Int64()]
	}
	return string(res)
}

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

package files

import (
	"context"
	"testing"
	"time"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/stretchr/testify/assert"
)

func TestExecute(t *testing.T) {
	res, err := Execute(context.Background(), "echo hello; echo oops 1>&2")
	assert.Nil(t, err)
	assert.Equal(t, ExecResult{Status: 0, Out: "hello\n", Err: "oops\n"}, res)

	res, err = Execute(context.Background(), "exit 3")
	assert.Nil(t, err)
	assert.Equal(t, 3, res.Status)

	_, err = Execute(context.Background(), "")
	assert.ErrorIs(t, err, errors.ErrInvalid)
}

func TestExecute_Canceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := Execute(ctx, "sleep 10")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

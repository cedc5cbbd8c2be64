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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	var sb strings.Builder
	pb := NewProgressBar(4, 8, &sb)
	pb.Update()
	assert.Equal(t, "\r[..      ]", sb.String())
	sb.Reset()
	pb.Update()
	pb.Update()
	pb.Update()
	assert.Equal(t, "\r[....    ]\r[......  ]\r[........]", sb.String())
	sb.Reset()
	pb.Update()
	assert.Equal(t, "\r[........]", sb.String())
}

func TestProgressBar_ManyOps(t *testing.T) {
	var sb strings.Builder
	pb := NewProgressBar(100, 4, &sb)
	for i := 0; i < 24; i++ {
		pb.Update()
	}
	assert.Equal(t, "", sb.String())
	pb.Update()
	assert.Equal(t, "\r[.   ]", sb.String())
	sb.Reset()
	pb.Refresh()
	assert.Equal(t, "\r[.   ]", sb.String())
}

func TestWithTempDir(t *testing.T) {
	var tmp string
	err := WithTempDir(func(dir string) error {
		tmp = dir
		createFile(filepath.Join(dir, "f"), "data")
		assert.DirExists(t, dir)
		return errors.ErrCanceled
	})
	assert.ErrorIs(t, err, errors.ErrCanceled)
	assert.NotEmpty(t, tmp)
	_, err = os.Stat(tmp)
	assert.True(t, os.IsNotExist(err))
}

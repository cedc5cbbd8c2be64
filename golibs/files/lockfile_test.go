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
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock(t *testing.T) {
	lf := filepath.Join(t.TempDir(), "test.lock")
	assert.Nil(t, AcquireLock(context.Background(), lf, 1, 0))
	pid, err := LockOwner(lf)
	assert.Nil(t, err)
	assert.Equal(t, os.Getpid(), pid)

	start := time.Now()
	err = AcquireLock(context.Background(), lf, 3, 10*time.Millisecond)
	assert.ErrorIs(t, err, errors.ErrExhausted)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	assert.Nil(t, ReleaseLock(lf))
	assert.ErrorIs(t, ReleaseLock(lf), errors.ErrNotExist)
	assert.Nil(t, AcquireLock(context.Background(), lf, 1, 0))
}

func TestAcquireLock_Forever(t *testing.T) {
	lf := filepath.Join(t.TempDir(), "test.lock")
	require.Nil(t, AcquireLock(context.Background(), lf, 1, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, AcquireLock(ctx, lf, 0, time.Millisecond), context.DeadlineExceeded)

	go func() {
		time.Sleep(20 * time.Millisecond)
		ReleaseLock(lf)
	}()
	assert.Nil(t, AcquireLock(context.Background(), lf, 0, time.Millisecond))
}

func TestAcquireLock_BadPath(t *testing.T) {
	err := AcquireLock(context.Background(), filepath.Join(t.TempDir(), "absent", "test.lock"), 0, time.Millisecond)
	assert.NotNil(t, err)
	assert.False(t, errors.Is(err, errors.ErrExhausted))
}

func TestLockOwner_Corrupted(t *testing.T) {
	lf := filepath.Join(t.TempDir(), "test.lock")
	createFile(lf, "not a pid")
	_, err := LockOwner(lf)
	assert.ErrorIs(t, err, errors.ErrDataLoss)
}

func TestFileLock(t *testing.T) {
	lp := NewLockProvider(t.TempDir(), time.Millisecond)
	l1 := lp.NewLocker("res")
	l2 := lp.NewLocker("res")

	l1.Lock()
	assert.False(t, l2.TryLock(context.Background()))

	var locked int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.Nil(t, l2.LockWithCtx(context.Background()))
		atomic.StoreInt32(&locked, 1)
		l2.Unlock()
	}()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&locked))
	l1.Unlock()
	<-done
	assert.Equal(t, int32(1), atomic.LoadInt32(&locked))

	assert.True(t, l1.TryLock(context.Background()))
	l1.Unlock()
}

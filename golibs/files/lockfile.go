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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	cctx "github.com/solarisdb/commons/golibs/context"
	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/logging"
	csync "github.com/solarisdb/commons/golibs/sync"
)

type (
	// FileLock is the csync.Locker, which is held while its lock file exists. The
	// lock file can be created by another process, so the FileLock may be used for
	// the inter-process locking on the same host.
	FileLock struct {
		path   string
		delay  time.Duration
		logger logging.Logger
	}

	fileLockProvider struct {
		dir   string
		delay time.Duration
	}
)

var _ csync.Locker = (*FileLock)(nil)
var _ csync.LockProvider = (*fileLockProvider)(nil)

// AcquireLock creates the lockFile with the current process id in it. If the file already
// exists, the function tries again in delay up to maxTry attempts in total. maxTry <= 0
// means trying until the ctx is closed. errors.ErrExhausted is returned if the lock could
// not be acquired in maxTry attempts.
func AcquireLock(ctx context.Context, lockFile string, maxTry int, delay time.Duration) error {
	for attempt := 1; ; attempt++ {
		f, err := os.OpenFile(lockFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, err = f.WriteString(strconv.Itoa(os.Getpid()))
			f.Close()
			if err != nil {
				os.Remove(lockFile)
				return fmt.Errorf("could not write the lock file %s: %w", lockFile, err)
			}
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("could not create the lock file %s: %w", lockFile, err)
		}
		if maxTry > 0 && attempt >= maxTry {
			return fmt.Errorf("unable to acquire %s in %d attempts: %w", lockFile, maxTry, errors.ErrExhausted)
		}
		if err := cctx.Sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// ReleaseLock removes the lockFile
func ReleaseLock(lockFile string) error {
	if err := os.Remove(lockFile); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("the lock file %s is not found: %w", lockFile, errors.ErrNotExist)
		}
		return err
	}
	return nil
}

// LockOwner returns the process id written into the lockFile
func LockOwner(lockFile string) (int, error) {
	buf, err := os.ReadFile(lockFile)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(string(buf))
	if err != nil {
		return 0, fmt.Errorf("the lock file %s contains %q instead of pid: %w", lockFile, buf, errors.ErrDataLoss)
	}
	return pid, nil
}

// NewFileLock returns the FileLock for the path. The delay is the time between
// the attempts to create the lock file when it exists already.
func NewFileLock(path string, delay time.Duration) *FileLock {
	return &FileLock{path: path, delay: delay, logger: logging.NewLogger("files.FileLock")}
}

// NewLockProvider returns csync.LockProvider, which creates the FileLock objects
// for the <name>.lock files in the dir
func NewLockProvider(dir string, delay time.Duration) csync.LockProvider {
	return &fileLockProvider{dir: dir, delay: delay}
}

func (lp *fileLockProvider) NewLocker(name string) csync.Locker {
	return NewFileLock(filepath.Join(lp.dir, name+".lock"), lp.delay)
}

// Lock acquires the lock waiting for it as long as it needed
func (fl *FileLock) Lock() {
	if err := fl.LockWithCtx(context.Background()); err != nil {
		fl.logger.Errorf("Lock(): could not lock %s: %s", fl, err)
		panic("FileLock: could not lock " + fl.path + ": " + err.Error())
	}
}

// Unlock releases the lock
func (fl *FileLock) Unlock() {
	if err := ReleaseLock(fl.path); err != nil {
		fl.logger.Warnf("Unlock(): %s", err)
	}
}

// TryLock makes one attempt to acquire the lock
func (fl *FileLock) TryLock(ctx context.Context) bool {
	return AcquireLock(ctx, fl.path, 1, 0) == nil
}

// LockWithCtx acquires the lock or returns the error if the ctx is closed before that
func (fl *FileLock) LockWithCtx(ctx context.Context) error {
	fl.logger.Debugf("locking %s", fl)
	return AcquireLock(ctx, fl.path, 0, fl.delay)
}

// String implements fmt.Stringer
func (fl *FileLock) String() string {
	return fmt.Sprintf("{path: %s, delay: %s}", fl.path, fl.delay)
}

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
Package deprecation allows to report the usage of the deprecated functions. Every
deprecation message is logged once per the call site, so a deprecated function called
in a loop doesn't flood the log.

The deprecated function may call Warn in its body, or it may be wrapped by Func, Renamed
or Moved, which return the function of the same type reporting every its call site:

	// OldSum is deprecated, use Sum instead
	var OldSum = deprecation.Renamed("OldSum", Sum, "Sum")
*/
package deprecation

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/solarisdb/commons/golibs/container/lru"
	"github.com/solarisdb/commons/golibs/logging"
)

type (
	// Warner logs the deprecation messages. It remembers up to maxSites reported
	// (call site, message) pairs, and the same message for the same call site is
	// not logged again while it is remembered.
	Warner struct {
		lock   sync.Mutex
		seen   *lru.BoundedCache[site, struct{}]
		logger logging.Logger
	}

	site struct {
		file string
		line int
		msg  string
	}
)

const (
	// DefaultMaxSites is the number of call sites remembered by the default Warner
	DefaultMaxSites = 1024

	pkgPrefix = "github.com/solarisdb/commons/golibs/deprecation."
)

var defaultWarner atomic.Pointer[Warner]

// NewWarner creates the new Warner, which remembers up to maxSites call sites. If the
// logger is nil, the "deprecation" logger is used.
func NewWarner(maxSites int, logger logging.Logger) (*Warner, error) {
	seen, err := lru.NewBoundedCache[site, struct{}](maxSites)
	if err != nil {
		return nil, fmt.Errorf("could not create the deprecation warner: %w", err)
	}
	return &Warner{seen: seen, logger: logger}, nil
}

// Default returns the Warner used by the package functions
func Default() *Warner {
	if w := defaultWarner.Load(); w != nil {
		return w
	}
	w, _ := NewWarner(DefaultMaxSites, nil)
	if defaultWarner.CompareAndSwap(nil, w) {
		return w
	}
	return defaultWarner.Load()
}

// SetDefault replaces the Warner used by the package functions. It returns the previous one.
func SetDefault(w *Warner) *Warner {
	prev := Default()
	defaultWarner.Store(w)
	return prev
}

// Warn logs the msg for the caller of the function, which calls Warn.
func Warn(msg string) {
	Default().warn(msg, 1)
}

// Warn logs the msg for the caller of the function, which calls the method.
func (w *Warner) Warn(msg string) {
	w.warn(msg, 1)
}

// Len returns the number of the remembered call sites
func (w *Warner) Len() int {
	return w.seen.Len()
}

// Func returns the function of the same type as f, which logs the msg (or "this
// function is deprecated" if msg is empty) for every new call site and calls f then.
// It panics if f is not a function.
func Func[F any](f F, msg string) F {
	if msg == "" {
		msg = "this function is deprecated"
	}
	return wrap(f, msg)
}

// Renamed returns f wrapped like Func does with the "<oldName> is deprecated, use <newName>"
// message.
func Renamed[F any](oldName string, f F, newName string) F {
	return wrap(f, fmt.Sprintf("%s is deprecated, use %s", oldName, newName))
}

// Moved returns f wrapped like Func does with the "object <objName> has been moved to package
// <pkgPath>" message.
func Moved[F any](f F, objName, pkgPath string) F {
	return wrap(f, fmt.Sprintf("object %s has been moved to package %s", objName, pkgPath))
}

func wrap[F any](f F, msg string) F {
	fv := reflect.ValueOf(f)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		panic(fmt.Sprintf("deprecation: a function is expected, but got %T", f))
	}
	variadic := fv.Type().IsVariadic()
	res := reflect.MakeFunc(fv.Type(), func(args []reflect.Value) []reflect.Value {
		Default().warn(msg, 0)
		if variadic {
			return fv.CallSlice(args)
		}
		return fv.Call(args)
	})
	return res.Interface().(F)
}

// warn logs the msg for the call site found by skipping the skip frames outside
// of the package.
func (w *Warner) warn(msg string, skip int) {
	file, line := callSite(skip)
	s := site{file: file, line: line, msg: msg}

	w.lock.Lock()
	if w.seen.Contains(s) {
		w.lock.Unlock()
		return
	}
	w.seen.Set(s, struct{}{})
	w.lock.Unlock()

	log := w.logger
	if log == nil {
		log = logging.NewLogger("deprecation")
	}
	log.Warnf("%s:%d: DeprecationWarning: %s", file, line, msg)
}

func callSite(skip int) (string, int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		fr, more := frames.Next()
		if !isInternal(fr.Function) {
			if skip == 0 {
				return fr.File, fr.Line
			}
			skip--
		}
		if !more {
			return "unknown", 0
		}
	}
}

func isInternal(function string) bool {
	return strings.HasPrefix(function, pkgPrefix) ||
		strings.HasPrefix(function, "reflect.") ||
		strings.HasPrefix(function, "runtime.")
}

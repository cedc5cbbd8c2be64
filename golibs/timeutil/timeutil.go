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

// Package timeutil contains helpers for enumerating points in time.
package timeutil

import (
	"iter"
	"time"
)

// StepF returns the time following t in a Range.
type StepF func(t time.Time) time.Time

// Every returns the StepF adding d to the time.
func Every(d time.Duration) StepF {
	return func(t time.Time) time.Time { return t.Add(d) }
}

// Days returns the StepF moving the time n calendar days forward.
func Days(n int) StepF {
	return func(t time.Time) time.Time { return t.AddDate(0, 0, n) }
}

// Months returns the StepF moving the time n calendar months forward. The day
// of month is normalized by time.AddDate, so Jan 31 + 1 month is Mar 2 or 3.
func Months(n int) StepF {
	return func(t time.Time) time.Time { return t.AddDate(0, n, 0) }
}

// Range enumerates the times from begin (inclusive) to end (exclusive), each next
// one is produced by step from the previous one. The enumeration stops if step
// does not move the time forward.
func Range(begin, end time.Time, step StepF) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for t := begin; t.Before(end); {
			if !yield(t) {
				return
			}
			next := step(t)
			if !next.After(t) {
				return
			}
			t = next
		}
	}
}

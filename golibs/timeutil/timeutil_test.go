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

package timeutil

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRange(t *testing.T) {
	begin := time.Date(2024, 1, 30, 10, 0, 0, 0, time.UTC)

	res := slices.Collect(Range(begin, begin.Add(3*time.Hour), Every(time.Hour)))
	assert.Equal(t, []time.Time{begin, begin.Add(time.Hour), begin.Add(2 * time.Hour)}, res)

	res = slices.Collect(Range(begin, begin.AddDate(0, 0, 2), Days(1)))
	assert.Equal(t, []time.Time{begin, begin.AddDate(0, 0, 1)}, res)

	res = slices.Collect(Range(begin, begin.Add(time.Nanosecond), Months(1)))
	assert.Equal(t, []time.Time{begin}, res)

	assert.Empty(t, slices.Collect(Range(begin, begin, Every(time.Hour))))
	assert.Empty(t, slices.Collect(Range(begin, begin.Add(-time.Hour), Every(time.Hour))))
}

func TestRange_Months(t *testing.T) {
	begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var months []time.Month
	for d := range Range(begin, begin.AddDate(1, 0, 0), Months(1)) {
		months = append(months, d.Month())
	}
	assert.Len(t, months, 12)
	assert.Equal(t, time.January, months[0])
	assert.Equal(t, time.December, months[11])
}

func TestRange_NotForward(t *testing.T) {
	begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := begin.Add(time.Hour)
	assert.Equal(t, []time.Time{begin}, slices.Collect(Range(begin, end, Every(0))))
	assert.Equal(t, []time.Time{begin}, slices.Collect(Range(begin, end, Every(-time.Minute))))
}

func TestRange_Break(t *testing.T) {
	begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cnt := 0
	for range Range(begin, begin.AddDate(0, 0, 100), Days(1)) {
		cnt++
		if cnt == 5 {
			break
		}
	}
	assert.Equal(t, 5, cnt)
}

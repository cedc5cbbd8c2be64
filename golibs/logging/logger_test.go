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

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	for s, exp := range map[string]Level{"": INFO, "error": ERROR, "Warn": WARN, "warning": WARN, " debug ": DEBUG, "TRACE": TRACE} {
		lvl, err := ParseLevel(s)
		assert.Nil(t, err)
		assert.Equal(t, exp, lvl)
	}
	_, err := ParseLevel("verbose")
	assert.NotNil(t, err)
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "Level(42)", Level(42).String())
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := SetStdOutput(&buf)
	defer SetStdOutput(prev)
	lvl := GetLevel()
	defer SetLevel(lvl)

	SetLevel(INFO)
	log := NewLogger("test")
	log.Debugf("hidden %d", 1)
	log.Infof("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO\ttest: shown 2")

	SetLevel(DEBUG)
	log.Debugf("now visible")
	assert.Contains(t, buf.String(), "DEBUG\ttest: now visible")
}

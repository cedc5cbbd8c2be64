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

package logrus

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/solarisdb/commons/golibs/logging"
	"github.com/stretchr/testify/assert"
)

func TestInstall(t *testing.T) {
	prev := logging.GetConfig()
	defer logging.SetConfig(prev)

	var buf bytes.Buffer
	l := logrus.New()
	l.Out = &buf
	l.Formatter = &logrus.TextFormatter{DisableColors: true, DisableTimestamp: true}
	Install(l)

	logging.SetLevel(logging.WARN)
	assert.Equal(t, logging.WARN, logging.GetLevel())
	log := logging.NewLogger("lru.Cache")
	log.Infof("must be skipped")
	log.Warnf("evicted %d entries", 3)
	out := buf.String()
	assert.NotContains(t, out, "must be skipped")
	assert.Contains(t, out, "evicted 3 entries")
	assert.Contains(t, out, "logger=lru.Cache")
	assert.Contains(t, out, "level=warning")

	logging.SetLevel(logging.TRACE)
	assert.Equal(t, logging.TRACE, logging.GetLevel())
	log.Tracef("trace %s", "me")
	assert.Contains(t, buf.String(), "trace me")
}

func TestLevels(t *testing.T) {
	for _, lvl := range []logging.Level{logging.ERROR, logging.WARN, logging.INFO, logging.DEBUG, logging.TRACE} {
		assert.Equal(t, lvl, fromLogrusLevel(toLogrusLevel(lvl)))
	}
	assert.Equal(t, logging.ERROR, fromLogrusLevel(logrus.FatalLevel))
}

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

// Package logrus provides the logging.Logger backend built on top of sirupsen/logrus.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/solarisdb/commons/golibs/logging"
)

type logger struct {
	entry *logrus.Entry
}

var _ logging.Logger = (*logger)(nil)

// Install switches the logging package to logrus, so the loggers created by
// logging.NewLogger() after the call write into l. The standard logrus logger is
// used if l is nil. The logger name is passed as the "logger" field.
func Install(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logging.SetConfig(logging.Config{
		NewLoggerF: func(name string) logging.Logger {
			return &logger{entry: l.WithField("logger", name)}
		},
		SetLevelF: func(lvl logging.Level) {
			l.SetLevel(toLogrusLevel(lvl))
		},
		GetLevelF: func() logging.Level {
			return fromLogrusLevel(l.GetLevel())
		},
	})
}

func (lg *logger) Warnf(format string, args ...interface{}) {
	lg.entry.Warnf(format, args...)
}

func (lg *logger) Infof(format string, args ...interface{}) {
	lg.entry.Infof(format, args...)
}

func (lg *logger) Debugf(format string, args ...interface{}) {
	lg.entry.Debugf(format, args...)
}

func (lg *logger) Tracef(format string, args ...interface{}) {
	lg.entry.Tracef(format, args...)
}

func (lg *logger) Errorf(format string, args ...interface{}) {
	lg.entry.Errorf(format, args...)
}

func toLogrusLevel(lvl logging.Level) logrus.Level {
	switch lvl {
	case logging.ERROR:
		return logrus.ErrorLevel
	case logging.WARN:
		return logrus.WarnLevel
	case logging.DEBUG:
		return logrus.DebugLevel
	case logging.TRACE:
		return logrus.TraceLevel
	}
	return logrus.InfoLevel
}

func fromLogrusLevel(lvl logrus.Level) logging.Level {
	switch lvl {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return logging.ERROR
	case logrus.WarnLevel:
		return logging.WARN
	case logrus.DebugLevel:
		return logging.DEBUG
	case logrus.TraceLevel:
		return logging.TRACE
	}
	return logging.INFO
}

// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a package-level structured logger, wrapping
// zap.SugaredLogger so that every package in this module logs through
// one shared, swappable instance rather than constructing its own.
package log

import (
	"sync"

	"go.uber.org/zap"
)

// Fields is a convenience alias for structured key/value pairs passed to
// WithFields.
type Fields map[string]interface{}

var (
	mu     sync.RWMutex
	global = zap.NewNop().Sugar()
)

// SetGlobalLogger replaces the package-level logger used by the
// package-level Info/Warn/Error/Fatal/With functions.
func SetGlobalLogger(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// ConfigureLogger builds a *zap.Logger from cfg, installs its sugared
// form as the global logger, and returns the raw *zap.Logger for callers
// that need it directly (e.g. to pass to gorilla/handlers).
func ConfigureLogger(cfg zap.Config) (*zap.Logger, error) {
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	SetGlobalLogger(l.Sugar())
	return l, nil
}

// With returns a logger with the given key/value pairs added to every
// subsequent log entry.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return current().With(keysAndValues...)
}

// WithFields returns a logger with fields added to every subsequent log
// entry.
func WithFields(fields Fields) *zap.SugaredLogger {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return current().With(kv...)
}

func Debug(args ...interface{})                 { current().Debug(args...) }
func Debugf(template string, args ...interface{}) { current().Debugf(template, args...) }
func Info(args ...interface{})                  { current().Info(args...) }
func Infof(template string, args ...interface{}) { current().Infof(template, args...) }
func Warn(args ...interface{})                  { current().Warn(args...) }
func Warnf(template string, args ...interface{}) { current().Warnf(template, args...) }
func Error(args ...interface{})                 { current().Error(args...) }
func Errorf(template string, args ...interface{}) { current().Errorf(template, args...) }
func Fatal(args ...interface{})                 { current().Fatal(args...) }
func Fatalf(template string, args ...interface{}) { current().Fatalf(template, args...) }

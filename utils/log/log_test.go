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
package log

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfigureLoggerInstallsGlobal(t *testing.T) {
	require := require.New(t)

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"/dev/null"}

	l, err := ConfigureLogger(cfg)
	require.NoError(err)
	require.NotNil(l)

	// Package-level functions and With/WithFields should not panic once
	// a real logger is installed.
	Info("hello")
	Infof("hello %s", "world")
	With("key", "value").Info("with fields")
	WithFields(Fields{"key": "value"}).Info("with fields map")
}

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
package trackerserver

import (
	"strings"

	"github.com/hiveswarm/hive/utils/log"
)

// logWriter adapts handlers.CombinedLoggingHandler's io.Writer access log
// onto the package logger, so access logs flow through the same sink as
// everything else.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	log.Infof("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

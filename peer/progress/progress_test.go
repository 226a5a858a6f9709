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
package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderShowsCompletionPercentage(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	b := New(&buf, 4)
	b.Render(1)

	require.Contains(buf.String(), "75.00%")
}

func TestDisplayStopsWhenLeftReachesZero(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	remaining := []int64{3, 2, 1, 0}
	i := 0
	left := func() int64 {
		v := remaining[i]
		if i < len(remaining)-1 {
			i++
		}
		return v
	}

	Display(&buf, 3, left, time.Millisecond)

	require.True(strings.HasSuffix(buf.String(), "\n"))
	require.Contains(buf.String(), "100.00%")
}

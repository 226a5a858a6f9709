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
package piecetracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiveswarm/hive/core"
)

func TestSeederStartsAllAvailable(t *testing.T) {
	require := require.New(t)

	tr := New(10, core.PieceAvailable)
	require.Equal(0, tr.Left())
	require.True(tr.Completed())
	for i := 0; i < 10; i++ {
		require.Equal(core.PieceAvailable, tr.State(i))
	}
}

func TestLeecherStartsAllUnavailable(t *testing.T) {
	require := require.New(t)

	tr := New(10, core.PieceUnavailable)
	require.Equal(10, tr.Left())
	require.False(tr.Completed())
}

func TestSuccessfulFetchTransition(t *testing.T) {
	require := require.New(t)

	tr := New(3, core.PieceUnavailable)
	require.NoError(tr.SetDownloading(0))
	require.Equal(core.PieceDownloading, tr.State(0))
	require.NoError(tr.SetAvailable(0))
	require.Equal(core.PieceAvailable, tr.State(0))
	require.Equal(2, tr.Left())
}

func TestFailedFetchRevertsToUnavailable(t *testing.T) {
	require := require.New(t)

	tr := New(3, core.PieceUnavailable)
	require.NoError(tr.SetDownloading(1))
	require.NoError(tr.SetUnavailable(1))
	require.Equal(core.PieceUnavailable, tr.State(1))
	require.Equal(3, tr.Left())
}

func TestInvalidTransitionsRejected(t *testing.T) {
	require := require.New(t)

	tr := New(1, core.PieceUnavailable)
	require.Error(tr.SetAvailable(0)) // not downloading yet
	require.NoError(tr.SetDownloading(0))
	require.Error(tr.SetDownloading(0)) // already downloading
}

// TestAvailablePlusLeftInvariant exercises the invariant: the count of
// AVAILABLE entries plus Left equals NumPieces at all times, even under
// concurrent mutation of distinct pieces.
func TestAvailablePlusLeftInvariant(t *testing.T) {
	n := 50
	tr := New(n, core.PieceUnavailable)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, tr.SetDownloading(i))
			if i%2 == 0 {
				require.NoError(t, tr.SetAvailable(i))
			} else {
				require.NoError(t, tr.SetUnavailable(i))
			}
		}()
	}
	wg.Wait()

	available := 0
	for _, s := range tr.Snapshot() {
		if s == core.PieceAvailable {
			available++
		}
	}
	require.Equal(t, n, available+tr.Left())
}

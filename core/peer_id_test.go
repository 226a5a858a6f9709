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
package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePeerID(t *testing.T) {
	require := require.New(t)

	n := 50
	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		id, err := GeneratePeerID("-HV01")
		require.NoError(err)
		require.Len(id.String(), PeerIDLength)
		require.False(seen[id.String()], "collision in generated peer ids")
		seen[id.String()] = true
	}
}

func TestGeneratePeerIDInvalidPrefix(t *testing.T) {
	tests := []struct {
		desc   string
		prefix string
	}{
		{"empty", ""},
		{"too short", "-HV"},
		{"too long", "-HV00001"},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			_, err := GeneratePeerID(test.prefix)
			require.Equal(t, ErrInvalidClientPrefixLength, err)
		})
	}
}

func TestNewPeerIDErrors(t *testing.T) {
	tests := []struct {
		desc  string
		input string
	}{
		{"empty", ""},
		{"too short", "beef"},
		{"too long", "012345678901234567890123456789"},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			_, err := NewPeerID(test.input)
			require.Error(t, err)
		})
	}
}

func TestPeerIDEmpty(t *testing.T) {
	require := require.New(t)

	var p PeerID
	require.True(p.Empty())

	id := PeerIDFixture()
	require.False(id.Empty())
}

func TestPeerIDCompare(t *testing.T) {
	require := require.New(t)

	peer1 := PeerIDFixture()
	peer2 := PeerIDFixture()
	if peer1.String() < peer2.String() {
		require.True(peer1.LessThan(peer2))
	} else if peer1.String() > peer2.String() {
		require.True(peer2.LessThan(peer1))
	}
}

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

// Package piecetracker tracks the per-piece download state of a single
// torrent: which pieces are UNAVAILABLE, DOWNLOADING, or AVAILABLE.
package piecetracker

import (
	"fmt"
	"sync"

	"github.com/willf/bitset"

	"github.com/hiveswarm/hive/core"
)

// errInvalidTransition is returned when a caller requests a state
// transition that the invariants in this package forbid.
type errInvalidTransition struct {
	i    int
	from core.PieceState
	to   core.PieceState
}

func (e *errInvalidTransition) Error() string {
	return fmt.Sprintf("piecetracker: invalid transition for piece %d: %s -> %s", e.i, e.from, e.to)
}

// Tracker maps piece index to core.PieceState for a single torrent. A
// seeder initializes every entry to AVAILABLE; a leecher to UNAVAILABLE.
// All mutations are exclusive under one lock; Snapshot takes a
// consistent copy for readers.
type Tracker struct {
	mu        sync.Mutex
	states    []core.PieceState
	available *bitset.BitSet
	left      int
}

// New creates a Tracker for a torrent with numPieces pieces, with every
// piece initialized to initial (AVAILABLE for a seeder, UNAVAILABLE for
// a leecher).
func New(numPieces int, initial core.PieceState) *Tracker {
	t := &Tracker{
		states:    make([]core.PieceState, numPieces),
		available: bitset.New(uint(numPieces)),
		left:      numPieces,
	}
	for i := range t.states {
		t.states[i] = initial
	}
	if initial == core.PieceAvailable {
		for i := 0; i < numPieces; i++ {
			t.available.Set(uint(i))
		}
		t.left = 0
	}
	return t
}

// NumPieces returns the number of pieces tracked.
func (t *Tracker) NumPieces() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.states)
}

// Left returns the count of pieces not yet AVAILABLE.
func (t *Tracker) Left() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.left
}

// State returns the current state of piece i.
func (t *Tracker) State(i int) core.PieceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[i]
}

// SetDownloading transitions piece i from UNAVAILABLE to DOWNLOADING,
// marking a fetch as in flight.
func (t *Tracker) SetDownloading(i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.states[i] != core.PieceUnavailable {
		return &errInvalidTransition{i, t.states[i], core.PieceDownloading}
	}
	t.states[i] = core.PieceDownloading
	return nil
}

// SetAvailable transitions piece i from DOWNLOADING to AVAILABLE on
// successful fetch and verification, decrementing Left.
func (t *Tracker) SetAvailable(i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.states[i] != core.PieceDownloading {
		return &errInvalidTransition{i, t.states[i], core.PieceAvailable}
	}
	t.states[i] = core.PieceAvailable
	t.available.Set(uint(i))
	t.left--
	return nil
}

// SetUnavailable transitions piece i from DOWNLOADING back to
// UNAVAILABLE on fetch failure: hash mismatch, disconnect, or any I/O
// error during fetch.
func (t *Tracker) SetUnavailable(i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.states[i] != core.PieceDownloading {
		return &errInvalidTransition{i, t.states[i], core.PieceUnavailable}
	}
	t.states[i] = core.PieceUnavailable
	return nil
}

// Completed returns whether every piece is AVAILABLE.
func (t *Tracker) Completed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.left == 0
}

// Snapshot returns a consistent copy of every piece's state, safe to
// range over without holding the tracker lock.
func (t *Tracker) Snapshot() []core.PieceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := make([]core.PieceState, len(t.states))
	copy(c, t.states)
	return c
}

// AvailableBitset returns a clone of the bitset of AVAILABLE piece
// indices.
func (t *Tracker) AvailableBitset() *bitset.BitSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.available.Clone()
}

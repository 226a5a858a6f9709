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

// Package peerstate holds the announce counters a single peer process
// reports to the tracker: uploaded, downloaded, left, and the current
// announce event.
package peerstate

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/hiveswarm/hive/core"
)

// State is the mutable counterpart to core.PeerInfo that a peer process
// owns locally. Uploaded/Downloaded are lock-free counters since they
// are incremented from many connection goroutines; Left and Event are
// compound with identity and are protected by mu.
type State struct {
	uploaded   atomic.Int64
	downloaded atomic.Int64

	mu    sync.Mutex
	left  int64
	event core.AnnounceEvent
}

// New creates a State whose left count starts at numLeft (the number of
// pieces for a leecher, 0 for a seeder).
func New(numLeft int64) *State {
	return &State{
		left:  numLeft,
		event: core.EventStarted,
	}
}

// AddUploaded increments the uploaded counter by delta bytes.
func (s *State) AddUploaded(delta int64) {
	s.uploaded.Add(delta)
}

// AddDownloaded increments the downloaded counter by delta bytes.
func (s *State) AddDownloaded(delta int64) {
	s.downloaded.Add(delta)
}

// Uploaded returns the current uploaded counter.
func (s *State) Uploaded() int64 {
	return s.uploaded.Load()
}

// Downloaded returns the current downloaded counter.
func (s *State) Downloaded() int64 {
	return s.downloaded.Load()
}

// DecrementLeft decrements left by one, called when a piece transitions
// to AVAILABLE.
func (s *State) DecrementLeft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.left > 0 {
		s.left--
	}
}

// Left returns the current left counter.
func (s *State) Left() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.left
}

// Completed reports whether left has reached zero.
func (s *State) Completed() bool {
	return s.Left() == 0
}

// SetEvent sets the announce event to report on the next announce.
func (s *State) SetEvent(e core.AnnounceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.event = e
}

// Event returns the announce event to report on the next announce.
func (s *State) Event() core.AnnounceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.event
}

// Snapshot returns a consistent view of all counters, suitable for
// building an announce request.
func (s *State) Snapshot() (uploaded, downloaded, left int64, event core.AnnounceEvent) {
	s.mu.Lock()
	left, event = s.left, s.event
	s.mu.Unlock()
	return s.uploaded.Load(), s.downloaded.Load(), left, event
}

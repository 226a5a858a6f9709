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
package announcer

import (
	"time"

	"github.com/cenkalti/backoff"

	"github.com/hiveswarm/hive/core"
	"github.com/hiveswarm/hive/utils/log"
)

// ReAnnouncer periodically re-announces to the tracker and replaces the
// shared SwarmList's contents on success. On a transient failure it logs
// and keeps operating against the previously known swarm -- per design,
// an unreachable tracker never tears the peer down, it only stops
// discovering new peers until the tracker comes back.
type ReAnnouncer struct {
	announcer  *Announcer
	swarm      *SwarmList
	interval   time.Duration
	maxBackoff time.Duration
	stop       chan struct{}
}

// NewReAnnouncer creates a ReAnnouncer that starts from initialInterval
// (the interval returned by the peer's started announce) and caps its
// transient-failure backoff at maxBackoff (defaulting to initialInterval
// when zero, so backoff never waits longer than a routine re-announce
// would).
func NewReAnnouncer(a *Announcer, swarm *SwarmList, initialInterval time.Duration, maxBackoff time.Duration) *ReAnnouncer {
	if maxBackoff == 0 {
		maxBackoff = initialInterval
	}
	return &ReAnnouncer{
		announcer:  a,
		swarm:      swarm,
		interval:   initialInterval,
		maxBackoff: maxBackoff,
		stop:       make(chan struct{}),
	}
}

// Run blocks, re-announcing every interval until Stop is called. Run is
// meant to be invoked in its own goroutine.
func (r *ReAnnouncer) Run() {
	for {
		select {
		case <-time.After(r.interval):
		case <-r.stop:
			return
		}

		interval, peers, err := r.reannounceWithBackoff()
		if err != nil {
			log.Warnf("announcer: giving up this cycle, operating against last-known swarm: %s", err)
			continue
		}
		r.swarm.Replace(peers)
		r.interval = time.Duration(interval) * time.Second
	}
}

// Stop halts the re-announce loop.
func (r *ReAnnouncer) Stop() {
	close(r.stop)
}

// reannounceWithBackoff retries a single re-announce with exponential
// backoff capped at r.maxBackoff, so a momentary tracker hiccup doesn't
// immediately fall back to stale peers for a full interval.
func (r *ReAnnouncer) reannounceWithBackoff() (int, []*core.PeerInfo, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = r.maxBackoff

	var interval int
	var peers []*core.PeerInfo
	err := backoff.Retry(func() error {
		i, p, err := r.announcer.ReAnnounce()
		if err != nil {
			return err
		}
		interval, peers = i, p
		return nil
	}, b)
	return interval, peers, err
}

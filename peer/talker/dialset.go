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
package talker

import (
	"sync"

	"github.com/hiveswarm/hive/core"
)

// dialSet tracks which remote peers currently have a live outbound
// requester, so the scan loop never starts a second one for the same
// remote. The lock is held only briefly around membership checks.
type dialSet struct {
	mu   sync.Mutex
	dial map[core.PeerID]bool
}

func newDialSet() *dialSet {
	return &dialSet{dial: make(map[core.PeerID]bool)}
}

// addIfAbsent adds id to the set and reports true if it was not already
// present, i.e. whether the caller should start a requester for it.
func (d *dialSet) addIfAbsent(id core.PeerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dial[id] {
		return false
	}
	d.dial[id] = true
	return true
}

// remove drops id from the set. Safe to call even if id is absent, since
// a requester that failed to dial removes itself exactly once on exit.
func (d *dialSet) remove(id core.PeerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.dial, id)
}

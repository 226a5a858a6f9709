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

// AnnounceEvent is the tagged event a peer reports on each tracker
// announce.
type AnnounceEvent int

const (
	// EventNone is sent on routine re-announces that carry no lifecycle
	// transition (unused by this client, which always tags re-announces
	// with EventReannounce, but kept for wire compatibility with clients
	// that distinguish the two).
	EventNone AnnounceEvent = iota

	// EventStarted announces a peer joining a swarm.
	EventStarted

	// EventStopped announces a peer leaving a swarm.
	EventStopped

	// EventReannounce is a periodic liveness/progress update.
	EventReannounce
)

func (e AnnounceEvent) String() string {
	switch e {
	case EventStarted:
		return "STARTED"
	case EventStopped:
		return "STOPPED"
	case EventReannounce:
		return "RE_ANNOUNCE"
	default:
		return "NONE"
	}
}

// ParseAnnounceEvent parses the wire spelling of an AnnounceEvent.
func ParseAnnounceEvent(s string) (AnnounceEvent, bool) {
	switch s {
	case "STARTED":
		return EventStarted, true
	case "STOPPED":
		return EventStopped, true
	case "RE_ANNOUNCE":
		return EventReannounce, true
	case "", "NONE":
		return EventNone, true
	default:
		return 0, false
	}
}

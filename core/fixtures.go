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
	"crypto/sha1"
	"fmt"
	"math/rand"
)

// PeerIDFixture returns a randomly generated PeerID.
func PeerIDFixture() PeerID {
	id, err := GeneratePeerID("-HV01")
	if err != nil {
		panic(err)
	}
	return id
}

// InfoHashFixture returns a randomly generated InfoHash.
func InfoHashFixture() InfoHash {
	b := make([]byte, 32)
	rand.Read(b)
	sum := sha1.Sum(b)
	return NewInfoHashFromBytes(sum[:])
}

// PeerInfoFixture returns a randomly generated, valid PeerInfo announcing
// as a freshly started peer.
func PeerInfoFixture() *PeerInfo {
	return &PeerInfo{
		InfoHash: InfoHashFixture(),
		PeerID:   PeerIDFixture(),
		PeerIP:   fmt.Sprintf("10.0.%d.%d", rand.Intn(256), rand.Intn(256)),
		PeerPort: 40000 + rand.Intn(10000),
		Left:     int64(rand.Intn(1 << 20)),
		Event:    EventStarted,
	}
}

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
	"errors"
	"fmt"
	"math/rand"
)

// PeerIDLength is the fixed length of a PeerID: a 5-character client
// prefix followed by 15 random alphanumerics.
const PeerIDLength = 20

// clientPrefixLength is the length of the client identifying prefix at
// the start of every PeerID.
const clientPrefixLength = 5

const alphanumerics = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ErrInvalidPeerIDLength returns when a string does not decode into
// exactly PeerIDLength ASCII bytes.
var ErrInvalidPeerIDLength = errors.New("peer id must be exactly 20 ASCII characters")

// ErrInvalidClientPrefixLength returns when a client prefix is not
// exactly clientPrefixLength bytes.
var ErrInvalidClientPrefixLength = errors.New("client prefix must be exactly 5 characters long")

// PeerID is the swarm-wide unique identifier of a peer: a 5-byte client
// prefix followed by 15 random alphanumerics, exactly 20 ASCII bytes.
type PeerID string

// NewPeerID validates that s is a well-formed PeerID.
func NewPeerID(s string) (PeerID, error) {
	if len(s) != PeerIDLength {
		return "", ErrInvalidPeerIDLength
	}
	return PeerID(s), nil
}

// String returns p's underlying string.
func (p PeerID) String() string {
	return string(p)
}

// Empty returns whether p is the zero value.
func (p PeerID) Empty() bool {
	return p == ""
}

// LessThan returns whether p sorts before o.
func (p PeerID) LessThan(o PeerID) bool {
	return p < o
}

// GeneratePeerID creates a new PeerID with the given 5-character client
// prefix followed by 15 random alphanumerics.
func GeneratePeerID(clientPrefix string) (PeerID, error) {
	if len(clientPrefix) != clientPrefixLength {
		return "", ErrInvalidClientPrefixLength
	}
	suffix := make([]byte, PeerIDLength-clientPrefixLength)
	for i := range suffix {
		suffix[i] = alphanumerics[rand.Intn(len(alphanumerics))]
	}
	return PeerID(fmt.Sprintf("%s%s", clientPrefix, suffix)), nil
}

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

// Package metainfo reads and writes the bencoded torrent metafile: the
// immutable description of a shared file's announce URL, piece layout,
// and per-piece checksums.
package metainfo

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jackpal/bencode-go"

	"github.com/hiveswarm/hive/core"
)

// info is the bencoded "info" sub-dictionary. Field order matters for
// nothing: bencode always serializes dictionary keys in sorted order, so
// info_hash is independent of how this struct is constructed.
type info struct {
	Name        string `bencode:"name"`
	Length      int64  `bencode:"length"`
	PieceLength int64  `bencode:"piece length"`
	Pieces      string `bencode:"pieces"`
}

// metafile is the top-level bencoded dictionary.
type metafile struct {
	Announce     string `bencode:"announce"`
	CreatedBy    string `bencode:"created by"`
	CreationDate int64  `bencode:"creation date"`
	Version      string `bencode:"version"`
	Info         info   `bencode:"info"`
}

// errEmptyFile is returned when creating a metafile for a zero-length
// file, which has no pieces and is therefore not a valid torrent.
var errEmptyFile = errors.New("metainfo: file must not be empty")

// TorrentMeta is the immutable-after-load description of a shared file:
// its announce URL, piece layout, and the SHA-1 checksum of every piece.
type TorrentMeta struct {
	AnnounceURL string
	FileName    string
	FileLength  int64
	PieceLength int64
	PieceHashes [][20]byte
	InfoHash    core.InfoHash
}

// NumPieces returns the number of pieces in the torrent.
func (m *TorrentMeta) NumPieces() int {
	return len(m.PieceHashes)
}

// PieceLen returns the length in bytes of piece i, accounting for the
// final piece being shorter than PieceLength when FileLength is not an
// exact multiple of it.
func (m *TorrentMeta) PieceLen(i int) int64 {
	if i < 0 || i >= len(m.PieceHashes) {
		return 0
	}
	if i == len(m.PieceHashes)-1 {
		return m.FileLength - m.PieceLength*int64(i)
	}
	return m.PieceLength
}

// PieceOffset returns the byte offset of piece i within the backing file.
func (m *TorrentMeta) PieceOffset(i int) int64 {
	return m.PieceLength * int64(i)
}

// CreateMetainfo builds a TorrentMeta for the file at filePath, splitting
// it into pieces of pieceLength bytes and hashing each with SHA-1.
func CreateMetainfo(filePath, announceURL string, pieceLength int64) (*TorrentMeta, error) {
	if pieceLength <= 0 {
		return nil, errors.New("metainfo: piece length must be positive")
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("metainfo: open file: %s", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("metainfo: stat file: %s", err)
	}
	if fi.Size() == 0 {
		return nil, errEmptyFile
	}

	length, hashes, err := hashPieces(f, pieceLength)
	if err != nil {
		return nil, err
	}

	mf := metafile{
		Announce:  announceURL,
		CreatedBy: "hive-peer",
		Version:   "1",
		Info: info{
			Name:        fi.Name(),
			Length:      length,
			PieceLength: pieceLength,
			Pieces:      joinPieceHashes(hashes),
		},
	}
	ih, err := infoHash(mf.Info)
	if err != nil {
		return nil, err
	}
	return &TorrentMeta{
		AnnounceURL: announceURL,
		FileName:    fi.Name(),
		FileLength:  length,
		PieceLength: pieceLength,
		PieceHashes: hashes,
		InfoHash:    ih,
	}, nil
}

// LoadMetainfo reads and decodes a bencoded metafile from path.
func LoadMetainfo(path string) (*TorrentMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("metainfo: open metafile: %s", err)
	}
	defer f.Close()
	return DeserializeMetainfo(f)
}

// DeserializeMetainfo decodes a bencoded metafile from r.
func DeserializeMetainfo(r io.Reader) (*TorrentMeta, error) {
	var mf metafile
	if err := bencode.Unmarshal(r, &mf); err != nil {
		return nil, fmt.Errorf("metainfo: bencode decode: %s", err)
	}
	if len(mf.Info.Pieces)%sha1.Size != 0 {
		return nil, errors.New("metainfo: pieces field is not a multiple of 20 bytes")
	}
	hashes := splitPieceHashes(mf.Info.Pieces)
	ih, err := infoHash(mf.Info)
	if err != nil {
		return nil, err
	}
	return &TorrentMeta{
		AnnounceURL: mf.Announce,
		FileName:    mf.Info.Name,
		FileLength:  mf.Info.Length,
		PieceLength: mf.Info.PieceLength,
		PieceHashes: hashes,
		InfoHash:    ih,
	}, nil
}

// Serialize bencodes m back into the metafile wire format.
func (m *TorrentMeta) Serialize(w io.Writer) error {
	mf := metafile{
		Announce:  m.AnnounceURL,
		CreatedBy: "hive-peer",
		Version:   "1",
		Info: info{
			Name:        m.FileName,
			Length:      m.FileLength,
			PieceLength: m.PieceLength,
			Pieces:      joinPieceHashes(m.PieceHashes),
		},
	}
	return bencode.Marshal(w, mf)
}

// infoHash computes the info_hash: the SHA-1 of the canonical bencoding
// of the info sub-dictionary.
func infoHash(i info) (core.InfoHash, error) {
	var b bytes.Buffer
	if err := bencode.Marshal(&b, i); err != nil {
		return core.InfoHash{}, fmt.Errorf("metainfo: bencode info: %s", err)
	}
	return core.NewInfoHashFromBytes(b.Bytes()), nil
}

// hashPieces reads blob in pieceLength chunks, returning the total length
// and the SHA-1 digest of each chunk in order.
func hashPieces(blob io.Reader, pieceLength int64) (length int64, hashes [][20]byte, err error) {
	for {
		h := sha1.New()
		n, err := io.CopyN(h, blob, pieceLength)
		if err != nil && err != io.EOF {
			return 0, nil, fmt.Errorf("metainfo: read file: %s", err)
		}
		if n == 0 {
			break
		}
		length += n
		var sum [20]byte
		copy(sum[:], h.Sum(nil))
		hashes = append(hashes, sum)
		if n < pieceLength {
			break
		}
	}
	return length, hashes, nil
}

func joinPieceHashes(hashes [][20]byte) string {
	b := make([]byte, 0, len(hashes)*sha1.Size)
	for _, h := range hashes {
		b = append(b, h[:]...)
	}
	return string(b)
}

func splitPieceHashes(pieces string) [][20]byte {
	n := len(pieces) / sha1.Size
	hashes := make([][20]byte, n)
	for i := 0; i < n; i++ {
		copy(hashes[i][:], pieces[i*sha1.Size:(i+1)*sha1.Size])
	}
	return hashes
}

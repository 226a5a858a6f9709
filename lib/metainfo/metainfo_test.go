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
package metainfo

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRandomFile(t *testing.T, dir string, size int) string {
	t.Helper()
	b := make([]byte, size)
	rand.Read(b)
	path := filepath.Join(dir, "blob")
	require.NoError(t, ioutil.WriteFile(path, b, 0644))
	return path
}

func TestCreateMetainfoPieceLayout(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := writeRandomFile(t, dir, 1200000)

	m, err := CreateMetainfo(path, "http://127.0.0.1:8080/announce", 524288)
	require.NoError(err)

	require.Equal(int64(1200000), m.FileLength)
	require.Equal(3, m.NumPieces())
	require.Equal(int64(524288), m.PieceLen(0))
	require.Equal(int64(524288), m.PieceLen(1))
	require.Equal(int64(151424), m.PieceLen(2))
}

func TestCreateMetainfoEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeRandomFile(t, dir, 0)

	_, err := CreateMetainfo(path, "http://127.0.0.1:8080/announce", 524288)
	require.Equal(t, errEmptyFile, err)
}

func TestSerializeRoundTrip(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := writeRandomFile(t, dir, 10000)

	m, err := CreateMetainfo(path, "http://127.0.0.1:8080/announce", 4096)
	require.NoError(err)

	var buf bytes.Buffer
	require.NoError(m.Serialize(&buf))

	loaded, err := DeserializeMetainfo(&buf)
	require.NoError(err)

	require.Equal(m.AnnounceURL, loaded.AnnounceURL)
	require.Equal(m.FileLength, loaded.FileLength)
	require.Equal(m.PieceLength, loaded.PieceLength)
	require.Equal(m.PieceHashes, loaded.PieceHashes)
	require.Equal(m.InfoHash, loaded.InfoHash)
}

func TestInfoHashIndependentOfWrapperFields(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := writeRandomFile(t, dir, 10000)

	m1, err := CreateMetainfo(path, "http://127.0.0.1:8080/announce", 4096)
	require.NoError(err)
	m2, err := CreateMetainfo(path, "http://10.0.0.1:9090/announce", 4096)
	require.NoError(err)

	// Different announce URLs (outside the info sub-dictionary) must not
	// change info_hash.
	require.Equal(m1.InfoHash, m2.InfoHash)
}

func TestLoadMetainfoFromDisk(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := writeRandomFile(t, dir, 5000)

	m, err := CreateMetainfo(path, "http://127.0.0.1:8080/announce", 2048)
	require.NoError(err)

	metaPath := filepath.Join(dir, "blob.torrent")
	f, err := os.Create(metaPath)
	require.NoError(err)
	require.NoError(m.Serialize(f))
	require.NoError(f.Close())

	loaded, err := LoadMetainfo(metaPath)
	require.NoError(err)
	require.Equal(m.InfoHash, loaded.InfoHash)
}

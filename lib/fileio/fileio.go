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

// Package fileio manages a peer's backing file on disk: zero-fill
// pre-allocation at torrent join time, and piece-aligned reads/writes
// during transfer.
package fileio

import (
	"fmt"
	"io"
	"os"
)

// Reader defines read methods for file io.
type Reader interface {
	io.Reader
	io.ReaderAt
}

// Writer defines write methods for file io.
type Writer interface {
	io.Writer
	io.WriterAt
}

// ReadWriter defines read and write methods for file io.
type ReadWriter interface {
	Reader
	Writer
}

// allocChunkSize bounds how much zero-fill is buffered in memory at
// once when pre-allocating a large file.
const allocChunkSize = 1 << 20 // 1 MB

// Preallocate creates (or truncates) the file at path and fills it with
// length zero bytes, writing in allocChunkSize chunks so the whole file
// is never held in memory at once.
func Preallocate(path string, length int64) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("fileio: create file: %s", err)
	}
	defer f.Close()

	chunk := make([]byte, allocChunkSize)
	var written int64
	for written < length {
		n := int64(len(chunk))
		if remaining := length - written; remaining < n {
			n = remaining
		}
		if _, err := f.Write(chunk[:n]); err != nil {
			return fmt.Errorf("fileio: zero-fill: %s", err)
		}
		written += n
	}
	return nil
}

// File wraps a backing file opened for piece-aligned random access.
type File struct {
	f *os.File
}

// Open opens the backing file at path for reading and writing pieces.
// The file must already exist (see Preallocate).
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("fileio: open file: %s", err)
	}
	return &File{f: f}, nil
}

// Close closes the backing file.
func (file *File) Close() error {
	return file.f.Close()
}

// WritePiece writes data at the piece-aligned offset.
func (file *File) WritePiece(data []byte, offset int64) error {
	if _, err := file.f.WriteAt(data, offset); err != nil {
		return fmt.Errorf("fileio: write piece at offset %d: %s", offset, err)
	}
	return nil
}

// ReadPiece reads exactly length bytes at the piece-aligned offset.
func (file *File) ReadPiece(offset, length int64) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := file.f.ReadAt(buf, offset); err != nil && err != io.EOF {
		return nil, fmt.Errorf("fileio: read piece at offset %d: %s", offset, err)
	}
	return buf, nil
}

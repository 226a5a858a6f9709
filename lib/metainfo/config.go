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

import "github.com/c2h5oh/datasize"

// Config governs how new torrents are split into pieces.
type Config struct {
	// PieceLength is the size of each piece, other than the last. Human
	// readable sizes (e.g. "512KB") are accepted in YAML.
	PieceLength datasize.ByteSize `yaml:"piece_length"`
}

// ApplyDefaults fills in a conventional piece length if none was set.
func (c *Config) ApplyDefaults() {
	if c.PieceLength == 0 {
		c.PieceLength = 512 * datasize.KB
	}
}

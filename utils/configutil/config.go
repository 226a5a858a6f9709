// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package configutil loads YAML configuration files, following an
// "extends:" base-file chain and deep-merging the result before
// validating it exactly once.
package configutil

import (
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/imdario/mergo"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// ErrCycleRef is returned when a config's "extends:" chain loops back on
// itself.
var ErrCycleRef = errors.New("cyclic reference in configuration extends detected")

// ValidationError reports per-field validation failures from the
// validator.v2 tags on a loaded config struct.
type ValidationError validator.ErrorMap

// Error implements the error interface with a deterministic field order.
func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	msgs := make([]string, len(fields))
	for i, field := range fields {
		msgs[i] = fmt.Sprintf("%s: %s", field, e[field])
	}
	return strings.Join(msgs, "; ")
}

// ErrForField returns the validation errors for the given struct field
// name, or nil if the field had none.
func (e ValidationError) ErrForField(name string) validator.ErrorArray {
	return validator.ErrorMap(e)[name]
}

type extendsField struct {
	Extends string `yaml:"extends"`
}

// readExtends returns the file that filename's "extends:" key points to,
// resolved relative to filename's directory, or "" if it has none.
func readExtends(filename string) (string, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("read config %s: %s", filename, err)
	}
	var e extendsField
	if err := yaml.Unmarshal(b, &e); err != nil {
		return "", fmt.Errorf("parse config %s: %s", filename, err)
	}
	return e.Extends, nil
}

// resolveExtends walks the "extends" chain starting at fpath, using
// readExtendsFn to find each file's parent. Returns the chain ordered
// root ancestor first, fpath last. A relative parent path is resolved
// against the directory of the file that names it.
func resolveExtends(fpath string, readExtendsFn func(string) (string, error)) ([]string, error) {
	var chain []string
	seen := make(map[string]bool)
	cur := fpath
	for {
		if seen[cur] {
			return nil, ErrCycleRef
		}
		seen[cur] = true
		chain = append([]string{cur}, chain...)

		parent, err := readExtendsFn(cur)
		if err != nil {
			return nil, err
		}
		if parent == "" {
			break
		}
		if !filepath.IsAbs(parent) {
			parent = filepath.Join(filepath.Dir(cur), parent)
		}
		cur = parent
	}
	return chain, nil
}

// loadFiles merges filenames into config in order, each file's non-empty
// fields overriding fields set by earlier files, then validates the
// merged config exactly once.
func loadFiles(config interface{}, filenames []string) error {
	for _, filename := range filenames {
		b, err := ioutil.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("read config %s: %s", filename, err)
		}
		next := reflect.New(reflect.TypeOf(config).Elem()).Interface()
		if err := yaml.Unmarshal(b, next); err != nil {
			return fmt.Errorf("parse config %s: %s", filename, err)
		}
		if err := mergo.Merge(config, next, mergo.WithOverride); err != nil {
			return fmt.Errorf("merge config %s: %s", filename, err)
		}
	}
	if err := validator.Validate(config); err != nil {
		if verr, ok := err.(validator.ErrorMap); ok {
			return ValidationError(verr)
		}
		return err
	}
	return nil
}

// Load reads filename, follows its "extends:" chain to find any base
// configs, merges them base-first, and validates the result.
func Load(filename string, config interface{}) error {
	chain, err := resolveExtends(filename, readExtends)
	if err != nil {
		return err
	}
	return loadFiles(config, chain)
}

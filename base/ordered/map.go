// Copyright 2025 Google LLC
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

// Package ordered provides ordered data structure.
package ordered

import (
	"bytes"
	"encoding/gob"
	"slices"

	"github.com/pkg/errors"
)

// Map is an ordered map. Iter iterates over the map
// using the same order in which the keys have been added.
// Storing an existing key keeps its original position.
type Map[K comparable, V any] struct {
	keys []K
	m    map[K]V
}

// NewMap returns a new ordered map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

func (m *Map[K, V]) init() {
	if m.m == nil {
		m.m = make(map[K]V)
	}
}

// Store a key,value pair.
func (m *Map[K, V]) Store(k K, v V) {
	m.init()
	_, in := m.m[k]
	if !in {
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
}

// Load returns a value given a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Has returns true if the key is in the map.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.m[k]
	return ok
}

// Delete removes a key from the map.
// Returns false if the key was not present.
func (m *Map[K, V]) Delete(k K) bool {
	if _, in := m.m[k]; !in {
		return false
	}
	delete(m.m, k)
	m.keys = slices.DeleteFunc(m.keys, func(other K) bool { return other == k })
	return true
}

// Retain removes all the entries for which keep returns false.
// The order of the remaining entries is preserved.
// Returns the keys that have been removed.
func (m *Map[K, V]) Retain(keep func(K, V) bool) []K {
	var removed []K
	kept := m.keys[:0]
	for _, k := range m.keys {
		if keep(k, m.m[k]) {
			kept = append(kept, k)
			continue
		}
		removed = append(removed, k)
		delete(m.m, k)
	}
	clear(m.keys[len(kept):])
	m.keys = kept
	return removed
}

// Iter returns an iterator to range over the elements of the map.
func (m *Map[K, V]) Iter() func(func(K, V) bool) {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.m[k]) {
				break
			}
		}
	}
}

// Keys returns an iterator to range over the keys of the map.
func (m *Map[K, V]) Keys() func(func(K) bool) {
	return func(yield func(K) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k) {
				break
			}
		}
	}
}

// Values returns an iterator to range over the values of the map.
func (m *Map[K, V]) Values() func(func(V) bool) {
	return func(yield func(V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(m.m[k]) {
				break
			}
		}
	}
}

// Clone creates a new map with the same keys and values.
// This is a shallow clone.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return m.CloneFunc(func(v V) V { return v })
}

// CloneFunc creates a new map with the same keys in the same order
// and values transformed by f.
func (m *Map[K, V]) CloneFunc(f func(V) V) *Map[K, V] {
	r := NewMap[K, V]()
	for k, v := range m.Iter() {
		r.Store(k, f(v))
	}
	return r
}

// Size returns the number of elements in the map.
func (m *Map[K, V]) Size() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

type gobMap[K comparable, V any] struct {
	Keys []K
	Vals []V
}

// GobEncode encodes the map as its ordered keys and values.
func (m *Map[K, V]) GobEncode() ([]byte, error) {
	enc := gobMap[K, V]{Keys: m.keys, Vals: make([]V, len(m.keys))}
	for i, k := range m.keys {
		enc.Vals[i] = m.m[k]
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(enc); err != nil {
		return nil, errors.Wrap(err, "cannot encode ordered map")
	}
	return buf.Bytes(), nil
}

// GobDecode decodes a map encoded by GobEncode.
func (m *Map[K, V]) GobDecode(data []byte) error {
	var dec gobMap[K, V]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&dec); err != nil {
		return errors.Wrap(err, "cannot decode ordered map")
	}
	if len(dec.Keys) != len(dec.Vals) {
		return errors.Errorf("ordered map has %d keys but %d values", len(dec.Keys), len(dec.Vals))
	}
	m.keys = nil
	m.m = make(map[K]V, len(dec.Keys))
	for i, k := range dec.Keys {
		m.Store(k, dec.Vals[i])
	}
	return nil
}

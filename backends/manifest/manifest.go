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

// Package manifest exports the list of instructions of the extensions
// defined in a model, for the tools integrating the extensions.
package manifest

import (
	"io"

	"github.com/pkg/errors"
	"github.com/seal5-go/seal5/base/ordered"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
	"gopkg.in/yaml.v3"
)

// Extension lists the instructions of an instruction set.
type Extension struct {
	// Model is the name of the model file, without extension.
	Model        string   `yaml:"model"`
	Instructions []string `yaml:"instructions"`
}

// Manifest maps the names of instruction sets to their extension,
// in the order of the model.
type Manifest struct {
	Extensions *ordered.Map[string, Extension]
}

// New returns the manifest of a model. stem is the name of the model
// file without extension.
func New(stem string, m *ir.Model) *Manifest {
	mf := &Manifest{Extensions: ordered.NewMap[string, Extension]()}
	for set := range m.Sets.Values() {
		ext := Extension{Model: stem, Instructions: []string{}}
		for name := range set.Instructions.Keys() {
			ext.Instructions = append(ext.Instructions, name)
		}
		mf.Extensions.Store(set.Name, ext)
	}
	return mf
}

const extensionsKey = "extensions"

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// MarshalYAML builds the YAML tree of the manifest, keeping the order
// of the extensions.
func (mf *Manifest) MarshalYAML() (any, error) {
	exts := &yaml.Node{Kind: yaml.MappingNode}
	for name, ext := range mf.Extensions.Iter() {
		val := &yaml.Node{}
		if err := val.Encode(ext); err != nil {
			return nil, errors.Wrapf(err, "cannot encode extension %s", name)
		}
		exts.Content = append(exts.Content, strNode(name), val)
	}
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{strNode(extensionsKey), exts},
	}, nil
}

// UnmarshalYAML reads a manifest from a YAML tree.
func (mf *Manifest) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmterr.Structuralf("line %d: manifest is not a mapping", node.Line)
	}
	mf.Extensions = ordered.NewMap[string, Extension]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != extensionsKey {
			continue
		}
		exts := node.Content[i+1]
		if exts.Kind != yaml.MappingNode {
			return fmterr.Structuralf("line %d: %s is not a mapping", exts.Line, extensionsKey)
		}
		for j := 0; j+1 < len(exts.Content); j += 2 {
			var ext Extension
			if err := exts.Content[j+1].Decode(&ext); err != nil {
				return errors.Wrapf(err, "cannot decode extension %s", exts.Content[j].Value)
			}
			mf.Extensions.Store(exts.Content[j].Value, ext)
		}
	}
	return nil
}

// Write the manifest as a YAML document.
func Write(w io.Writer, mf *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(mf); err != nil {
		return errors.Wrap(err, "cannot write manifest")
	}
	return errors.Wrap(enc.Close(), "cannot write manifest")
}

// Read a manifest from a YAML document.
func Read(r io.Reader) (*Manifest, error) {
	mf := &Manifest{}
	if err := yaml.NewDecoder(r).Decode(mf); err != nil {
		return nil, errors.Wrap(err, "cannot read manifest")
	}
	return mf, nil
}

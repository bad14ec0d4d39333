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

// Package storage reads and writes model files.
//
// A model file is a gob stream of a header identifying the format and
// its version, followed by the model. Two formats are supported:
//   - seal5 models (.seal5model) store the model itself. Seal5 models
//     never define cores.
//   - legacy models (.m2isarmodel) store a map of names to either
//     instruction sets or cores. All the values of the map have the
//     same type.
package storage

import (
	"bytes"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/seal5-go/seal5/base/ordered"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
	"golang.org/x/mod/semver"
)

// Format of a model file.
type Format string

// Supported formats. The value of a format is the extension of its files.
const (
	Seal5  Format = ".seal5model"
	Legacy Format = ".m2isarmodel"
)

// Version of the files written by this package.
// Files with a different major version cannot be read.
const Version = "v1.0.0"

type header struct {
	Format  Format
	Version string
}

func init() {
	// Behavior nodes.
	gob.Register(&ir.Operation{})
	gob.Register(&ir.BinaryOperation{})
	gob.Register(&ir.UnaryOperation{})
	gob.Register(&ir.SliceOperation{})
	gob.Register(&ir.ConcatOperation{})
	gob.Register(&ir.IntLiteral{})
	gob.Register(&ir.ScalarDefinition{})
	gob.Register(&ir.Break{})
	gob.Register(&ir.Assignment{})
	gob.Register(&ir.Conditional{})
	gob.Register(&ir.Loop{})
	gob.Register(&ir.Ternary{})
	gob.Register(&ir.Return{})
	gob.Register(&ir.NamedReference{})
	gob.Register(&ir.IndexedReference{})
	gob.Register(&ir.TypeConv{})
	gob.Register(&ir.Callable{})
	gob.Register(&ir.Group{})
	gob.Register(&ir.ProcedureCall{})
	// Encoding fields.
	gob.Register(&ir.BitVal{})
	gob.Register(&ir.BitField{})
	// Attribute values.
	gob.Register(ir.AttrExpr{})
	gob.Register(ir.AttrString(""))
	gob.Register(ir.AttrList{})
	// Units of legacy models.
	gob.Register(&ir.InstructionSet{})
	gob.Register(&ir.CoreDef{})
}

// FormatOf returns the format of a file given its path.
func FormatOf(path string) (Format, error) {
	switch ext := Format(filepath.Ext(path)); ext {
	case Seal5, Legacy:
		return ext, nil
	}
	return "", fmterr.Usagef("%s: unknown model file extension: want %s or %s", path, Seal5, Legacy)
}

// OutputPath returns the path of the file to write given the path of the
// input file and the output path set by the user. Without an output path,
// the input file is overwritten: its extension must be the one of a model.
func OutputPath(input, output string) (string, error) {
	if output != "" {
		return output, nil
	}
	if _, err := FormatOf(input); err != nil {
		return "", fmterr.PrefixWith("cannot overwrite the input file in place: ")(err)
	}
	return input, nil
}

func checkHeader(hdr header, want Format) error {
	if hdr.Format != want {
		return fmterr.Structuralf("model of format %q but want %q", hdr.Format, want)
	}
	if !semver.IsValid(hdr.Version) {
		return fmterr.Structuralf("invalid model version %q", hdr.Version)
	}
	if semver.Major(hdr.Version) != semver.Major(Version) {
		return fmterr.Structuralf("model version %s is not compatible with version %s", hdr.Version, Version)
	}
	return nil
}

// Encode writes a model in a given format.
func Encode(w io.Writer, format Format, m *ir.Model) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(header{Format: format, Version: Version}); err != nil {
		return errors.Wrap(err, "cannot encode header")
	}
	switch format {
	case Seal5:
		if m.Cores.Size() > 0 {
			return fmterr.Structuralf("a seal5 model cannot define cores")
		}
		return errors.Wrap(enc.Encode(m), "cannot encode model")
	case Legacy:
		units, err := toUnits(m)
		if err != nil {
			return err
		}
		return errors.Wrap(enc.Encode(units), "cannot encode model")
	}
	return fmterr.Usagef("unknown model format %q", format)
}

// Decode reads a model in a given format.
func Decode(r io.Reader, format Format) (*ir.Model, error) {
	dec := gob.NewDecoder(r)
	var hdr header
	if err := dec.Decode(&hdr); err != nil {
		return nil, errors.Wrap(err, "cannot decode header")
	}
	if err := checkHeader(hdr, format); err != nil {
		return nil, err
	}
	var m *ir.Model
	switch format {
	case Seal5:
		m = &ir.Model{}
		if err := dec.Decode(m); err != nil {
			return nil, errors.Wrap(err, "cannot decode model")
		}
		m.Normalize()
		if m.Cores.Size() > 0 {
			return nil, fmterr.Structuralf("a seal5 model cannot define cores")
		}
	case Legacy:
		units := ordered.NewMap[string, any]()
		if err := dec.Decode(units); err != nil {
			return nil, errors.Wrap(err, "cannot decode model")
		}
		var err error
		if m, err = fromUnits(units); err != nil {
			return nil, err
		}
	default:
		return nil, fmterr.Usagef("unknown model format %q", format)
	}
	return m, nil
}

// Load reads a model file.
func Load(path string) (*ir.Model, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	m, err := Decode(f, format)
	if err != nil {
		return nil, fmterr.PrefixWith("%s: ", path)(err)
	}
	return m, nil
}

// Save writes a model file. The file is not modified if the model
// cannot be encoded.
func Save(path string, m *ir.Model) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, format, m); err != nil {
		return fmterr.PrefixWith("%s: ", path)(err)
	}
	return errors.WithStack(os.WriteFile(path, buf.Bytes(), 0o644))
}

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


package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/seal5-go/seal5/backends/coredsl2"
	"github.com/seal5-go/seal5/backends/manifest"
	"github.com/seal5-go/seal5/base/logs"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
	"github.com/seal5-go/seal5/passes/dropunused"
	"github.com/seal5-go/seal5/passes/filter"
	"github.com/seal5-go/seal5/passes/fold"
	"github.com/seal5-go/seal5/passes/modrf"
	"github.com/seal5-go/seal5/passes/simplify"
	"github.com/seal5-go/seal5/storage"
	"github.com/seal5-go/seal5/tools/seal5flag"
)

// stem returns the name of the input file without its directory and extension.
func (e *env) stem() string {
	base := filepath.Base(e.input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sibling returns the path of a file next to the input file,
// named like the input file but with a different extension.
func (e *env) sibling(ext string) string {
	return filepath.Join(filepath.Dir(e.input), e.stem()+"."+ext)
}

// rewrite loads the input model, applies a pass, and saves the model.
// Output paths are checked before the model is loaded.
func (e *env) rewrite(pass func(context.Context, *ir.Model) error) error {
	out, err := storage.OutputPath(e.input, e.output)
	if err != nil {
		return err
	}
	if _, err := storage.FormatOf(out); err != nil {
		return err
	}
	m, err := storage.Load(e.input)
	if err != nil {
		return err
	}
	if err := pass(e.ctx, m); err != nil {
		return err
	}
	if err := storage.Save(out, m); err != nil {
		return err
	}
	logs.Debugw(e.ctx, "model written", "path", out)
	return nil
}

// writeFile writes the content of a buffer into a file.
func writeFile(path string, buf *bytes.Buffer) error {
	return errors.WithStack(os.WriteFile(path, buf.Bytes(), 0o644))
}

func dropUnused(*flag.FlagSet) func(*env) error {
	return func(e *env) error {
		return e.rewrite(func(ctx context.Context, m *ir.Model) error {
			_, err := dropunused.Run(ctx, m)
			return err
		})
	}
}

func eliminateRFMod(fs *flag.FlagSet) func(*env) error {
	size := fs.Int64("register-file-size", modrf.DefaultRegisterFileSize, "number of registers in the register file")
	return func(e *env) error {
		cfg := modrf.Config{RegisterFileSize: *size}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return e.rewrite(func(ctx context.Context, m *ir.Model) error {
			return modrf.Run(ctx, cfg, m)
		})
	}
}

func foldConstants(*flag.FlagSet) func(*env) error {
	return func(e *env) error {
		return e.rewrite(func(ctx context.Context, m *ir.Model) error {
			_, err := fold.Run(ctx, m)
			return err
		})
	}
}

func simplifySlices(*flag.FlagSet) func(*env) error {
	return func(e *env) error {
		return e.rewrite(func(ctx context.Context, m *ir.Model) error {
			_, err := simplify.Run(ctx, m)
			return err
		})
	}
}

func filterModel(fs *flag.FlagSet) func(*env) error {
	keepSets := seal5flag.StringList(fs, "keep-sets", "regular expressions of the instruction sets to keep")
	dropSets := seal5flag.StringList(fs, "drop-sets", "regular expressions of the instruction sets to drop")
	keepInstrs := seal5flag.StringList(fs, "keep-instrs", "regular expressions of the instructions to keep")
	dropInstrs := seal5flag.StringList(fs, "drop-instrs", "regular expressions of the instructions to drop")
	keepOpcodes := seal5flag.StringList(fs, "keep-opcodes", "major opcodes of the instructions to keep, by name or value")
	dropOpcodes := seal5flag.StringList(fs, "drop-opcodes", "major opcodes of the instructions to drop, by name or value")
	keepSizes := seal5flag.IntList(fs, "keep-encoding-sizes", "encoding widths, in bits, of the instructions to keep")
	dropSizes := seal5flag.IntList(fs, "drop-encoding-sizes", "encoding widths, in bits, of the instructions to drop")
	return func(e *env) error {
		f, err := filter.New(filter.Config{
			Sets:         filter.Patterns{Keep: *keepSets, Drop: *dropSets},
			Instructions: filter.Patterns{Keep: *keepInstrs, Drop: *dropInstrs},
			Opcodes:      filter.Opcodes{Keep: *keepOpcodes, Drop: *dropOpcodes},
			Sizes:        filter.Sizes{Keep: *keepSizes, Drop: *dropSizes},
		})
		if err != nil {
			return err
		}
		return e.rewrite(f.Apply)
	}
}

// cdsl2Target returns the directory where CoreDSL2 files are written,
// and the path of the file in batch mode.
func (e *env) cdsl2Target(split bool, ext string) (dir, path string, err error) {
	if !split {
		if e.output != "" {
			return filepath.Dir(e.output), e.output, nil
		}
		path = e.sibling(ext)
		return filepath.Dir(path), path, nil
	}
	dir = e.output
	if dir == "" {
		dir = filepath.Dir(e.input)
	}
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return dir, "", nil
	case err != nil:
		return "", "", errors.WithStack(err)
	case !info.IsDir():
		return "", "", fmterr.Usagef("%s is not a directory: an output directory is required in split mode", dir)
	}
	return dir, "", nil
}

func writeCDSL2(fs *flag.FlagSet) func(*env) error {
	compat := fs.Bool("compat", false, "write the compat dialect (no operands, constraints, or architectural state)")
	split := fs.Bool("splitted", false, "write a file per instruction in the output directory")
	ext := fs.String("ext", coredsl2.DefaultExt, "extension of the generated files")
	return func(e *env) error {
		dir, path, err := e.cdsl2Target(*split, *ext)
		if err != nil {
			return err
		}
		m, err := storage.Load(e.input)
		if err != nil {
			return err
		}
		units, err := coredsl2.Generate(m, coredsl2.Options{Compat: *compat, Split: *split})
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WithStack(err)
		}
		for _, unit := range units {
			target := path
			if *split {
				target = filepath.Join(dir, unit.FileName(e.stem(), *ext))
			}
			if err := writeFile(target, bytes.NewBufferString(unit.Text)); err != nil {
				return err
			}
			logs.Debugw(e.ctx, "CoreDSL2 written", "path", target)
		}
		logs.Infow(e.ctx, "CoreDSL2 generated", "files", len(units), "compat", *compat)
		return nil
	}
}

func exportYAML(*flag.FlagSet) func(*env) error {
	return func(e *env) error {
		out := e.output
		if out == "" {
			out = e.sibling("yml")
		}
		m, err := storage.Load(e.input)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := manifest.Write(&buf, manifest.New(e.stem(), m)); err != nil {
			return err
		}
		if err := writeFile(out, &buf); err != nil {
			return err
		}
		logs.Infow(e.ctx, "manifest written", "path", out, "sets", m.Sets.Size())
		return nil
	}
}

func dump(*flag.FlagSet) func(*env) error {
	return func(e *env) error {
		m, err := storage.Load(e.input)
		if err != nil {
			return err
		}
		cfg := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
		}
		if e.output == "" {
			cfg.Fdump(e.stdout, m)
			return nil
		}
		var buf bytes.Buffer
		cfg.Fdump(&buf, m)
		return writeFile(e.output, &buf)
	}
}

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


// Command seal5 transforms ISA metamodels and writes them as CoreDSL2.
//
// Usage:
//
//	seal5 <command> [flags] <model file>
//
// Each command loads a .seal5model or .m2isarmodel file, processes it,
// and writes the result to --output or, without --output, back to the
// input file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/seal5-go/seal5/base/logs"
	"github.com/seal5-go/seal5/build/fmterr"
)

// env is the environment of a command once its flags are parsed.
type env struct {
	ctx    context.Context
	input  string
	output string
	stdout io.Writer
}

type command struct {
	name string
	doc  string
	// setup registers the flags of the command and returns the function
	// running the command.
	setup func(fs *flag.FlagSet) func(*env) error
}

var commands = []command{
	{"drop-unused", "remove the constants, memories, and functions not used by any instruction", dropUnused},
	{"eliminate-rf-mod", "remove the modulo of register indices by the register file size", eliminateRFMod},
	{"fold", "fold constant expressions and make truncations explicit", foldConstants},
	{"simplify-slices", "replace slices selecting all the bits of an expression by the expression", simplifySlices},
	{"filter", "select the instruction sets and instructions to keep", filterModel},
	{"write-cdsl2", "write the model in CoreDSL2", writeCDSL2},
	{"export-yaml", "write the extension manifest of the model", exportYAML},
	{"dump", "print the model in memory", dump},
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: seal5 <command> [flags] <model file>\n\ncommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-18s %s\n", cmd.name, cmd.doc)
	}
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

// parse parses flags placed before or after positional arguments.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return fmterr.Usagef("no command specified")
	}
	cmd, ok := lookup(args[0])
	if !ok {
		usage(stderr)
		return fmterr.Usagef("unknown command %q", args[0])
	}
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("output", "", "path of the output (default: overwrite the input)")
	logLevel := fs.String("log", logs.Info.String(), "minimum level of the logs: debug, info, warning, or error")
	exec := cmd.setup(fs)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: seal5 %s [flags] <model file>\n\n%s\n\nflags:\n", cmd.name, cmd.doc)
		fs.PrintDefaults()
	}
	positional, err := parse(fs, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmterr.Usagef("%v", err)
	}
	if len(positional) != 1 {
		return fmterr.Usagef("%s: want a single model file but got %d arguments: %s", cmd.name, len(positional), strings.Join(positional, " "))
	}
	lvl, err := logs.ParseLevel(*logLevel)
	if err != nil {
		return fmterr.Usagef("%v", err)
	}
	err = exec(&env{
		ctx:    logs.NewContext(ctx, stderr, lvl),
		input:  positional[0],
		output: *output,
		stdout: stdout,
	})
	if lvl == logs.Debug {
		err = fmterr.Verbose(err)
	}
	return err
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "seal5: %v\n", err)
		os.Exit(1)
	}
}

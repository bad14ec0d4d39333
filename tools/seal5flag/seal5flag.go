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

// Package seal5flag provides flag types for seal5 tools.
package seal5flag

import (
	"flag"
	"strconv"
	"strings"

	"github.com/seal5-go/seal5/build/fmterr"
)

func split(values string, f func(string) error) error {
	for _, value := range strings.Split(values, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if err := f(value); err != nil {
			return err
		}
	}
	return nil
}

type stringList struct {
	list *[]string
}

func (sl *stringList) String() string {
	if sl.list == nil {
		return ""
	}
	return strings.Join(*sl.list, ",")
}

func (sl *stringList) Set(values string) error {
	return split(values, func(value string) error {
		*sl.list = append(*sl.list, value)
		return nil
	})
}

// StringList returns a flag to pass a comma separated list of strings
// from the command line. The flag can be repeated.
func StringList(fs *flag.FlagSet, name, doc string) *[]string {
	var list []string
	fs.Var(&stringList{&list}, name, doc)
	return &list
}

type intList struct {
	list *[]int
}

func (il *intList) String() string {
	if il.list == nil {
		return ""
	}
	s := make([]string, len(*il.list))
	for i, v := range *il.list {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}

func (il *intList) Set(values string) error {
	return split(values, func(value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmterr.Usagef("%q is not an integer", value)
		}
		*il.list = append(*il.list, v)
		return nil
	})
}

// IntList returns a flag to pass a comma separated list of integers
// from the command line. The flag can be repeated.
func IntList(fs *flag.FlagSet, name, doc string) *[]int {
	var list []int
	fs.Var(&intList{&list}, name, doc)
	return &list
}

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

// Package coredsl2 writes models as CoreDSL2 descriptions.
//
// Two dialects are supported. The seal5 dialect writes all the information
// of the model. The compat dialect writes the subset accepted by legacy
// tools: no architectural state, no operand or constraint blocks, no
// attribute values, and assembly templates without mnemonics.
package coredsl2

import (
	"strings"
)

const indentation = "    "

// Writer accumulates CoreDSL2 text.
type Writer struct {
	compat bool
	level  int
	text   strings.Builder
}

// Option of a writer.
type Option func(*Writer)

// WithCompat selects the compat dialect if compat is true.
func WithCompat(compat bool) Option {
	return func(w *Writer) {
		w.compat = compat
	}
}

// NewWriter returns a new writer. The seal5 dialect is used by default.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Compat returns true if the writer uses the compat dialect.
func (w *Writer) Compat() bool {
	return w.compat
}

// Level returns the current indentation level.
func (w *Writer) Level() int {
	return w.level
}

// String returns the text written so far.
func (w *Writer) String() string {
	return w.text.String()
}

func (w *Writer) last() byte {
	s := w.text.String()
	if len(s) == 0 {
		return '\n'
	}
	return s[len(s)-1]
}

func (w *Writer) atLineStart() bool {
	return w.last() == '\n'
}

func (w *Writer) needsSpace() bool {
	last := w.last()
	return last != '\n' && last != ' '
}

// Write appends text. The text is indented if it starts a new line.
func (w *Writer) Write(s string) {
	if s == "" {
		return
	}
	if w.atLineStart() {
		w.text.WriteString(strings.Repeat(indentation, w.level))
	}
	w.text.WriteString(s)
}

// WriteWord appends text, separated from the previous text by a space
// unless the line is empty or already ends with a space.
func (w *Writer) WriteWord(s string) {
	if w.needsSpace() {
		w.text.WriteString(" ")
	}
	w.Write(s)
}

// WriteLine appends text and terminates the line.
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.text.WriteString("\n")
}

// EnterBlock increases the indentation level, opening a brace first if
// brace is true.
func (w *Writer) EnterBlock(brace bool) {
	if brace {
		w.WriteWord("{")
		w.WriteLine("")
	}
	w.level++
}

func (w *Writer) leave(brace bool) {
	if w.level <= 0 {
		panic("coredsl2: LeaveBlock called without a matching EnterBlock")
	}
	w.level--
	if !brace {
		return
	}
	if !w.atLineStart() {
		w.WriteLine("")
	}
	w.Write("}")
}

// LeaveBlock decreases the indentation level, closing a brace on its own
// line if brace is true.
func (w *Writer) LeaveBlock(brace bool) {
	w.leave(brace)
	if brace {
		w.WriteLine("")
	}
}

// Copyright © 2018-2020 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package pipeline holds the state and error taxonomy shared across the
// graph-engineering stages: the read-only context threaded through
// workers, and the fatal error kinds every stage reports through.
package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a fatal pipeline error.
type Kind int

const (
	// InputValidation covers malformed manifests, duplicate ids, missing
	// files, invalid phenotype values.
	InputValidation Kind = iota
	// InvariantViolation covers bugs in the upstream graph: unresolvable
	// strand, k-mer outside its own unitig, dangling edge endpoint.
	InvariantViolation
	// ExternalTool covers non-zero exit / unreadable output from a spawned
	// child process (BLAST, Rscript, the renderer).
	ExternalTool
	// IO covers open/read/write failures.
	IO
)

func (k Kind) String() string {
	switch k {
	case InputValidation:
		return "InputValidation"
	case InvariantViolation:
		return "InvariantViolation"
	case ExternalTool:
		return "ExternalTool"
	case IO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Error is a fatal pipeline error tagged with a Kind. All Errors are fatal;
// none are retried.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// NewError builds an Error, attaching a stack trace via pkg/errors to its
// cause. The CLI layer prints only Error(), not the stack trace.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.New(fmt.Sprintf(format, args...)),
	}
}

// Wrap tags an existing error with a Kind, preserving it as the cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.Wrap(err, fmt.Sprintf(format, args...)),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

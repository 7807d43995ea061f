// Copyright © 2025 Meroxa, Inc.
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

// Package multierror combines several errors into one, so that a failure in
// cleanup code does not hide the error that caused it.
package multierror

import "strings"

// Error holds a list of errors. It supports cerrors.Is and cerrors.As on
// every contained error.
type Error struct {
	errs []error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var sb strings.Builder
	for i, err := range e.errs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Errors returns the contained errors in the order they were appended.
func (e *Error) Errors() []error {
	return e.errs
}

// Unwrap exposes the contained errors to cerrors.Is and cerrors.As.
func (e *Error) Unwrap() []error {
	return e.errs
}

// Append appends errs to err and returns the combined error. Nil errors are
// skipped. If only one non-nil error remains it is returned as is, otherwise
// the result is an *Error.
func Append(err error, errs ...error) error {
	e1 := err
	for _, e2 := range errs {
		e1 = appendInternal(e1, e2)
	}
	return e1
}

func appendInternal(e1 error, e2 error) error {
	if e1 == nil {
		return e2
	}
	if e2 == nil {
		return e1
	}

	switch err := e1.(type) {
	case *Error:
		err.errs = append(err.errs, e2)
		return err
	default:
		return &Error{errs: []error{e1, e2}}
	}
}

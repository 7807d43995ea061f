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

// Package partition groups records by the object they will be uploaded to
// and flushes each group to a file in the run workspace.
package partition

import (
	"strings"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/singer"
	"github.com/conduitio/conduit-target-s3/pkg/workspace"
)

// Separator joins the stream name and the upload date in a partition key.
// Stream names must not contain it when date partitioning is active.
const Separator = "date_to_upload"

var (
	// ErrFieldMissing is returned when the configured date field is absent
	// from a record.
	ErrFieldMissing = cerrors.New("date field missing")

	// ErrAmbiguousKey is returned when a stream name or date contains the
	// separator, so the key could not be split back unambiguously.
	ErrAmbiguousKey = cerrors.New("ambiguous partition key")

	// ErrInvalidStream is returned when a key segment can not be used as a
	// file name or object key segment.
	ErrInvalidStream = cerrors.New("invalid stream or date segment")
)

// Key identifies the group of records that end up in the same object.
type Key string

// Split returns the stream name and date of a date partitioned key. ok is
// false if the key carries no date.
func (k Key) Split() (stream, date string, ok bool) {
	return strings.Cut(string(k), Separator)
}

// Options controls how keys are derived.
type Options struct {
	// DateField names the record field supplying the date of the record.
	// It takes precedence over Date.
	DateField string
	// Date is a fixed date appended to all keys.
	Date string
}

// DatePartitioned reports whether keys carry a date.
func (o Options) DatePartitioned() bool {
	return o.DateField != "" || o.Date != ""
}

// Resolver derives partition keys from records. It is stateless, the same
// record and options always produce the same key.
type Resolver struct {
	opts Options
}

func NewResolver(opts Options) Resolver {
	return Resolver{opts: opts}
}

func (r Resolver) Options() Options {
	return r.opts
}

// Resolve returns the partition key of rec.
func (r Resolver) Resolve(rec singer.Record) (Key, error) {
	if err := validSegment("stream", rec.Stream); err != nil {
		return "", err
	}
	if !r.opts.DatePartitioned() {
		return Key(rec.Stream), nil
	}
	if strings.Contains(rec.Stream, Separator) {
		return "", cerrors.Errorf("stream %q contains %q: %w", rec.Stream, Separator, ErrAmbiguousKey)
	}

	date, err := r.date(rec)
	if err != nil {
		return "", err
	}
	if err := validSegment("date", date); err != nil {
		return "", err
	}
	if strings.Contains(date, Separator) {
		return "", cerrors.Errorf("date %q of stream %q contains %q: %w", date, rec.Stream, Separator, ErrAmbiguousKey)
	}
	return Key(rec.Stream + Separator + date), nil
}

func (r Resolver) date(rec singer.Record) (string, error) {
	if r.opts.DateField == "" {
		return r.opts.Date, nil
	}

	v, ok := rec.Fields[r.opts.DateField]
	if !ok {
		return "", cerrors.Errorf("record of stream %q has no field %q: %w", rec.Stream, r.opts.DateField, ErrFieldMissing)
	}
	date, ok := v.(string)
	if !ok {
		return "", cerrors.Errorf("field %q of stream %q must be a string, got %T: %w", r.opts.DateField, rec.Stream, v, singer.ErrSchema)
	}
	return date, nil
}

func validSegment(name, s string) error {
	if !workspace.ValidName(s) {
		return cerrors.Errorf("%s %q can not be used as a file name: %w", name, s, ErrInvalidStream)
	}
	return nil
}

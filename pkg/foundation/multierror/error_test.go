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

package multierror_test

import (
	"testing"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/multierror"
	"github.com/matryer/is"
)

func TestAppend(t *testing.T) {
	errA := cerrors.New("upload failed")
	testCases := []struct {
		name string
		err  error
		errs []error
		want error
	}{{
		name: "nil to nil",
		want: nil,
	}, {
		name: "error to nil",
		errs: []error{errA},
		want: errA,
	}, {
		name: "nil to error",
		err:  errA,
		errs: []error{nil},
		want: errA,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			got := multierror.Append(tc.err, tc.errs...)
			is.Equal(got, tc.want)
		})
	}

}

func TestAppend_Combined(t *testing.T) {
	is := is.New(t)

	errA := cerrors.New("upload failed")
	errB := cerrors.New("remove workspace failed")

	got := multierror.Append(errA, errB)
	merr, ok := got.(*multierror.Error)
	is.True(ok)
	is.Equal(len(merr.Errors()), 2)
	is.Equal(got.Error(), "upload failed\nremove workspace failed")

	is.True(cerrors.Is(got, errA))
	is.True(cerrors.Is(got, errB))
}

func TestAppend_FlattensIntoExisting(t *testing.T) {
	is := is.New(t)

	errs := []error{
		cerrors.New("err 1"),
		cerrors.New("err 2"),
		cerrors.New("err 3"),
	}

	got := multierror.Append(errs[0], errs[1])
	got = multierror.Append(got, errs[2])

	merr, ok := got.(*multierror.Error)
	is.True(ok)
	is.Equal(len(merr.Errors()), 3)
	for i, err := range merr.Errors() {
		is.Equal(err, errs[i])
	}
}

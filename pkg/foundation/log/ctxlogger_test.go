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

package log

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestCtxLogger(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		logfunc func(CtxLogger)
		want    string
	}{{
		name: "info one-field",
		logfunc: func(logger CtxLogger) {
			logger.Info(ctx).Str(StreamField, "users").Msg("")
		},
		want: `{"level":"info","stream":"users"}` + "\n",
	}, {
		name: "debug two-field",
		logfunc: func(logger CtxLogger) {
			logger.Debug(ctx).
				Str(PartitionKeyField, "users").
				Int(RecordsField, 3).
				Msg("")
		},
		want: `{"level":"debug","partition_key":"users","records":3}` + "\n",
	}, {
		name: "warn with component",
		logfunc: func(logger CtxLogger) {
			logger.WithComponent("upload.Uploader").Warn(ctx).Msg("")
		},
		want: `{"level":"warn","component":"upload.Uploader"}` + "\n",
	}, {
		name: "err with error",
		logfunc: func(logger CtxLogger) {
			logger.Err(ctx, cerrors.New("foo")).Msg("")
		},
		want: `{"level":"error","stack":\[{"func":"github.com/conduitio/conduit-target-s3/pkg/foundation/log.TestCtxLogger.func\d*","file":".*/pkg/foundation/log/ctxlogger_test.go","line":\d*}\],"error":"foo"}`,
	}, {
		name: "err without error",
		logfunc: func(logger CtxLogger) {
			logger.Err(ctx, nil).Str(BucketField, "b").Msg("")
		},
		want: `{"level":"info","bucket":"b"}` + "\n",
	}, {
		name: "with level",
		logfunc: func(logger CtxLogger) {
			logger.WithLevel(ctx, zerolog.ErrorLevel).Msg("")
		},
		want: `{"level":"error"}` + "\n",
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			logger := New(zerolog.New(&out).With().Stack().Logger())
			tc.logfunc(logger)
			got := out.String()
			matched, err := regexp.Match(tc.want, []byte(got))
			if !matched || err != nil {
				t.Errorf("invalid log output:\ngot:  %v\nwant: %v", got, tc.want)
			}
		})
	}
}

type componentType struct{}

func TestWithComponentFromType(t *testing.T) {
	is := is.New(t)

	logger := Nop().WithComponentFromType(&componentType{})
	is.Equal(logger.Component(), "foundation.log.componentType")
}

func TestDisabledEvent(t *testing.T) {
	var out bytes.Buffer
	logger := New(zerolog.New(&out).Level(zerolog.WarnLevel))
	logger.Info(context.Background()).Msg("this log should not be written")
	if got, want := out.String(), ""; got != want {
		t.Errorf("invalid log output:\ngot:  %v\nwant: %v", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	is := is.New(t)

	f, err := ParseFormat("json")
	is.NoErr(err)
	is.Equal(f, FormatJSON)

	f, err = ParseFormat("cli")
	is.NoErr(err)
	is.Equal(f, FormatCLI)

	_, err = ParseFormat("xml")
	is.True(err != nil)
}

func TestInitLogger_JSON(t *testing.T) {
	is := is.New(t)

	var out bytes.Buffer
	logger := InitLogger(&out, zerolog.InfoLevel, FormatJSON)
	logger.Debug(context.Background()).Msg("hidden")
	logger.Info(context.Background()).Msg("shown")

	is.True(!bytes.Contains(out.Bytes(), []byte("hidden")))
	is.True(bytes.Contains(out.Bytes(), []byte(`"message":"shown"`)))
}

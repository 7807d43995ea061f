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
	"io"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/rs/zerolog"
)

type Format int

const (
	FormatCLI Format = iota
	FormatJSON
)

func ParseFormat(format string) (Format, error) {
	switch format {
	case "cli":
		return FormatCLI, nil
	case "json":
		return FormatJSON, nil
	default:
		return -1, cerrors.Errorf("unsupported log format: %s", format)
	}
}

// GetWriter wraps w in a console writer for the CLI format. Stdout carries
// the state protocol, so callers pass stderr.
func GetWriter(w io.Writer, f Format) io.Writer {
	if f == FormatCLI {
		cw := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = w
			cw.TimeFormat = "2006-01-02T15:04:05+00:00"
		})
		return cw
	}
	return w
}

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

package singer

import (
	"bufio"
	"bytes"
	"io"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/goccy/go-json"
)

var null = []byte("null")

// Decode parses a single protocol line. It fails with ErrDecode if the line is
// not valid JSON and with ErrSchema if required keys are missing.
func Decode(line []byte) (Message, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(line, &envelope); err != nil {
		if !json.Valid(line) {
			return nil, cerrors.Errorf("unable to parse %q: %w", truncate(line), ErrDecode)
		}
		return nil, cerrors.Errorf("line is not a JSON object: %w", ErrSchema)
	}

	rawType, ok := envelope["type"]
	if !ok {
		return nil, cerrors.Errorf("line is missing required key \"type\": %w", ErrSchema)
	}
	var typ string
	if err := json.Unmarshal(rawType, &typ); err != nil {
		return nil, cerrors.Errorf("key \"type\" must be a string: %w", ErrSchema)
	}

	switch typ {
	case TypeRecord:
		return decodeRecord(envelope)
	case TypeState:
		value, ok := envelope["value"]
		if !ok {
			return nil, cerrors.Errorf("STATE is missing required key \"value\": %w", ErrSchema)
		}
		return State{Value: value}, nil
	default:
		return Other{MessageType: typ}, nil
	}
}

func decodeRecord(envelope map[string]json.RawMessage) (Record, error) {
	rawStream, ok := envelope["stream"]
	if !ok {
		return Record{}, cerrors.Errorf("RECORD is missing required key \"stream\": %w", ErrSchema)
	}
	var stream string
	if err := json.Unmarshal(rawStream, &stream); err != nil || stream == "" {
		return Record{}, cerrors.Errorf("key \"stream\" must be a non-empty string: %w", ErrSchema)
	}

	rawRecord, ok := envelope["record"]
	if !ok {
		return Record{}, cerrors.Errorf("RECORD for stream %q is missing required key \"record\": %w", stream, ErrSchema)
	}
	var fields map[string]any
	if bytes.Equal(rawRecord, null) || json.Unmarshal(rawRecord, &fields) != nil {
		return Record{}, cerrors.Errorf("key \"record\" of stream %q must be an object: %w", stream, ErrSchema)
	}

	return Record{Stream: stream, Fields: fields}, nil
}

// truncate keeps error messages readable for huge lines.
func truncate(line []byte) []byte {
	const maxLen = 256
	line = bytes.TrimRight(line, "\r\n")
	if len(line) > maxLen {
		return line[:maxLen]
	}
	return line
}

// Reader reads protocol lines from an input stream. Lines are returned
// verbatim, including the trailing newline if there was one.
type Reader struct {
	r    *bufio.Reader
	line int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next raw line and its decoded message. It returns io.EOF
// once the input is exhausted. Decoding errors are annotated with the line
// number.
func (r *Reader) Next() ([]byte, Message, error) {
	raw, err := r.r.ReadBytes('\n')
	switch {
	case err == nil:
	case cerrors.Is(err, io.EOF):
		// the last line may not be terminated by a newline
		if len(raw) == 0 {
			return nil, nil, io.EOF
		}
	default:
		return nil, nil, cerrors.Errorf("failed to read input: %w", err)
	}
	r.line++

	msg, err := Decode(raw)
	if err != nil {
		return nil, nil, cerrors.Errorf("line %d: %w", r.line, err)
	}
	return raw, msg, nil
}

// Line returns the number of the last line returned by Next.
func (r *Reader) Line() int {
	return r.line
}

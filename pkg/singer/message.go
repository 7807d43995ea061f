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

// Package singer decodes the newline delimited JSON protocol spoken by
// extractors ("taps"): RECORD, STATE and other messages, one per line.
package singer

import (
	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/goccy/go-json"
)

const (
	TypeRecord = "RECORD"
	TypeState  = "STATE"
)

var (
	// ErrDecode is returned for lines that are not valid JSON.
	ErrDecode = cerrors.New("decode error")
	// ErrSchema is returned for valid JSON that is missing a required
	// protocol field or carries a field of the wrong type.
	ErrSchema = cerrors.New("schema error")
)

// Message is one decoded protocol line. It is one of Record, State or Other.
type Message interface {
	// Type returns the value of the "type" key.
	Type() string
	isMessage()
}

// Record is a single row belonging to a stream.
type Record struct {
	Stream string
	Fields map[string]any
}

// State carries an opaque checkpoint emitted by the tap.
type State struct {
	// Value is the raw JSON payload of the "value" key.
	Value json.RawMessage
}

// Other is any message that is neither a record nor a state, e.g. SCHEMA.
type Other struct {
	MessageType string
}

func (Record) Type() string  { return TypeRecord }
func (State) Type() string   { return TypeState }
func (o Other) Type() string { return o.MessageType }

func (Record) isMessage() {}
func (State) isMessage()  {}
func (Other) isMessage()  {}

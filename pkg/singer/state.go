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
	"bytes"
	"io"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/goccy/go-json"
)

// CompactValue returns the state value without insignificant whitespace.
func CompactValue(value json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return nil, cerrors.Errorf("invalid state value: %w", err)
	}
	return buf.Bytes(), nil
}

// EmitState writes the state value to w as a single JSON line, so that a
// downstream process can follow the progress of the target.
func EmitState(w io.Writer, value json.RawMessage) error {
	if value == nil {
		return nil
	}
	line, err := CompactValue(value)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		return cerrors.Errorf("failed to emit state: %w", err)
	}
	return nil
}

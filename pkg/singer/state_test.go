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
	"testing"

	"github.com/goccy/go-json"
	"github.com/matryer/is"
)

func TestEmitState(t *testing.T) {
	is := is.New(t)

	var out bytes.Buffer
	is.NoErr(EmitState(&out, json.RawMessage(`{ "bookmark" : 5 }`)))
	is.NoErr(EmitState(&out, json.RawMessage(`{"bookmark":6}`)))

	is.Equal(out.String(), "{\"bookmark\":5}\n{\"bookmark\":6}\n")
}

func TestEmitState_Nil(t *testing.T) {
	is := is.New(t)

	var out bytes.Buffer
	is.NoErr(EmitState(&out, nil))
	is.Equal(out.Len(), 0)
}

func TestCompactValue_Invalid(t *testing.T) {
	is := is.New(t)

	_, err := CompactValue(json.RawMessage(`{"bookmark":`))
	is.True(err != nil)
}

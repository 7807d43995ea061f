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

package upload

import (
	"path"
	"time"

	"github.com/conduitio/conduit-target-s3/pkg/partition"
)

// DateLayout is the format of the date segment derived from the clock.
const DateLayout = "2006-01-02"

// KeyBuilder derives object keys of the form
// <prefix>/<client>/<stream>/<date>/<stream> from partition keys.
type KeyBuilder struct {
	Prefix string
	Client string
	// DatePartitioned must match the resolver options that produced the
	// partition keys.
	DatePartitioned bool
	// Now returns the current time, its date in the local zone is used for
	// keys that carry no date of their own.
	Now func() time.Time
}

// Build returns the object key of the partition.
func (b KeyBuilder) Build(key partition.Key) string {
	stream, date := string(key), ""
	if b.DatePartitioned {
		if s, d, ok := key.Split(); ok {
			stream, date = s, d
		}
	}
	if date == "" {
		now := time.Now
		if b.Now != nil {
			now = b.Now
		}
		date = now().Format(DateLayout)
	}
	return path.Join(b.Prefix, b.Client, stream, date, stream)
}

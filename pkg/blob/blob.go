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

//go:generate mockgen -destination=mock/store.go -package=mock -mock_names=Store=Store . Store

// Package blob defines the object store the partitions are uploaded to.
// Backends live in sub-packages.
package blob

import "context"

// ContentType of uploaded partition objects.
const ContentType = "application/x-ndjson"

// Store uploads local files as objects. A nil error from Put means the object
// was stored under key; the caller does not verify it.
type Store interface {
	// Put uploads the file at path to bucket under key, overwriting any
	// existing object.
	Put(ctx context.Context, bucket, key, path string) error
	// Close releases resources held by the store.
	Close() error
}

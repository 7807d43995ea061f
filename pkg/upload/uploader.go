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

// Package upload pushes flushed partitions to a blob store.
package upload

import (
	"context"
	"time"

	"github.com/conduitio/conduit-target-s3/pkg/blob"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/metrics"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/metrics/noop"
	"github.com/conduitio/conduit-target-s3/pkg/partition"
)

// ErrUpload is returned when the store rejects a partition.
var ErrUpload = cerrors.New("upload error")

// Metrics collects upload instruments, nil fields fall back to no-ops.
type Metrics struct {
	Objects  metrics.Counter
	Bytes    metrics.Counter
	Duration metrics.Timer
}

type Uploader struct {
	store   blob.Store
	bucket  string
	keys    KeyBuilder
	logger  log.CtxLogger
	metrics Metrics
}

func NewUploader(logger log.CtxLogger, store blob.Store, bucket string, keys KeyBuilder, m Metrics) *Uploader {
	if m.Objects == nil {
		m.Objects = noop.Counter{}
	}
	if m.Bytes == nil {
		m.Bytes = noop.Counter{}
	}
	if m.Duration == nil {
		m.Duration = noop.Timer{}
	}
	return &Uploader{
		store:   store,
		bucket:  bucket,
		keys:    keys,
		logger:  logger.WithComponentFromType(Uploader{}),
		metrics: m,
	}
}

// UploadAll uploads files in the given order and stops at the first
// failure. Files uploaded before the failure are left in the store.
func (u *Uploader) UploadAll(ctx context.Context, files []partition.File) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return cerrors.Errorf("upload of %q interrupted (%v): %w", f.Key, err, ErrUpload)
		}
		if err := u.upload(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (u *Uploader) upload(ctx context.Context, f partition.File) error {
	key := u.keys.Build(f.Key)
	u.logger.Info(ctx).
		Str(log.PartitionKeyField, string(f.Key)).
		Str(log.BucketField, u.bucket).
		Str(log.ObjectKeyField, key).
		Str(log.FilepathField, f.Path).
		Msg("uploading")

	start := time.Now()
	if err := u.store.Put(ctx, u.bucket, key, f.Path); err != nil {
		return cerrors.Errorf("failed to upload partition %q to %q (%v): %w", f.Key, key, err, ErrUpload)
	}
	took := time.Since(start)

	u.metrics.Objects.Inc()
	u.metrics.Bytes.Inc(float64(f.Size))
	u.metrics.Duration.Update(took)

	u.logger.Info(ctx).
		Str(log.ObjectKeyField, key).
		Int(log.RecordsField, f.Records).
		Int64(log.BytesField, f.Size).
		Dur(log.DurationField, took).
		Msg("uploaded")
	return nil
}

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

// Package gcs uploads partitions to Google Cloud Storage.
package gcs

import (
	"context"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/conduitio/conduit-target-s3/pkg/blob"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"google.golang.org/api/option"
)

// Config of the GCS client. Credentials are resolved through Application
// Default Credentials.
type Config struct {
	// Endpoint overrides the storage endpoint, e.g. for an emulator.
	Endpoint string
}

// Store is a blob.Store backed by a GCS bucket.
type Store struct {
	client *storage.Client
	logger log.CtxLogger
}

var _ blob.Store = (*Store)(nil)

func New(ctx context.Context, logger log.CtxLogger, cfg Config, opts ...option.ClientOption) (*Store, error) {
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, cerrors.Errorf("failed to create GCS client: %w", err)
	}
	return &Store{
		client: client,
		logger: logger.WithComponentFromType(Store{}),
	}, nil
}

func (s *Store) Put(ctx context.Context, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return cerrors.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	// cancelling ctx aborts the upload, the object is only created on Close
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.client.Bucket(bucket).Object(key).NewWriter(wctx)
	w.ContentType = blob.ContentType

	n, err := io.Copy(w, f)
	if err != nil {
		cancel()
		_ = w.Close()
		return cerrors.Errorf("failed to write gs://%s/%s: %w", bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return cerrors.Errorf("failed to finalize gs://%s/%s: %w", bucket, key, err)
	}

	s.logger.Trace(ctx).
		Str(log.BucketField, bucket).
		Str(log.ObjectKeyField, key).
		Int64(log.BytesField, n).
		Msg("object stored")
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

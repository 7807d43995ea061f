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

// Package s3 uploads partitions to Amazon S3 or an S3 compatible store.
package s3

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/conduitio/conduit-target-s3/pkg/blob"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
)

// Config of the S3 client. Credentials are resolved by the default AWS
// credential chain (environment, shared config, instance role).
type Config struct {
	// Region overrides the region of the shared config, if set.
	Region string
	// Endpoint overrides the S3 endpoint, e.g. for MinIO or LocalStack.
	Endpoint string
	// ForcePathStyle addresses buckets as http://endpoint/bucket instead of
	// http://bucket.endpoint.
	ForcePathStyle bool
}

// Store is a blob.Store backed by S3.
type Store struct {
	Client   *s3.Client
	uploader *manager.Uploader
	logger   log.CtxLogger
}

var _ blob.Store = (*Store)(nil)

// New loads the default AWS config and creates a client for cfg.
func New(ctx context.Context, logger log.CtxLogger, cfg Config) (*Store, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, cerrors.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return NewFromClient(logger, client), nil
}

// NewFromClient creates a store that uses an existing client.
func NewFromClient(logger log.CtxLogger, client *s3.Client) *Store {
	return &Store{
		Client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			// partitions are uploaded one at a time
			u.Concurrency = 1
		}),
		logger: logger.WithComponentFromType(Store{}),
	}
}

// Put streams the file to S3, switching to a multipart upload for files
// larger than the part size.
func (s *Store) Put(ctx context.Context, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return cerrors.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(blob.ContentType),
	})
	if err != nil {
		return cerrors.Errorf("failed to put s3://%s/%s: %w", bucket, key, err)
	}

	s.logger.Trace(ctx).
		Str(log.BucketField, bucket).
		Str(log.ObjectKeyField, key).
		Str("location", out.Location).
		Msg("object stored")
	return nil
}

// Close is a no-op, the S3 client holds no resources that need releasing.
func (s *Store) Close() error {
	return nil
}

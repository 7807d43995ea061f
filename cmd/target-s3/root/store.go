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

package root

import (
	"context"

	"github.com/conduitio/conduit-target-s3/pkg/blob"
	"github.com/conduitio/conduit-target-s3/pkg/blob/gcs"
	"github.com/conduitio/conduit-target-s3/pkg/blob/local"
	"github.com/conduitio/conduit-target-s3/pkg/blob/s3"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"github.com/conduitio/conduit-target-s3/pkg/target"
)

func newStore(ctx context.Context, logger log.CtxLogger, cfg target.Config) (blob.Store, error) {
	logger.Debug(ctx).Str(log.StorageField, cfg.Storage).Msg("creating blob store")

	switch cfg.Storage {
	case target.StorageS3:
		return s3.New(ctx, logger, s3.Config{
			Region:         cfg.Region,
			Endpoint:       cfg.Endpoint,
			ForcePathStyle: cfg.ForcePathStyle,
		})
	case target.StorageGCS:
		return gcs.New(ctx, logger, gcs.Config{Endpoint: cfg.Endpoint})
	case target.StorageLocal:
		return local.New(logger, cfg.LocalPath)
	default:
		return nil, cerrors.Errorf("invalid storage %q: %w", cfg.Storage, target.ErrInvalidConfig)
	}
}

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

// Package local stores partitions on the local filesystem, laid out as
// <root>/<bucket>/<key>. It is meant for dry runs and tests.
package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conduitio/conduit-target-s3/pkg/blob"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
)

type Store struct {
	root   string
	logger log.CtxLogger
}

var _ blob.Store = (*Store)(nil)

func New(logger log.CtxLogger, root string) (*Store, error) {
	if root == "" {
		return nil, cerrors.New("local store root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, cerrors.Errorf("failed to create %q: %w", root, err)
	}
	return &Store{
		root:   root,
		logger: logger.WithComponentFromType(Store{}),
	}, nil
}

// Put copies the file to its destination through a temporary file in the
// same directory, so a reader never observes a partial object.
func (s *Store) Put(ctx context.Context, bucket, key, path string) error {
	dst, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return cerrors.Errorf("failed to create directory for %q: %w", dst, err)
	}

	src, err := os.Open(path)
	if err != nil {
		return cerrors.Errorf("failed to open %q: %w", path, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return cerrors.Errorf("failed to create temp file for %q: %w", dst, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	n, err := io.Copy(tmp, src)
	if err != nil {
		_ = tmp.Close()
		return cerrors.Errorf("failed to copy %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return cerrors.Errorf("failed to close %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return cerrors.Errorf("failed to move object into %q: %w", dst, err)
	}

	s.logger.Trace(ctx).
		Str(log.FilepathField, dst).
		Int64(log.BytesField, n).
		Msg("object stored")
	return nil
}

func (s *Store) resolve(bucket, key string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", cerrors.Errorf("invalid bucket %q", bucket)
	}
	dst := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	base := filepath.Join(s.root, bucket) + string(filepath.Separator)
	if key == "" || !strings.HasPrefix(dst, base) {
		return "", cerrors.Errorf("key %q escapes bucket %q", key, bucket)
	}
	return dst, nil
}

func (s *Store) Close() error {
	return nil
}

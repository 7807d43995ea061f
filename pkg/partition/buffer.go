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

package partition

import (
	"bufio"
	"context"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"github.com/conduitio/conduit-target-s3/pkg/workspace"
)

// File is a flushed partition.
type File struct {
	Key     Key
	Path    string
	Records int
	Size    int64
}

// Buffer collects raw lines per partition in memory, preserving the order in
// which keys were first seen and the order of lines within a key.
type Buffer struct {
	logger log.CtxLogger

	keys  []Key
	lines map[Key][][]byte
}

func NewBuffer(logger log.CtxLogger) *Buffer {
	return &Buffer{
		logger: logger.WithComponentFromType(Buffer{}),
		lines:  make(map[Key][][]byte),
	}
}

// Add appends line to the partition key. The line is stored as is and must
// not be modified by the caller afterwards.
func (b *Buffer) Add(key Key, line []byte) {
	lines, ok := b.lines[key]
	if !ok {
		b.keys = append(b.keys, key)
	}
	b.lines[key] = append(lines, line)
}

// Keys returns the partition keys in the order they were first added.
func (b *Buffer) Keys() []Key {
	return b.keys
}

// Len returns the number of partitions.
func (b *Buffer) Len() int {
	return len(b.keys)
}

// Records returns the number of lines in all partitions.
func (b *Buffer) Records() int {
	n := 0
	for _, lines := range b.lines {
		n += len(lines)
	}
	return n
}

// Flush writes every partition to a file named after its key inside the
// workspace. Lines are written verbatim. The returned files are in the order
// of Keys.
func (b *Buffer) Flush(ctx context.Context, ws *workspace.Workspace) ([]File, error) {
	files := make([]File, 0, len(b.keys))
	for _, key := range b.keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := b.flush(ws, key)
		if err != nil {
			return nil, err
		}
		b.logger.Info(ctx).
			Str(log.PartitionKeyField, string(key)).
			Str(log.FilepathField, f.Path).
			Int(log.RecordsField, f.Records).
			Int64(log.BytesField, f.Size).
			Msg("tmp file written")
		files = append(files, f)
	}
	return files, nil
}

func (b *Buffer) flush(ws *workspace.Workspace, key Key) (File, error) {
	file, err := ws.Create(string(key))
	if err != nil {
		return File{}, err
	}
	defer file.Close() //nolint:errcheck // closed explicitly below

	lines := b.lines[key]
	w := bufio.NewWriter(file)
	var size int64
	for _, line := range lines {
		n, err := w.Write(line)
		size += int64(n)
		if err != nil {
			return File{}, cerrors.Errorf("failed to write %q (%v): %w", file.Name(), err, workspace.ErrFilesystem)
		}
	}
	if err := w.Flush(); err != nil {
		return File{}, cerrors.Errorf("failed to write %q (%v): %w", file.Name(), err, workspace.ErrFilesystem)
	}
	if err := file.Sync(); err != nil {
		return File{}, cerrors.Errorf("failed to sync %q (%v): %w", file.Name(), err, workspace.ErrFilesystem)
	}
	if err := file.Close(); err != nil {
		return File{}, cerrors.Errorf("failed to close %q (%v): %w", file.Name(), err, workspace.ErrFilesystem)
	}

	return File{
		Key:     key,
		Path:    file.Name(),
		Records: len(lines),
		Size:    size,
	}, nil
}

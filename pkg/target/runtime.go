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

// Package target ties the pieces of a run together: it decodes the input,
// partitions records, flushes them to a workspace, uploads the partitions
// and commits the checkpoint.
package target

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/conduitio/conduit-target-s3/pkg/blob"
	"github.com/conduitio/conduit-target-s3/pkg/checkpoint"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/ctxutil"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/metrics"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/metrics/noop"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/multierror"
	"github.com/conduitio/conduit-target-s3/pkg/partition"
	"github.com/conduitio/conduit-target-s3/pkg/singer"
	"github.com/conduitio/conduit-target-s3/pkg/upload"
	"github.com/conduitio/conduit-target-s3/pkg/workspace"
	"github.com/google/uuid"
)

// Runtime executes runs against a blob store.
type Runtime struct {
	Config Config

	blobs   blob.Store
	logger  log.CtxLogger
	now     func() time.Time
	stdout  io.Writer
	newID   func() string
	measure measure
}

type Option func(*Runtime)

// WithClock replaces the clock used for workspace names and undated keys.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) { r.now = now }
}

// WithStdout sets the writer that receives emitted state, os.Stdout by
// default.
func WithStdout(w io.Writer) Option {
	return func(r *Runtime) { r.stdout = w }
}

// WithMetrics registers the runtime instruments in reg.
func WithMetrics(reg metrics.Registry) Option {
	return func(r *Runtime) { r.measure = newMeasure(reg) }
}

// WithRunID replaces the generator of run IDs.
func WithRunID(newID func() string) Option {
	return func(r *Runtime) { r.newID = newID }
}

// NewRuntime validates the config and prepares a runtime that stores
// partitions in store.
func NewRuntime(cfg Config, store blob.Store, logger log.CtxLogger, opts ...Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, cerrors.New("blob store is nil")
	}

	r := &Runtime{
		Config:  cfg,
		blobs:   store,
		logger:  logger.WithComponentFromType(Runtime{}),
		now:     time.Now,
		stdout:  os.Stdout,
		newID:   uuid.NewString,
		measure: newMeasure(noop.Registry{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.measure.info.WithValues(Version(false)).Inc()
	return r, nil
}

// Run consumes in until EOF and stores all records it contains. The
// checkpoint is only written if every partition was uploaded. The workspace
// is removed on every return path.
func (r *Runtime) Run(ctx context.Context, in io.Reader) (err error) {
	runID := r.newID()
	ctx = ctxutil.ContextWithRunID(ctx, runID)
	start := r.now()

	defer func() {
		outcome := outcomeSuccess
		if err != nil {
			outcome = outcomeFailure
		} else {
			r.measure.lastSuccess.Set(float64(r.now().Unix()))
		}
		r.measure.runs.WithValues(outcome).Inc()
		r.measure.runDuration.Update(r.now().Sub(start))
	}()

	ckpt := checkpoint.New(r.logger, r.Config.StateFilePath)
	buf := partition.NewBuffer(r.logger)

	if err := r.consume(ctx, in, buf, ckpt); err != nil {
		return err
	}

	if buf.Len() > 0 {
		if err := r.store(ctx, runID, start, buf); err != nil {
			return err
		}
	} else {
		r.logger.Info(ctx).Msg("no records received, nothing to upload")
	}

	if err := ckpt.Commit(ctx); err != nil {
		return err
	}
	if r.Config.EmitState {
		if state, ok := ckpt.State(); ok {
			if err := singer.EmitState(r.stdout, state.Value); err != nil {
				return err
			}
		}
	}

	r.logger.Info(ctx).
		Int(log.RecordsField, buf.Records()).
		Dur(log.DurationField, r.now().Sub(start)).
		Msg("run finished")
	return nil
}

// store flushes the buffer into a fresh workspace and uploads all
// partitions. The workspace is removed before returning.
func (r *Runtime) store(ctx context.Context, runID string, start time.Time, buf *partition.Buffer) (err error) {
	ws, err := workspace.New(ctx, r.logger, r.Config.TmpDir, runID, start)
	if err != nil {
		return err
	}
	defer func() {
		r.logger.Info(ctx).Str(log.FilepathField, ws.Path()).Msg("deleting tmp dir")
		err = multierror.Append(err, ws.Remove(ctx))
	}()

	files, err := buf.Flush(ctx, ws)
	if err != nil {
		return err
	}
	r.measure.partitions.Inc(float64(len(files)))

	uploader := upload.NewUploader(r.logger, r.blobs, r.Config.Bucket, upload.KeyBuilder{
		Prefix:          r.Config.Prefix,
		Client:          r.Config.Client,
		DatePartitioned: r.Config.PartitionOptions().DatePartitioned(),
		Now:             r.now,
	}, r.measure.upload)
	return uploader.UploadAll(ctx, files)
}

func (r *Runtime) consume(
	ctx context.Context,
	in io.Reader,
	buf *partition.Buffer,
	ckpt *checkpoint.Manager,
) error {
	resolver := partition.NewResolver(r.Config.PartitionOptions())
	trackState := ckpt.Enabled() || r.Config.EmitState

	reader := singer.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, msg, err := reader.Next()
		if cerrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch m := msg.(type) {
		case singer.Record:
			key, err := resolver.Resolve(m)
			if err != nil {
				return cerrors.Errorf("line %d: %w", reader.Line(), err)
			}
			buf.Add(key, line)
			r.measure.records.WithValues(m.Stream).Inc()
		case singer.State:
			r.measure.states.Inc()
			if !trackState {
				r.logger.Trace(ctx).Msg("no state destination configured, skipping state")
				continue
			}
			ckpt.Observe(m)
		default:
			r.logger.Trace(ctx).Str("type", m.Type()).Msg("skipping message")
		}
	}
}

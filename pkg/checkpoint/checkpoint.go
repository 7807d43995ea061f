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

// Package checkpoint persists the last state value received from the tap
// once a run has been fully uploaded.
package checkpoint

import (
	"context"
	"os"
	"path/filepath"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"github.com/conduitio/conduit-target-s3/pkg/singer"
	"github.com/conduitio/conduit-target-s3/pkg/workspace"
)

// Manager remembers the latest state and writes it on Commit. The zero value
// is not usable, use New.
type Manager struct {
	path   string
	logger log.CtxLogger

	state *singer.State
}

// New returns a manager writing to path. An empty path disables commits.
func New(logger log.CtxLogger, path string) *Manager {
	return &Manager{
		path:   path,
		logger: logger.WithComponentFromType(Manager{}),
	}
}

// Enabled reports whether Commit writes anything.
func (m *Manager) Enabled() bool {
	return m.path != ""
}

// Observe records state, replacing any state observed before.
func (m *Manager) Observe(state singer.State) {
	m.state = &state
}

// State returns the last observed state.
func (m *Manager) State() (singer.State, bool) {
	if m.state == nil {
		return singer.State{}, false
	}
	return *m.state, true
}

// Commit writes the value of the last observed state to the checkpoint
// file. It does nothing if no state was observed or no path is configured.
// Commit must only be called after all partitions were uploaded.
func (m *Manager) Commit(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}
	state, ok := m.State()
	if !ok {
		m.logger.Debug(ctx).Msg("no state received, checkpoint left unchanged")
		return nil
	}

	value := state.Value
	if value == nil {
		value = []byte("null")
	}
	data, err := singer.CompactValue(value)
	if err != nil {
		return err
	}
	if err := writeAtomic(m.path, data); err != nil {
		return err
	}

	m.logger.Info(ctx).
		Str(log.FilepathField, m.path).
		Int(log.BytesField, len(data)).
		Msg("state file written")
	return nil
}

// writeAtomic replaces path with data so that readers see either the old or
// the new content in full.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cerrors.Errorf("failed to create directory %q (%v): %w", dir, err, workspace.ErrFilesystem)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return cerrors.Errorf("failed to create temp file in %q (%v): %w", dir, err, workspace.ErrFilesystem)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return cerrors.Errorf("failed to write %q (%v): %w", tmp.Name(), err, workspace.ErrFilesystem)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return cerrors.Errorf("failed to sync %q (%v): %w", tmp.Name(), err, workspace.ErrFilesystem)
	}
	if err := tmp.Close(); err != nil {
		return cerrors.Errorf("failed to close %q (%v): %w", tmp.Name(), err, workspace.ErrFilesystem)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return cerrors.Errorf("failed to chmod %q (%v): %w", tmp.Name(), err, workspace.ErrFilesystem)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return cerrors.Errorf("failed to replace %q (%v): %w", path, err, workspace.ErrFilesystem)
	}
	return nil
}

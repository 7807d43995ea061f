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

// Package workspace manages the scoped temporary directory that holds the
// partition files of a single run.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
)

// ErrFilesystem is returned when a local directory or file can not be
// created, written or removed.
var ErrFilesystem = cerrors.New("filesystem error")

// DirName is the directory created below the workspace root that contains
// all run directories.
const DirName = "target-s3"

// Workspace is a uniquely named directory owned by one run.
type Workspace struct {
	path   string
	logger log.CtxLogger
}

// New creates the directory <root>/target-s3/<timestamp>-<runID>. The run ID
// makes the name unique across concurrent runs, the timestamp keeps
// directories sortable when inspecting leftovers of killed processes.
func New(ctx context.Context, logger log.CtxLogger, root, runID string, now time.Time) (*Workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	if runID == "" || strings.ContainsAny(runID, `/\`) {
		return nil, cerrors.Errorf("invalid run ID %q: %w", runID, ErrFilesystem)
	}

	path := filepath.Join(root, DirName, now.Format("2006-01-02-15-04-05.000000")+"-"+runID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, cerrors.Errorf("failed to create workspace root (%v): %w", err, ErrFilesystem)
	}
	if err := os.Mkdir(path, 0o700); err != nil {
		return nil, cerrors.Errorf("failed to create workspace %q (%v): %w", path, err, ErrFilesystem)
	}

	w := &Workspace{
		path:   path,
		logger: logger.WithComponent("workspace.Workspace"),
	}
	w.logger.Debug(ctx).Str(log.FilepathField, path).Msg("workspace created")
	return w, nil
}

// Path returns the absolute directory of the workspace.
func (w *Workspace) Path() string {
	return w.path
}

// Create creates a new file directly inside the workspace. The name must be a
// single path element and the file must not exist yet.
func (w *Workspace) Create(name string) (*os.File, error) {
	if !ValidName(name) {
		return nil, cerrors.Errorf("invalid file name %q: %w", name, ErrFilesystem)
	}
	path := filepath.Join(w.path, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, cerrors.Errorf("failed to create %q (%v): %w", path, err, ErrFilesystem)
	}
	return f, nil
}

// Remove deletes the workspace and everything in it. It is safe to call more
// than once.
func (w *Workspace) Remove(ctx context.Context) error {
	if err := os.RemoveAll(w.path); err != nil {
		return cerrors.Errorf("failed to remove workspace %q (%v): %w", w.path, err, ErrFilesystem)
	}
	w.logger.Info(ctx).Str(log.FilepathField, w.path).Msg("deleted tmp dir")
	return nil
}

// ValidName reports whether name can be used as a file name inside a
// workspace.
func ValidName(name string) bool {
	return name != "" &&
		name != "." &&
		name != ".." &&
		!strings.ContainsAny(name, "/\\\x00")
}

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

package ctxutil

import (
	"context"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"github.com/rs/zerolog"
)

// runIDCtxKey is used as the key when saving the run ID in a context.
type runIDCtxKey struct{}

// ContextWithRunID wraps ctx and returns a context that contains runID.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDCtxKey{}, runID)
}

// RunIDFromContext fetches the run ID from the context. If the context does
// not contain a run ID it returns an empty string.
func RunIDFromContext(ctx context.Context) string {
	runID := ctx.Value(runIDCtxKey{})
	if runID != nil {
		return runID.(string)
	}
	return ""
}

// RunIDLogCtxHook fetches the run ID from the context and if it exists it
// adds the run ID to the log output.
type RunIDLogCtxHook struct{}

// Run executes the log hook.
func (h RunIDLogCtxHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	p := RunIDFromContext(e.GetCtx())
	if p != "" {
		e.Str(log.RunIDField, p)
	}
}

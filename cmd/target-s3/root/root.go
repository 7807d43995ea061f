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
	"fmt"
	"io"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/ctxutil"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/metrics/prometheus"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/multierror"
	"github.com/conduitio/conduit-target-s3/pkg/target"
	"github.com/conduitio/ecdysis"
	"github.com/rs/zerolog"
)

var (
	_ ecdysis.CommandWithFlags   = (*RootCommand)(nil)
	_ ecdysis.CommandWithExecute = (*RootCommand)(nil)
	_ ecdysis.CommandWithDocs    = (*RootCommand)(nil)
)

type RootFlags struct {
	ConfigPath string `long:"config" short:"c" usage:"path to the JSON configuration file"`

	// Logging configuration
	LogLevel  string `long:"log.level" usage:"sets logging level; accepts debug, info, warn, error, trace"`
	LogFormat string `long:"log.format" usage:"sets the format of the logging; accepts json, cli"`

	MetricsTextfile string `long:"metrics.textfile" usage:"write metrics in Prometheus text format to this file when the run ends"`

	// Version
	Version bool `long:"version" short:"v" usage:"show version"`
}

// RootCommand reads Singer messages from Stdin and stores them in the
// configured bucket.
type RootCommand struct {
	flags RootFlags

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (c *RootCommand) Usage() string { return "target-s3" }

func (c *RootCommand) Flags() []ecdysis.Flag {
	flags := ecdysis.BuildFlags(&c.flags)

	flags.SetDefault("log.level", "info")
	flags.SetDefault("log.format", "cli")
	return flags
}

func (c *RootCommand) Docs() ecdysis.Docs {
	return ecdysis.Docs{
		Short: "Singer target storing streams in S3",
		Long: `target-s3 reads Singer messages from stdin, groups records by stream
(and optionally by date) and uploads every group as one newline delimited
JSON object to <prefix>/<client>/<stream>/<date>/<stream>. The last received
state is written to the state file only after all objects were stored.`,
		Example: "tap-postgres --config tap.json | target-s3 --config target.json",
	}
}

func (c *RootCommand) Execute(ctx context.Context) (err error) {
	if c.flags.Version {
		_, _ = fmt.Fprintf(c.Stdout, "%s\n", target.Version(true))
		return nil
	}
	if c.flags.ConfigPath == "" {
		return cerrors.New("required flag \"config\" not set")
	}

	logger, err := c.newLogger()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c.flags.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry(map[string]string{"client": cfg.Client})
	if c.flags.MetricsTextfile != "" {
		defer func() {
			if writeErr := registry.WriteToTextfile(c.flags.MetricsTextfile); writeErr != nil {
				err = multierror.Append(err, cerrors.Errorf("failed to write metrics: %w", writeErr))
			}
		}()
	}

	store, err := newStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierror.Append(err, store.Close())
	}()

	rt, err := target.NewRuntime(cfg, store, logger,
		target.WithStdout(c.Stdout),
		target.WithMetrics(registry),
	)
	if err != nil {
		return err
	}

	if err := rt.Run(ctx, c.Stdin); err != nil {
		logger.Err(ctx, err).Msg("run failed")
		return err
	}
	return nil
}

func (c *RootCommand) newLogger() (log.CtxLogger, error) {
	level, err := zerolog.ParseLevel(c.flags.LogLevel)
	if err != nil {
		return log.CtxLogger{}, cerrors.Errorf("invalid log level %q: %w", c.flags.LogLevel, err)
	}
	format, err := log.ParseFormat(c.flags.LogFormat)
	if err != nil {
		return log.CtxLogger{}, err
	}
	logger := log.InitLogger(c.Stderr, level, format)
	logger.Logger = logger.Hook(ctxutil.RunIDLogCtxHook{})
	return logger, nil
}

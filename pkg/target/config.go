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

package target

import (
	"os"
	"strings"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/partition"
	"github.com/conduitio/conduit-target-s3/pkg/workspace"
	"github.com/goccy/go-json"
)

const (
	StorageS3    = "s3"
	StorageGCS   = "gcs"
	StorageLocal = "local"
)

// ErrInvalidConfig is returned when the configuration file can not be parsed
// or contains invalid values.
var ErrInvalidConfig = cerrors.New("invalid config")

// Config holds all values of the configuration file. Unknown keys are
// ignored. The mapstructure tags are used when applying environment
// overrides.
type Config struct {
	Bucket string `json:"bucket" mapstructure:"bucket"`
	Prefix string `json:"prefix" mapstructure:"prefix"`
	Client string `json:"client" mapstructure:"client"`

	// Date is a fixed date appended to all partition keys.
	Date string `json:"date" mapstructure:"date"`
	// LineDateField names a record field holding the date of the record. It
	// takes precedence over Date.
	LineDateField string `json:"line_date_field" mapstructure:"line_date_field"`

	// StateFilePath is the checkpoint file. Without it no state is written.
	StateFilePath string `json:"state_file_path" mapstructure:"state_file_path"`
	// EmitState writes the committed state value to stdout.
	EmitState bool `json:"emit_state" mapstructure:"emit_state"`

	Storage        string `json:"storage" mapstructure:"storage"`
	Region         string `json:"region" mapstructure:"region"`
	Endpoint       string `json:"endpoint" mapstructure:"endpoint"`
	ForcePathStyle bool   `json:"force_path_style" mapstructure:"force_path_style"`
	LocalPath      string `json:"local_path" mapstructure:"local_path"`

	// TmpDir is the root of the workspace, defaults to the OS temp dir.
	TmpDir string `json:"tmp_dir" mapstructure:"tmp_dir"`
}

func DefaultConfig() Config {
	return Config{
		Storage: StorageS3,
	}
}

// LoadConfig reads the JSON configuration file at path on top of the
// defaults.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, cerrors.Errorf("failed to read config file %q (%v): %w", path, err, ErrInvalidConfig)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, cerrors.Errorf("failed to parse config file %q (%v): %w", path, err, ErrInvalidConfig)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Bucket == "" {
		return requiredConfigFieldErr("bucket")
	}
	if c.Prefix == "" {
		return requiredConfigFieldErr("prefix")
	}
	if c.Client == "" {
		return requiredConfigFieldErr("client")
	}
	if strings.Contains(c.Client, "/") {
		return invalidConfigFieldErr("client")
	}
	if c.Date != "" && (!workspace.ValidName(c.Date) || strings.Contains(c.Date, partition.Separator)) {
		return invalidConfigFieldErr("date")
	}

	switch c.Storage {
	case StorageS3, StorageGCS:
	case StorageLocal:
		if c.LocalPath == "" {
			return requiredConfigFieldErr("local_path")
		}
	case "":
		return requiredConfigFieldErr("storage")
	default:
		return invalidConfigFieldErr("storage")
	}
	return nil
}

// PartitionOptions returns the options of the partition key resolver.
func (c Config) PartitionOptions() partition.Options {
	return partition.Options{
		DateField: c.LineDateField,
		Date:      c.Date,
	}
}

func invalidConfigFieldErr(name string) error {
	return cerrors.Errorf("%q config value is invalid: %w", name, ErrInvalidConfig)
}

func requiredConfigFieldErr(name string) error {
	return cerrors.Errorf("%q config value is required: %w", name, ErrInvalidConfig)
}

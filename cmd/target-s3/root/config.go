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
	"strings"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/target"
	"github.com/spf13/viper"
)

const EnvPrefix = "TARGET_S3"

// loadConfig reads the configuration file and applies environment
// overrides, e.g. TARGET_S3_BUCKET overrides "bucket".
func loadConfig(path string) (target.Config, error) {
	cfg, err := target.LoadConfig(path)
	if err != nil {
		return target.Config{}, err
	}

	v := viper.New()
	configMap := map[string]any{
		"bucket":           cfg.Bucket,
		"prefix":           cfg.Prefix,
		"client":           cfg.Client,
		"date":             cfg.Date,
		"line_date_field":  cfg.LineDateField,
		"state_file_path":  cfg.StateFilePath,
		"emit_state":       cfg.EmitState,
		"storage":          cfg.Storage,
		"region":           cfg.Region,
		"endpoint":         cfg.Endpoint,
		"force_path_style": cfg.ForcePathStyle,
		"local_path":       cfg.LocalPath,
		"tmp_dir":          cfg.TmpDir,
	}
	for key, value := range configMap {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range configMap {
		if err := v.BindEnv(key); err != nil {
			return target.Config{}, cerrors.Errorf("error binding environment variable for key %q: %w", key, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return target.Config{}, cerrors.Errorf("unable to apply environment overrides (%v): %w", err, target.ErrInvalidConfig)
	}
	return cfg, nil
}

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
	"path/filepath"
	"testing"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/partition"
	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Bucket = "b"
	cfg.Prefix = "p"
	cfg.Client = "c"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		setupConfig func(Config) Config
		want        error
	}{{
		name:        "valid",
		setupConfig: func(c Config) Config { return c },
		want:        nil,
	}, {
		name: "required bucket",
		setupConfig: func(c Config) Config {
			c.Bucket = ""
			return c
		},
		want: requiredConfigFieldErr("bucket"),
	}, {
		name: "required prefix",
		setupConfig: func(c Config) Config {
			c.Prefix = ""
			return c
		},
		want: requiredConfigFieldErr("prefix"),
	}, {
		name: "required client",
		setupConfig: func(c Config) Config {
			c.Client = ""
			return c
		},
		want: requiredConfigFieldErr("client"),
	}, {
		name: "invalid client",
		setupConfig: func(c Config) Config {
			c.Client = "a/b"
			return c
		},
		want: invalidConfigFieldErr("client"),
	}, {
		name: "invalid date (path)",
		setupConfig: func(c Config) Config {
			c.Date = "2024/01/02"
			return c
		},
		want: invalidConfigFieldErr("date"),
	}, {
		name: "invalid date (separator)",
		setupConfig: func(c Config) Config {
			c.Date = "x" + partition.Separator
			return c
		},
		want: invalidConfigFieldErr("date"),
	}, {
		name: "required storage",
		setupConfig: func(c Config) Config {
			c.Storage = ""
			return c
		},
		want: requiredConfigFieldErr("storage"),
	}, {
		name: "invalid storage",
		setupConfig: func(c Config) Config {
			c.Storage = "ftp"
			return c
		},
		want: invalidConfigFieldErr("storage"),
	}, {
		name: "gcs storage",
		setupConfig: func(c Config) Config {
			c.Storage = StorageGCS
			return c
		},
		want: nil,
	}, {
		name: "required local path",
		setupConfig: func(c Config) Config {
			c.Storage = StorageLocal
			return c
		},
		want: requiredConfigFieldErr("local_path"),
	}, {
		name: "local storage",
		setupConfig: func(c Config) Config {
			c.Storage = StorageLocal
			c.LocalPath = "/tmp/objects"
			return c
		},
		want: nil,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)

			err := tc.setupConfig(validConfig()).Validate()
			if tc.want == nil {
				is.NoErr(err)
				return
			}
			is.True(cerrors.Is(err, ErrInvalidConfig))
			is.Equal(err.Error(), tc.want.Error())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	is.NoErr(os.WriteFile(path, []byte(`{
		"bucket": "b",
		"prefix": "p",
		"client": "c",
		"line_date_field": "dt",
		"state_file_path": "/var/lib/target/state.json",
		"emit_state": true,
		"force_path_style": true,
		"endpoint": "http://localhost:9000",
		"unknown": {"ignored": true}
	}`), 0o600))

	got, err := LoadConfig(path)
	is.NoErr(err)

	want := Config{
		Bucket:         "b",
		Prefix:         "p",
		Client:         "c",
		LineDateField:  "dt",
		StateFilePath:  "/var/lib/target/state.json",
		EmitState:      true,
		Storage:        StorageS3,
		Endpoint:       "http://localhost:9000",
		ForcePathStyle: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	is.NoErr(got.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "malformed.json")
	if err := os.WriteFile(malformed, []byte(`{"bucket":`), 0o600); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.json")},
		{name: "malformed", path: malformed},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			_, err := LoadConfig(tc.path)
			is.True(cerrors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestConfig_PartitionOptions(t *testing.T) {
	is := is.New(t)

	cfg := validConfig()
	is.True(!cfg.PartitionOptions().DatePartitioned())

	cfg.Date = "2024-01-02"
	cfg.LineDateField = "dt"
	is.Equal(cfg.PartitionOptions(), partition.Options{DateField: "dt", Date: "2024-01-02"})
}

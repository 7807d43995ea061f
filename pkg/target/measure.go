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
	"github.com/conduitio/conduit-target-s3/pkg/foundation/metrics"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/metrics/prometheus"
	"github.com/conduitio/conduit-target-s3/pkg/upload"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	namespace     = prometheus.Namespace("target_s3")
	uploadBuckets = prometheus.HistogramOpts{Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300}}
)

type measure struct {
	info        metrics.LabeledCounter
	records     metrics.LabeledCounter
	states      metrics.Counter
	partitions  metrics.Counter
	runs        metrics.LabeledCounter
	runDuration metrics.Timer
	lastSuccess metrics.Gauge
	upload      upload.Metrics
}

func newMeasure(reg metrics.Registry) measure {
	return measure{
		info: reg.NewLabeledCounter("info",
			"Information about the target binary.", []string{"version"}, namespace),
		records: reg.NewLabeledCounter("records_total",
			"Number of records received per stream.", []string{"stream"}, namespace),
		states: reg.NewCounter("states_total",
			"Number of state messages received.", namespace),
		partitions: reg.NewCounter("partitions_flushed_total",
			"Number of partition files written to the workspace.", namespace),
		runs: reg.NewLabeledCounter("runs_total",
			"Number of runs by outcome.", []string{"outcome"}, namespace),
		runDuration: reg.NewTimer("run_duration_seconds",
			"Duration of a run.", namespace),
		lastSuccess: reg.NewGauge("last_success_timestamp_seconds",
			"Unix time of the last successful run.", namespace),
		upload: upload.Metrics{
			Objects: reg.NewCounter("objects_uploaded_total",
				"Number of objects stored.", namespace),
			Bytes: reg.NewCounter("uploaded_bytes_total",
				"Number of bytes stored.", namespace),
			Duration: reg.NewTimer("upload_duration_seconds",
				"Duration of a single object upload.", namespace, uploadBuckets),
		},
	}
}

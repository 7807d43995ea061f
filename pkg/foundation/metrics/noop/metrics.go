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

package noop

import (
	"time"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/metrics"
)

// Registry creates instruments that record nothing.
type Registry struct{}

var _ metrics.Registry = Registry{}

func (Registry) NewCounter(string, string, ...metrics.Option) metrics.Counter { return Counter{} }
func (Registry) NewLabeledCounter(string, string, []string, ...metrics.Option) metrics.LabeledCounter {
	return LabeledCounter{}
}
func (Registry) NewGauge(string, string, ...metrics.Option) metrics.Gauge         { return Gauge{} }
func (Registry) NewTimer(string, string, ...metrics.Option) metrics.Timer         { return Timer{} }
func (Registry) NewHistogram(string, string, ...metrics.Option) metrics.Histogram { return Histogram{} }

type Counter struct{}

func (Counter) Inc(...float64) {}

type LabeledCounter struct{}

func (LabeledCounter) WithValues(...string) metrics.Counter { return Counter{} }

type Gauge struct{}

func (Gauge) Inc(...float64) {}
func (Gauge) Dec(...float64) {}
func (Gauge) Set(float64)    {}

type Timer struct{}

func (Timer) Update(time.Duration)  {}
func (Timer) UpdateSince(time.Time) {}

type Histogram struct{}

func (Histogram) Observe(float64) {}

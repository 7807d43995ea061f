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

package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type histogram struct {
	ph prometheus.Histogram
}

func (h *histogram) Observe(v float64) {
	h.ph.Observe(v)
}

func (h *histogram) Describe(c chan<- *prometheus.Desc) {
	c <- h.ph.Desc()
}

func (h *histogram) Collect(c chan<- prometheus.Metric) {
	h.ph.Collect(c)
}

// timer observes durations in seconds.
type timer struct {
	h *histogram
}

func (t *timer) Update(d time.Duration) {
	t.h.Observe(d.Seconds())
}

func (t *timer) UpdateSince(start time.Time) {
	t.Update(time.Since(start))
}

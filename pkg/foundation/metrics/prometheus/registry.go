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
	"sync"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// NewRegistry returns a registry that attaches labels as constant labels to
// every instrument it creates.
func NewRegistry(labels map[string]string) *Registry {
	return &Registry{
		labels: labels,
	}
}

// Registry creates prometheus backed instruments and is itself a
// prometheus.Collector that collects all of them.
type Registry struct {
	labels  map[string]string
	mu      sync.Mutex
	metrics []prometheus.Collector
}

var (
	_ metrics.Registry     = (*Registry)(nil)
	_ prometheus.Collector = (*Registry)(nil)
)

func (r *Registry) NewCounter(name, help string, opts ...metrics.Option) metrics.Counter {
	c := &counter{pc: prometheus.NewCounter(r.newCounterOpts(name, help, opts))}
	r.add(c)
	return c
}

func (r *Registry) NewLabeledCounter(name, help string, labels []string, opts ...metrics.Option) metrics.LabeledCounter {
	c := &labeledCounter{pc: prometheus.NewCounterVec(r.newCounterOpts(name, help, opts), labels)}
	r.add(c)
	return c
}

func (r *Registry) newCounterOpts(name, help string, opts []metrics.Option) prometheus.CounterOpts {
	promOpts := prometheus.CounterOpts{
		Name:        name,
		Help:        help,
		ConstLabels: r.labels,
	}
	for _, mopt := range opts {
		if opt, ok := mopt.(counterOption); ok {
			promOpts = opt.applyCounter(promOpts)
		}
	}
	return promOpts
}

func (r *Registry) NewGauge(name, help string, opts ...metrics.Option) metrics.Gauge {
	g := &gauge{pg: prometheus.NewGauge(r.newGaugeOpts(name, help, opts))}
	r.add(g)
	return g
}

func (r *Registry) newGaugeOpts(name, help string, opts []metrics.Option) prometheus.GaugeOpts {
	promOpts := prometheus.GaugeOpts{
		Name:        name,
		Help:        help,
		ConstLabels: r.labels,
	}
	for _, mopt := range opts {
		if opt, ok := mopt.(gaugeOption); ok {
			promOpts = opt.applyGauge(promOpts)
		}
	}
	return promOpts
}

func (r *Registry) NewTimer(name, help string, opts ...metrics.Option) metrics.Timer {
	// do not add metric, the underlying histogram is already added
	return &timer{h: r.NewHistogram(name, help, opts...).(*histogram)}
}

func (r *Registry) NewHistogram(name, help string, opts ...metrics.Option) metrics.Histogram {
	h := &histogram{ph: prometheus.NewHistogram(r.newHistogramOpts(name, help, opts))}
	r.add(h)
	return h
}

func (r *Registry) newHistogramOpts(name, help string, opts []metrics.Option) prometheus.HistogramOpts {
	promOpts := prometheus.HistogramOpts{
		Name:        name,
		Help:        help,
		ConstLabels: r.labels,
	}
	for _, mopt := range opts {
		if opt, ok := mopt.(histogramOption); ok {
			promOpts = opt.applyHistogram(promOpts)
		}
	}
	return promOpts
}

func (r *Registry) Describe(ch chan<- *prometheus.Desc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, metric := range r.metrics {
		metric.Describe(ch)
	}
}

func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, metric := range r.metrics {
		metric.Collect(ch)
	}
}

// WriteToTextfile writes all instruments to path in the text exposition
// format, ready for the node exporter textfile collector. The file is
// replaced atomically.
func (r *Registry) WriteToTextfile(path string) error {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(r); err != nil {
		return cerrors.Errorf("failed to register metrics: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return cerrors.Errorf("failed to write metrics to %q: %w", path, err)
	}
	return nil
}

func (r *Registry) add(collector prometheus.Collector) {
	r.mu.Lock()
	r.metrics = append(r.metrics, collector)
	r.mu.Unlock()
}

func sumFloat64(vs ...float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum
}

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

// Package metrics defines the instruments target-s3 reports. Implementations
// live in sub-packages; a Registry is created per run and injected, there is
// no process-wide registration.
package metrics

import "time"

// Registry creates instruments.
type Registry interface {
	NewCounter(name, help string, opts ...Option) Counter
	NewLabeledCounter(name, help string, labels []string, opts ...Option) LabeledCounter
	NewGauge(name, help string, opts ...Option) Gauge
	NewTimer(name, help string, opts ...Option) Timer
	NewHistogram(name, help string, opts ...Option) Histogram
}

// Option is an implementation specific option, implementations skip options
// they do not recognize.
type Option interface{}

type Counter interface {
	// Inc adds Sum(vs) to the counter. Sum(vs) must be positive.
	//
	// If len(vs) == 0, increments the counter by 1.
	Inc(vs ...float64)
}

type LabeledCounter interface {
	// WithValues returns the Counter for the given label values (same order
	// as the label names used when creating this LabeledCounter).
	WithValues(vs ...string) Counter
}

type Gauge interface {
	// Inc adds Sum(vs) to the gauge. Sum(vs) must be positive.
	//
	// If len(vs) == 0, increments the gauge by 1.
	Inc(vs ...float64)
	// Dec subtracts Sum(vs) from the gauge. Sum(vs) must be positive.
	//
	// If len(vs) == 0, decrements the gauge by 1.
	Dec(vs ...float64)

	// Set replaces the gauge's current value with the provided value
	Set(float64)
}

type Timer interface {
	// Update records a duration.
	Update(time.Duration)

	// UpdateSince will add the duration from the provided starting time to the
	// timer's summary.
	UpdateSince(time.Time)
}

type Histogram interface {
	Observe(float64)
}

// Copyright 2025 The Runtime Validation Layer Authors
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

package conformance

import "fmt"

// Reporter is the convenience front of a sink. Validators hold one and
// raise findings attributed to the intercepted call they run inside.
type Reporter struct {
	sink Sink
}

// NewReporter wraps a sink.
func NewReporter(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Nonconformant raises an error-severity finding against function.
func (r *Reporter) Nonconformant(function, format string, args ...any) {
	r.sink.OnConformanceFailure(newFinding(SeverityError, function, fmt.Sprintf(format, args...)))
}

// NonconformantIf raises an error-severity finding when cond holds.
func (r *Reporter) NonconformantIf(cond bool, function, format string, args ...any) {
	if cond {
		r.Nonconformant(function, format, args...)
	}
}

// PossiblyNonconformant raises a warning-severity finding for an
// ambiguous observation the specification does not fully pin down.
func (r *Reporter) PossiblyNonconformant(function, format string, args ...any) {
	r.sink.OnConformanceFailure(newFinding(SeverityWarning, function, fmt.Sprintf(format, args...)))
}

// PossiblyNonconformantIf raises a warning-severity finding when cond
// holds.
func (r *Reporter) PossiblyNonconformantIf(cond bool, function, format string, args ...any) {
	if cond {
		r.PossiblyNonconformant(function, format, args...)
	}
}

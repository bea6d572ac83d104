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

// Package conformance carries findings out of the validation layer. A
// finding never alters the result an intercepted call returns to the
// application; the sink is the only channel through which violations
// leave the subsystem.
package conformance

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies a finding.
type Severity string

const (
	// SeverityError marks a definite violation of the specification.
	SeverityError Severity = "error"
	// SeverityWarning marks a suspicious observation the specification
	// does not fully pin down.
	SeverityWarning Severity = "warning"
)

// Finding is one detected violation (or possible violation) of the
// specification's behavior contract.
type Finding struct {
	// ID uniquely identifies the finding across a run.
	ID string `json:"id"`
	// Severity is error or warning.
	Severity Severity `json:"severity"`
	// Function is the intercepted call the finding is attributed to.
	Function string `json:"function"`
	// Message describes the violation.
	Message string `json:"message"`
	// Time is when the finding was raised.
	Time time.Time `json:"time"`
}

func newFinding(severity Severity, function, message string) Finding {
	return Finding{
		ID:       uuid.NewString(),
		Severity: severity,
		Function: function,
		Message:  message,
		Time:     time.Now(),
	}
}

// Sink receives findings. Implementations must be safe for concurrent
// use: validators run on arbitrary application threads.
type Sink interface {
	OnConformanceFailure(finding Finding)
}

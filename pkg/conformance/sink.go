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

import (
	"io"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/metrics"
)

// LogSink writes findings to the layer log and the findings counter.
type LogSink struct {
	log *zap.SugaredLogger
}

// NewLogSink creates a sink logging through the given component logger.
func NewLogSink(log *zap.SugaredLogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) OnConformanceFailure(finding Finding) {
	metrics.IncFinding(string(finding.Severity), finding.Function)

	if finding.Severity == SeverityWarning {
		s.log.Warnf("[%s] %s", finding.Function, finding.Message)

		return
	}

	s.log.Errorf("[%s] %s", finding.Function, finding.Message)
}

// FileSink appends findings to a writer as JSON lines.
type FileSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewFileSink creates a sink encoding findings to w, one JSON object per
// line.
func NewFileSink(w io.Writer) *FileSink {
	return &FileSink{enc: json.NewEncoder(w)}
}

func (s *FileSink) OnConformanceFailure(finding Finding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Encoding a finding cannot fail; a write error only loses the
	// report file, never the run.
	_ = s.enc.Encode(finding)
}

// MultiSink fans a finding out to several sinks.
type MultiSink []Sink

func (s MultiSink) OnConformanceFailure(finding Finding) {
	for _, sink := range s {
		sink.OnConformanceFailure(finding)
	}
}

// Recorder collects findings in memory. It backs tests and the run
// summary of the demo binary.
type Recorder struct {
	mu       sync.Mutex
	findings []Finding
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnConformanceFailure(finding Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findings = append(r.findings, finding)
}

// Findings returns a copy of everything recorded so far.
func (r *Recorder) Findings() []Finding {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Finding, len(r.findings))
	copy(out, r.findings)

	return out
}

// Count returns the number of recorded findings with the given severity.
func (r *Recorder) Count(severity Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, f := range r.findings {
		if f.Severity == severity {
			n++
		}
	}

	return n
}

// Reset discards all recorded findings.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findings = nil
}

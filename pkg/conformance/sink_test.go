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

package conformance_test

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
)

var _ = Describe("Reporter", func() {
	var (
		recorder *conformance.Recorder
		reporter *conformance.Reporter
	)

	BeforeEach(func() {
		recorder = conformance.NewRecorder()
		reporter = conformance.NewReporter(recorder)
	})

	It("attributes findings to the intercepted call", func() {
		reporter.Nonconformant("BeginSession", "session already begun")

		findings := recorder.Findings()
		Expect(findings).To(HaveLen(1))
		Expect(findings[0].Function).To(Equal("BeginSession"))
		Expect(findings[0].Severity).To(Equal(conformance.SeverityError))
		Expect(findings[0].Message).To(Equal("session already begun"))
		Expect(findings[0].ID).ToNot(BeEmpty())
		Expect(findings[0].Time.IsZero()).To(BeFalse())
	})

	It("assigns every finding a distinct identity", func() {
		reporter.Nonconformant("WaitFrame", "first")
		reporter.Nonconformant("WaitFrame", "second")

		findings := recorder.Findings()
		Expect(findings[0].ID).ToNot(Equal(findings[1].ID))
	})

	It("separates definite from possible violations", func() {
		reporter.Nonconformant("EndFrame", "definite")
		reporter.PossiblyNonconformant("SyncActions", "ambiguous")

		Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
		Expect(recorder.Count(conformance.SeverityWarning)).To(Equal(1))
	})

	It("only raises conditional findings when the condition holds", func() {
		reporter.NonconformantIf(false, "EndFrame", "no")
		reporter.PossiblyNonconformantIf(false, "EndFrame", "no")
		Expect(recorder.Findings()).To(BeEmpty())

		reporter.NonconformantIf(true, "EndFrame", "yes")
		Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
	})
})

var _ = Describe("Sinks", func() {
	It("fans out to every sink", func() {
		first := conformance.NewRecorder()
		second := conformance.NewRecorder()
		reporter := conformance.NewReporter(conformance.MultiSink{first, second})

		reporter.Nonconformant("PollEvent", "lost events")

		Expect(first.Findings()).To(HaveLen(1))
		Expect(second.Findings()).To(HaveLen(1))
	})

	It("writes one JSON object per line", func() {
		var buf bytes.Buffer

		reporter := conformance.NewReporter(conformance.NewFileSink(&buf))
		reporter.Nonconformant("WaitFrame", "first")
		reporter.PossiblyNonconformant("SyncActions", "second")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(2))

		var finding conformance.Finding
		Expect(json.Unmarshal([]byte(lines[1]), &finding)).To(Succeed())
		Expect(finding.Severity).To(Equal(conformance.SeverityWarning))
		Expect(finding.Function).To(Equal("SyncActions"))
	})

	It("resets the recorder", func() {
		recorder := conformance.NewRecorder()
		reporter := conformance.NewReporter(recorder)

		reporter.Nonconformant("WaitFrame", "finding")
		Expect(recorder.Findings()).ToNot(BeEmpty())

		recorder.Reset()
		Expect(recorder.Findings()).To(BeEmpty())
	})
})

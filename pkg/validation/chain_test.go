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

package validation_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/validation"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

var _ = Describe("Chain guard", func() {
	var (
		recorder *conformance.Recorder
		reporter *conformance.Reporter
	)

	BeforeEach(func() {
		recorder = conformance.NewRecorder()
		reporter = conformance.NewReporter(recorder)
	})

	chain := func() *xr.BaseStructure {
		tail := &xr.BaseStructure{Type: xr.TypeSecondaryViewConfiguration}

		return &xr.BaseStructure{Type: xr.TypeDebugUtilsMessengerCreate, Next: tail}
	}

	It("accepts an untouched chain", func() {
		head := chain()
		guard := validation.NewChainGuard(reporter, "CreateSession", "createInfo", head)
		guard.Check()

		Expect(recorder.Findings()).To(BeEmpty())
	})

	It("accepts an empty chain", func() {
		guard := validation.NewChainGuard(reporter, "CreateSession", "createInfo", nil)
		guard.Check()

		Expect(recorder.Findings()).To(BeEmpty())
	})

	It("allows payload mutation", func() {
		head := chain()
		guard := validation.NewChainGuard(reporter, "WaitFrame", "frameState", head)
		head.Payload = "filled in by the runtime"
		guard.Check()

		Expect(recorder.Findings()).To(BeEmpty())
	})

	It("flags a retyped link", func() {
		head := chain()
		guard := validation.NewChainGuard(reporter, "CreateSession", "createInfo", head)
		head.Next.Type = xr.TypeFrameState
		guard.Check()

		Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
		Expect(recorder.Findings()[0].Message).To(ContainSubstring("'type' modified"))
	})

	It("flags a shortened chain", func() {
		head := chain()
		guard := validation.NewChainGuard(reporter, "CreateSession", "createInfo", head)
		head.Next = nil
		guard.Check()

		findings := recorder.Findings()
		Expect(findings).ToNot(BeEmpty())
		Expect(findings[len(findings)-1].Message).To(ContainSubstring("shortened"))
	})

	It("flags a lengthened chain", func() {
		head := chain()
		guard := validation.NewChainGuard(reporter, "CreateSession", "createInfo", head)
		head.Next.Next = &xr.BaseStructure{Type: xr.TypeFrameState}
		guard.Check()

		findings := recorder.Findings()
		Expect(findings).ToNot(BeEmpty())
		Expect(findings[len(findings)-1].Message).To(ContainSubstring("lengthened"))
	})

	It("flags a relinked chain", func() {
		head := chain()
		guard := validation.NewChainGuard(reporter, "CreateSession", "createInfo", head)
		head.Next = &xr.BaseStructure{Type: xr.TypeSecondaryViewConfiguration}
		guard.Check()

		Expect(recorder.Count(conformance.SeverityError)).To(BeNumerically(">=", 1))
		Expect(recorder.Findings()[0].Message).To(ContainSubstring("'next' chain modified"))
	})
})

var _ = Describe("Value validators", func() {
	var (
		recorder *conformance.Recorder
		reporter *conformance.Reporter
	)

	BeforeEach(func() {
		recorder = conformance.NewRecorder()
		reporter = conformance.NewReporter(recorder)
	})

	It("accepts a unit quaternion within tolerance", func() {
		validation.ValidateQuaternion(reporter, xr.Quaternionf{W: 1.0000001}, "orientation", "LocateViews")

		Expect(recorder.Findings()).To(BeEmpty())
	})

	It("flags a non-unit quaternion", func() {
		validation.ValidateQuaternion(reporter, xr.Quaternionf{X: 1, W: 1}, "orientation", "LocateViews")

		Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
	})

	It("flags a negative timestamp", func() {
		validation.ValidateTime(reporter, -1, "display time", "WaitFrame")

		Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
	})

	It("flags a non-finite position", func() {
		inf := float32(math.Inf(1))
		validation.ValidateVector3(reporter, xr.Vector3f{X: inf}, "position", "LocateViews")

		Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
	})
})

var _ = Describe("Set helpers", func() {
	It("detects duplicates", func() {
		Expect(validation.ContainsDuplicates([]int64{1, 2, 1})).To(BeTrue())
		Expect(validation.ContainsDuplicates([]int64{1, 2, 3})).To(BeFalse())
	})

	It("compares element sets ignoring order", func() {
		Expect(validation.SameElements([]int{1, 2, 2}, []int{2, 1, 2})).To(BeTrue())
		Expect(validation.SameElements([]int{1, 2, 2}, []int{1, 1, 2})).To(BeFalse())
		Expect(validation.SameElements([]int{1}, []int{1, 1})).To(BeFalse())
	})
})

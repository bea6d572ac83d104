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

package swapchain_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/swapchain"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

var _ = Describe("Swapchain validator", func() {
	var (
		recorder  *conformance.Recorder
		validator *swapchain.Validator
		st        *swapchain.State
	)

	enumerate := func(count uint32) func() (uint32, xr.Result) {
		return func() (uint32, xr.Result) { return count, xr.Success }
	}

	noEnumerate := func() (uint32, xr.Result) {
		Fail("unexpected downstream enumeration")

		return 0, xr.ErrorRuntimeFailure
	}

	waitInfo := &xr.SwapchainImageWaitInfo{Timeout: xr.InfiniteDuration}

	BeforeEach(func() {
		recorder = conformance.NewRecorder()
		validator = swapchain.NewValidator(conformance.NewReporter(recorder))
		st = validator.OnCreate(&xr.SwapchainCreateInfo{Format: 43})
	})

	Describe("image enumeration", func() {
		It("flags zero images", func() {
			validator.OnEnumerateImages(st, 0, xr.Success, "EnumerateSwapchainImages")

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
		})

		It("flags a static swapchain with more than one image", func() {
			static := validator.OnCreate(&xr.SwapchainCreateInfo{
				CreateFlags: xr.SwapchainCreateStaticImageBit,
			})
			validator.OnEnumerateImages(static, 3, xr.Success, "EnumerateSwapchainImages")

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
		})

		It("flags an image count that changes between calls", func() {
			validator.OnEnumerateImages(st, 3, xr.Success, "EnumerateSwapchainImages")
			validator.OnEnumerateImages(st, 4, xr.Success, "EnumerateSwapchainImages")

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
			Expect(recorder.Findings()[0].Message).To(ContainSubstring("changed"))
		})
	})

	Describe("acquire, wait, release", func() {
		BeforeEach(func() {
			validator.OnEnumerateImages(st, 3, xr.Success, "EnumerateSwapchainImages")
		})

		It("accepts the protocol in order", func() {
			validator.OnAcquire(st, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)
			validator.OnWait(st, waitInfo, time.Millisecond, xr.Success, "WaitSwapchainImage")
			validator.OnRelease(st, xr.Success, "ReleaseSwapchainImage")

			Expect(recorder.Findings()).To(BeEmpty())
			Expect(st.AcquiredQueue()).To(BeEmpty())
		})

		It("tracks multiple acquires in order", func() {
			validator.OnAcquire(st, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)
			validator.OnAcquire(st, 1, xr.Success, "AcquireSwapchainImage", noEnumerate)

			Expect(st.AcquiredQueue()).To(Equal([]uint32{0, 1}))

			validator.OnWait(st, waitInfo, time.Millisecond, xr.Success, "WaitSwapchainImage")
			validator.OnRelease(st, xr.Success, "ReleaseSwapchainImage")
			validator.OnWait(st, waitInfo, time.Millisecond, xr.Success, "WaitSwapchainImage")
			validator.OnRelease(st, xr.Success, "ReleaseSwapchainImage")

			Expect(recorder.Findings()).To(BeEmpty())
		})

		It("flags acquiring the same image twice", func() {
			validator.OnAcquire(st, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)
			validator.OnAcquire(st, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
			Expect(recorder.Findings()[0].Message).To(ContainSubstring("acquired"))
		})

		It("flags an out-of-range image index", func() {
			validator.OnAcquire(st, 7, xr.Success, "AcquireSwapchainImage", noEnumerate)

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
			Expect(recorder.Findings()[0].Message).To(ContainSubstring("out of range"))
		})

		It("flags a wait with nothing acquired", func() {
			validator.OnWait(st, waitInfo, time.Millisecond, xr.Success, "WaitSwapchainImage")

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
		})

		It("flags a release without a completed wait", func() {
			validator.OnAcquire(st, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)
			validator.OnRelease(st, xr.Success, "ReleaseSwapchainImage")

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
			Expect(recorder.Findings()[0].Message).To(ContainSubstring("released"))
		})

		It("flags a timeout that returned early", func() {
			validator.OnAcquire(st, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)
			validator.OnWait(st, &xr.SwapchainImageWaitInfo{Timeout: xr.Duration(time.Second)},
				time.Millisecond, xr.TimeoutExpired, "WaitSwapchainImage")

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
			Expect(recorder.Findings()[0].Message).To(ContainSubstring("timeout"))
		})

		It("accepts a timeout that ran its course", func() {
			validator.OnAcquire(st, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)
			validator.OnWait(st, &xr.SwapchainImageWaitInfo{Timeout: xr.Duration(time.Millisecond)},
				2*time.Millisecond, xr.TimeoutExpired, "WaitSwapchainImage")

			Expect(recorder.Findings()).To(BeEmpty())
		})
	})

	Describe("static swapchains", func() {
		It("flags reacquiring the single image after release", func() {
			static := validator.OnCreate(&xr.SwapchainCreateInfo{
				CreateFlags: xr.SwapchainCreateStaticImageBit,
			})
			validator.OnEnumerateImages(static, 1, xr.Success, "EnumerateSwapchainImages")

			validator.OnAcquire(static, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)
			validator.OnWait(static, waitInfo, time.Millisecond, xr.Success, "WaitSwapchainImage")
			validator.OnRelease(static, xr.Success, "ReleaseSwapchainImage")
			Expect(recorder.Findings()).To(BeEmpty())

			validator.OnAcquire(static, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)
			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
		})

		It("accepts reacquiring a dynamic image after release", func() {
			validator.OnEnumerateImages(st, 3, xr.Success, "EnumerateSwapchainImages")

			validator.OnAcquire(st, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)
			validator.OnWait(st, waitInfo, time.Millisecond, xr.Success, "WaitSwapchainImage")
			validator.OnRelease(st, xr.Success, "ReleaseSwapchainImage")
			validator.OnAcquire(st, 0, xr.Success, "AcquireSwapchainImage", noEnumerate)

			Expect(recorder.Findings()).To(BeEmpty())
		})
	})

	Describe("lazy image discovery", func() {
		It("enumerates downstream on the first acquire", func() {
			validator.OnAcquire(st, 1, xr.Success, "AcquireSwapchainImage", enumerate(2))

			Expect(st.ImageCount()).To(Equal(2))
			Expect(st.AcquiredQueue()).To(Equal([]uint32{1}))
			Expect(recorder.Findings()).To(BeEmpty())
		})
	})
})

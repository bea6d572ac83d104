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

package swapchain

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/logger"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/metrics"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// Validator judges swapchain-scoped calls. Like the session validator
// it only observes; an out-of-protocol acquire is flagged and then
// recorded so the queue keeps matching what the application did.
type Validator struct {
	reporter *conformance.Reporter
	log      *zap.SugaredLogger
}

// NewValidator builds a swapchain validator reporting into reporter.
func NewValidator(reporter *conformance.Reporter) *Validator {
	return &Validator{
		reporter: reporter,
		log:      logger.For(logger.ComponentSwapchain),
	}
}

// OnCreate builds the per-swapchain state after a successful creation
// call.
func (v *Validator) OnCreate(createInfo *xr.SwapchainCreateInfo) *State {
	return newState(createInfo.Static())
}

// OnEnumerateImages checks the enumerated image count and fixes the
// image set on first sight.
func (v *Validator) OnEnumerateImages(st *State, count uint32, result xr.Result, function string) {
	if !result.Succeeded() {
		return
	}

	v.reporter.NonconformantIf(count == 0, function,
		"Swapchain enumerated zero images")
	v.reporter.NonconformantIf(st.static && count != 1, function,
		"Static swapchain enumerated %d images, expected exactly one", count)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.images != nil {
		v.reporter.NonconformantIf(uint32(len(st.images)) != count, function,
			"Swapchain image count changed from %d to %d between calls", len(st.images), count)

		return
	}

	st.ensureImagesLocked(count)
}

// OnAcquire records a successful acquire at the tail of the queue. When
// the image count is not yet known the enumerate callback is invoked,
// under the swapchain lock, to learn it from the runtime.
func (v *Validator) OnAcquire(st *State, index uint32, result xr.Result, function string, enumerate func() (uint32, xr.Result)) {
	if !result.Succeeded() {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.images == nil {
		count, enumResult := enumerate()
		if !enumResult.Succeeded() {
			v.log.Warnf("Could not enumerate swapchain images to size the image set: %s", enumResult)

			return
		}

		st.ensureImagesLocked(count)
	}

	if index >= uint32(len(st.images)) {
		v.reporter.Nonconformant(function,
			"Acquired image index %d is out of range for a swapchain with %d images",
			index, len(st.images))

		return
	}

	image := st.images[index]
	if err := image.Event(context.Background(), eventAcquire); err != nil {
		v.reporter.Nonconformant(function,
			"Image %d was acquired while in state %s", index, image.Current())
		image.SetState(imageAcquired)
	}

	st.acquired = append(st.acquired, index)
}

// OnWait checks that the wait targets the oldest acquired image, and
// that a timeout did not come back early.
func (v *Validator) OnWait(st *State, waitInfo *xr.SwapchainImageWaitInfo, elapsed time.Duration, result xr.Result, function string) {
	metrics.ObserveImageWait(result.String(), elapsed)

	st.mu.Lock()
	defer st.mu.Unlock()

	switch {
	case result == xr.TimeoutExpired:
		// Qualified success: the image was not waited. The only check
		// is that the runtime actually honored the requested timeout.
		if waitInfo.Timeout != xr.InfiniteDuration && elapsed < time.Duration(waitInfo.Timeout) {
			v.reporter.Nonconformant(function,
				"Image wait reported %s after %s, before the requested timeout of %s elapsed",
				result, elapsed, time.Duration(waitInfo.Timeout))
		}
	case result.Succeeded():
		if len(st.acquired) == 0 {
			v.reporter.Nonconformant(function,
				"Image wait succeeded but no image is acquired; %s expected", xr.ErrorCallOrderInvalid)

			return
		}

		index := st.acquired[0]

		image := st.images[index]
		if err := image.Event(context.Background(), eventWait); err != nil {
			v.reporter.Nonconformant(function,
				"Image %d completed a wait while in state %s", index, image.Current())
			image.SetState(imageWaited)
		}
	}
}

// OnRelease checks that the release targets the oldest acquired image
// and pops it from the queue.
func (v *Validator) OnRelease(st *State, result xr.Result, function string) {
	if !result.Succeeded() {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.acquired) == 0 {
		v.reporter.Nonconformant(function,
			"Image release succeeded but no image is acquired; %s expected", xr.ErrorCallOrderInvalid)

		return
	}

	index := st.acquired[0]
	st.acquired = st.acquired[1:]

	image := st.images[index]
	if err := image.Event(context.Background(), eventRelease); err != nil {
		v.reporter.Nonconformant(function,
			"Image %d was released while in state %s", index, image.Current())
		image.SetState(imageReleased)
	}
}

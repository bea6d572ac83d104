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

package hooks

import (
	"time"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/metrics"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/registry"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/validation"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// CreateSwapchain forwards swapchain creation and attaches the
// swapchain payload to the new node.
func (h *ConformanceHooks) CreateSwapchain(sess xr.Session, createInfo *xr.SwapchainCreateInfo) (xr.Swapchain, xr.Result) {
	const function = "CreateSwapchain"
	metrics.IncInterceptedCall(function)

	parent, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return xr.Swapchain(xr.NullHandle), h.invalidHandle(function, err)
	}

	guard := validation.NewChainGuard(h.reporter, function, "createInfo", createInfo.Next)
	handle, result := h.next.CreateSwapchain(sess, createInfo)
	guard.Check()

	if result.Succeeded() {
		node := parent.CloneForChild(xr.Handle(handle), xr.ObjectTypeSwapchain)
		node.AttachCustom(h.swapchains.OnCreate(createInfo))
		h.register(node, function)
	}

	return handle, result
}

// DestroySwapchain forwards swapchain destruction and drops the node.
func (h *ConformanceHooks) DestroySwapchain(sc xr.Swapchain) xr.Result {
	key := registry.Key{Value: xr.Handle(sc), Type: xr.ObjectTypeSwapchain}

	return h.destroy("DestroySwapchain", key, func() xr.Result {
		return h.next.DestroySwapchain(sc)
	})
}

// EnumerateSwapchainImages forwards the enumeration and fixes the image
// set the protocol checks run against.
func (h *ConformanceHooks) EnumerateSwapchainImages(sc xr.Swapchain) (uint32, xr.Result) {
	const function = "EnumerateSwapchainImages"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sc), xr.ObjectTypeSwapchain)
	if err != nil {
		return 0, h.invalidHandle(function, err)
	}

	count, result := h.next.EnumerateSwapchainImages(sc)
	h.swapchains.OnEnumerateImages(h.swapchainStateOf(node, function), count, result, function)

	return count, result
}

// AcquireSwapchainImage forwards an acquire and records it at the tail
// of the protocol queue. When the application never enumerated, the
// validator enumerates on its behalf through the callback.
func (h *ConformanceHooks) AcquireSwapchainImage(sc xr.Swapchain, acquireInfo *xr.SwapchainImageAcquireInfo) (uint32, xr.Result) {
	const function = "AcquireSwapchainImage"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sc), xr.ObjectTypeSwapchain)
	if err != nil {
		return 0, h.invalidHandle(function, err)
	}

	// The acquire info is optional and may be nil.
	var acquireNext *xr.BaseStructure
	if acquireInfo != nil {
		acquireNext = acquireInfo.Next
	}

	guard := validation.NewChainGuard(h.reporter, function, "acquireInfo", acquireNext)
	index, result := h.next.AcquireSwapchainImage(sc, acquireInfo)
	guard.Check()

	h.swapchains.OnAcquire(h.swapchainStateOf(node, function), index, result, function,
		func() (uint32, xr.Result) {
			return h.next.EnumerateSwapchainImages(sc)
		})

	return index, result
}

// WaitSwapchainImage forwards a wait, timing the block so an early
// timeout can be detected.
func (h *ConformanceHooks) WaitSwapchainImage(sc xr.Swapchain, waitInfo *xr.SwapchainImageWaitInfo) xr.Result {
	const function = "WaitSwapchainImage"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sc), xr.ObjectTypeSwapchain)
	if err != nil {
		return h.invalidHandle(function, err)
	}

	guard := validation.NewChainGuard(h.reporter, function, "waitInfo", waitInfo.Next)

	start := time.Now()
	result := h.next.WaitSwapchainImage(sc, waitInfo)
	elapsed := time.Since(start)

	guard.Check()

	h.swapchains.OnWait(h.swapchainStateOf(node, function), waitInfo, elapsed, result, function)

	return result
}

// ReleaseSwapchainImage forwards a release and pops the protocol queue.
func (h *ConformanceHooks) ReleaseSwapchainImage(sc xr.Swapchain, releaseInfo *xr.SwapchainImageReleaseInfo) xr.Result {
	const function = "ReleaseSwapchainImage"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sc), xr.ObjectTypeSwapchain)
	if err != nil {
		return h.invalidHandle(function, err)
	}

	// The release info is optional and may be nil.
	var releaseNext *xr.BaseStructure
	if releaseInfo != nil {
		releaseNext = releaseInfo.Next
	}

	guard := validation.NewChainGuard(h.reporter, function, "releaseInfo", releaseNext)
	result := h.next.ReleaseSwapchainImage(sc, releaseInfo)
	guard.Check()

	h.swapchains.OnRelease(h.swapchainStateOf(node, function), result, function)

	return result
}

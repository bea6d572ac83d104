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
	"github.com/openxr-conformance/runtime-validation-layer/pkg/metrics"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/registry"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/validation"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// CreateSession forwards session creation and attaches the session
// payload to the new node.
func (h *ConformanceHooks) CreateSession(instance xr.Instance, createInfo *xr.SessionCreateInfo) (xr.Session, xr.Result) {
	const function = "CreateSession"
	metrics.IncInterceptedCall(function)

	parent, err := h.lookup(xr.Handle(instance), xr.ObjectTypeInstance)
	if err != nil {
		return xr.Session(xr.NullHandle), h.invalidHandle(function, err)
	}

	guard := validation.NewChainGuard(h.reporter, function, "createInfo", createInfo.Next)
	handle, result := h.next.CreateSession(instance, createInfo)
	guard.Check()

	if result.Succeeded() {
		node := parent.CloneForChild(xr.Handle(handle), xr.ObjectTypeSession)
		node.AttachCustom(h.sessions.OnCreate(createInfo, function))
		h.register(node, function)
	}

	return handle, result
}

// DestroySession forwards session destruction and drops the session
// subtree, swapchains, spaces and all.
func (h *ConformanceHooks) DestroySession(sess xr.Session) xr.Result {
	key := registry.Key{Value: xr.Handle(sess), Type: xr.ObjectTypeSession}

	return h.destroy("DestroySession", key, func() xr.Result {
		return h.next.DestroySession(sess)
	})
}

// BeginSession forwards a begin call and cross-checks its result.
func (h *ConformanceHooks) BeginSession(sess xr.Session, beginInfo *xr.SessionBeginInfo) xr.Result {
	const function = "BeginSession"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return h.invalidHandle(function, err)
	}

	guard := validation.NewChainGuard(h.reporter, function, "beginInfo", beginInfo.Next)
	result := h.next.BeginSession(sess, beginInfo)
	guard.Check()

	h.sessions.OnBegin(h.sessionStateOf(node, function), result, function)

	return result
}

// EndSession forwards an end call and cross-checks its result.
func (h *ConformanceHooks) EndSession(sess xr.Session) xr.Result {
	const function = "EndSession"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return h.invalidHandle(function, err)
	}

	result := h.next.EndSession(sess)
	h.sessions.OnEnd(h.sessionStateOf(node, function), result, function)

	return result
}

// RequestExitSession forwards an exit request and cross-checks its
// result.
func (h *ConformanceHooks) RequestExitSession(sess xr.Session) xr.Result {
	const function = "RequestExitSession"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return h.invalidHandle(function, err)
	}

	result := h.next.RequestExitSession(sess)
	h.sessions.OnRequestExit(h.sessionStateOf(node, function), result, function)

	return result
}

// EnumerateReferenceSpaces forwards the enumeration and validates the
// returned set.
func (h *ConformanceHooks) EnumerateReferenceSpaces(sess xr.Session) ([]xr.ReferenceSpaceType, xr.Result) {
	const function = "EnumerateReferenceSpaces"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return nil, h.invalidHandle(function, err)
	}

	spaces, result := h.next.EnumerateReferenceSpaces(sess)
	h.sessions.OnEnumerateReferenceSpaces(h.sessionStateOf(node, function), spaces, result, function)

	return spaces, result
}

// EnumerateSwapchainFormats forwards the enumeration and validates the
// returned set.
func (h *ConformanceHooks) EnumerateSwapchainFormats(sess xr.Session) ([]int64, xr.Result) {
	const function = "EnumerateSwapchainFormats"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return nil, h.invalidHandle(function, err)
	}

	formats, result := h.next.EnumerateSwapchainFormats(sess)
	h.sessions.OnEnumerateSwapchainFormats(h.sessionStateOf(node, function), formats, result, function)

	return formats, result
}

// LocateViews forwards a view location and validates the returned view
// state and poses. The out structures are chain-guarded: the runtime
// fills payloads but must not relink.
func (h *ConformanceHooks) LocateViews(sess xr.Session, locateInfo *xr.ViewLocateInfo, viewState *xr.ViewState, views []xr.View) (int, xr.Result) {
	const function = "LocateViews"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return 0, h.invalidHandle(function, err)
	}

	guards := []*validation.ChainGuard{
		validation.NewChainGuard(h.reporter, function, "locateInfo", locateInfo.Next),
		validation.NewChainGuard(h.reporter, function, "viewState", viewState.Next),
	}
	for i := range views {
		guards = append(guards,
			validation.NewChainGuard(h.reporter, function, "views", views[i].Next))
	}

	count, result := h.next.LocateViews(sess, locateInfo, viewState, views)

	for _, guard := range guards {
		guard.Check()
	}

	located := views
	if count >= 0 && count < len(views) {
		located = views[:count]
	}

	h.sessions.OnLocateViews(h.sessionStateOf(node, function), locateInfo, viewState, located, result, function)

	return count, result
}

// WaitFrame forwards a frame wait and validates the returned
// prediction.
func (h *ConformanceHooks) WaitFrame(sess xr.Session, waitInfo *xr.FrameWaitInfo, frameState *xr.FrameState) xr.Result {
	const function = "WaitFrame"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return h.invalidHandle(function, err)
	}

	guards := []*validation.ChainGuard{
		validation.NewChainGuard(h.reporter, function, "waitInfo", waitInfo.Next),
		validation.NewChainGuard(h.reporter, function, "frameState", frameState.Next),
	}

	result := h.next.WaitFrame(sess, waitInfo, frameState)

	for _, guard := range guards {
		guard.Check()
	}

	h.sessions.OnWaitFrame(h.sessionStateOf(node, function), frameState, result, function)

	return result
}

// BeginFrame forwards a frame begin and cross-checks the frame bracket.
func (h *ConformanceHooks) BeginFrame(sess xr.Session, beginInfo *xr.FrameBeginInfo) xr.Result {
	const function = "BeginFrame"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return h.invalidHandle(function, err)
	}

	guard := validation.NewChainGuard(h.reporter, function, "beginInfo", beginInfo.Next)
	result := h.next.BeginFrame(sess, beginInfo)
	guard.Check()

	h.sessions.OnBeginFrame(h.sessionStateOf(node, function), result, function)

	return result
}

// EndFrame forwards a frame end under the session lock so the frame
// bracket cannot be raced by a concurrent frame call.
func (h *ConformanceHooks) EndFrame(sess xr.Session, endInfo *xr.FrameEndInfo) xr.Result {
	const function = "EndFrame"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return h.invalidHandle(function, err)
	}

	guard := validation.NewChainGuard(h.reporter, function, "endInfo", endInfo.Next)
	result := h.sessions.EndFrame(h.sessionStateOf(node, function), function, func() xr.Result {
		return h.next.EndFrame(sess, endInfo)
	})
	guard.Check()

	return result
}

// CreateReferenceSpace forwards a space creation and tracks the new
// handle under its session. Spaces carry no custom payload.
func (h *ConformanceHooks) CreateReferenceSpace(sess xr.Session, createInfo *xr.ReferenceSpaceCreateInfo) (xr.Space, xr.Result) {
	const function = "CreateReferenceSpace"
	metrics.IncInterceptedCall(function)

	parent, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return xr.Space(xr.NullHandle), h.invalidHandle(function, err)
	}

	guard := validation.NewChainGuard(h.reporter, function, "createInfo", createInfo.Next)
	handle, result := h.next.CreateReferenceSpace(sess, createInfo)
	guard.Check()

	if result.Succeeded() {
		h.register(parent.CloneForChild(xr.Handle(handle), xr.ObjectTypeSpace), function)
	}

	return handle, result
}

// DestroySpace forwards a space destruction and drops the node.
func (h *ConformanceHooks) DestroySpace(space xr.Space) xr.Result {
	key := registry.Key{Value: xr.Handle(space), Type: xr.ObjectTypeSpace}

	return h.destroy("DestroySpace", key, func() xr.Result {
		return h.next.DestroySpace(space)
	})
}

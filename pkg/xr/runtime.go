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

package xr

// Runtime is the call surface of the tested implementation, one method
// per intercepted call. The conformance layer implements this interface
// itself, wrapping the next Runtime in the dispatch chain: it forwards
// every call unmodified and only inspects arguments, results and state
// transitions.
//
// Out parameters are modeled as return values; slice out-buffers follow
// the enumerate-call idiom of returning the full set.
type Runtime interface {
	// Instance
	CreateInstance(createInfo *InstanceCreateInfo) (Instance, Result)
	DestroyInstance(instance Instance) Result
	PollEvent(instance Instance) (Event, Result)

	// Session
	CreateSession(instance Instance, createInfo *SessionCreateInfo) (Session, Result)
	DestroySession(session Session) Result
	BeginSession(session Session, beginInfo *SessionBeginInfo) Result
	EndSession(session Session) Result
	RequestExitSession(session Session) Result
	EnumerateReferenceSpaces(session Session) ([]ReferenceSpaceType, Result)
	EnumerateSwapchainFormats(session Session) ([]int64, Result)
	LocateViews(session Session, locateInfo *ViewLocateInfo, viewState *ViewState, views []View) (int, Result)
	SyncActions(session Session, syncInfo *ActionsSyncInfo) Result

	// Frame loop
	WaitFrame(session Session, waitInfo *FrameWaitInfo, frameState *FrameState) Result
	BeginFrame(session Session, beginInfo *FrameBeginInfo) Result
	EndFrame(session Session, endInfo *FrameEndInfo) Result

	// Swapchain
	CreateSwapchain(session Session, createInfo *SwapchainCreateInfo) (Swapchain, Result)
	DestroySwapchain(swapchain Swapchain) Result
	EnumerateSwapchainImages(swapchain Swapchain) (uint32, Result)
	AcquireSwapchainImage(swapchain Swapchain, acquireInfo *SwapchainImageAcquireInfo) (uint32, Result)
	WaitSwapchainImage(swapchain Swapchain, waitInfo *SwapchainImageWaitInfo) Result
	ReleaseSwapchainImage(swapchain Swapchain, releaseInfo *SwapchainImageReleaseInfo) Result

	// Spaces
	CreateReferenceSpace(session Session, createInfo *ReferenceSpaceCreateInfo) (Space, Result)
	DestroySpace(space Space) Result

	// Input
	CreateActionSet(instance Instance, createInfo *ActionSetCreateInfo) (ActionSet, Result)
	DestroyActionSet(actionSet ActionSet) Result
	CreateAction(actionSet ActionSet, createInfo *ActionCreateInfo) (Action, Result)
	DestroyAction(action Action) Result
}

// InstanceCreateInfo carries the arguments of an instance creation call.
type InstanceCreateInfo struct {
	Next              *BaseStructure
	ApplicationName   string
	EnabledExtensions []string
}

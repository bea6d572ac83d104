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
	"sync"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// MockRuntime is a scriptable downstream runtime. By default every call
// succeeds with plausible values: handles count up from one, frame
// predictions advance monotonically and enumerations return fixed sets.
// Individual calls are overridden by assigning the matching Func field,
// which lets a test script exactly the misbehavior it wants the layer
// to catch.
type MockRuntime struct {
	mu          sync.Mutex
	nextHandle  xr.Handle
	events      []xr.Event
	lastPredict xr.Time
	acquireSeq  uint32

	// Default enumeration results.
	ReferenceSpaces  []xr.ReferenceSpaceType
	SwapchainFormats []int64
	ImageCount       uint32
	SyncResult       xr.Result

	CreateInstanceFunc            func(*xr.InstanceCreateInfo) (xr.Instance, xr.Result)
	DestroyInstanceFunc           func(xr.Instance) xr.Result
	PollEventFunc                 func(xr.Instance) (xr.Event, xr.Result)
	CreateSessionFunc             func(xr.Instance, *xr.SessionCreateInfo) (xr.Session, xr.Result)
	DestroySessionFunc            func(xr.Session) xr.Result
	BeginSessionFunc              func(xr.Session, *xr.SessionBeginInfo) xr.Result
	EndSessionFunc                func(xr.Session) xr.Result
	RequestExitSessionFunc        func(xr.Session) xr.Result
	EnumerateReferenceSpacesFunc  func(xr.Session) ([]xr.ReferenceSpaceType, xr.Result)
	EnumerateSwapchainFormatsFunc func(xr.Session) ([]int64, xr.Result)
	LocateViewsFunc               func(xr.Session, *xr.ViewLocateInfo, *xr.ViewState, []xr.View) (int, xr.Result)
	SyncActionsFunc               func(xr.Session, *xr.ActionsSyncInfo) xr.Result
	WaitFrameFunc                 func(xr.Session, *xr.FrameWaitInfo, *xr.FrameState) xr.Result
	BeginFrameFunc                func(xr.Session, *xr.FrameBeginInfo) xr.Result
	EndFrameFunc                  func(xr.Session, *xr.FrameEndInfo) xr.Result
	CreateSwapchainFunc           func(xr.Session, *xr.SwapchainCreateInfo) (xr.Swapchain, xr.Result)
	DestroySwapchainFunc          func(xr.Swapchain) xr.Result
	EnumerateSwapchainImagesFunc  func(xr.Swapchain) (uint32, xr.Result)
	AcquireSwapchainImageFunc     func(xr.Swapchain, *xr.SwapchainImageAcquireInfo) (uint32, xr.Result)
	WaitSwapchainImageFunc        func(xr.Swapchain, *xr.SwapchainImageWaitInfo) xr.Result
	ReleaseSwapchainImageFunc     func(xr.Swapchain, *xr.SwapchainImageReleaseInfo) xr.Result
	CreateReferenceSpaceFunc      func(xr.Session, *xr.ReferenceSpaceCreateInfo) (xr.Space, xr.Result)
	DestroySpaceFunc              func(xr.Space) xr.Result
	CreateActionSetFunc           func(xr.Instance, *xr.ActionSetCreateInfo) (xr.ActionSet, xr.Result)
	DestroyActionSetFunc          func(xr.ActionSet) xr.Result
	CreateActionFunc              func(xr.ActionSet, *xr.ActionCreateInfo) (xr.Action, xr.Result)
	DestroyActionFunc             func(xr.Action) xr.Result
}

var _ xr.Runtime = (*MockRuntime)(nil)

// NewMockRuntime builds a mock with conformant defaults.
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		ReferenceSpaces: []xr.ReferenceSpaceType{
			xr.ReferenceSpaceTypeView,
			xr.ReferenceSpaceTypeLocal,
			xr.ReferenceSpaceTypeStage,
		},
		SwapchainFormats: []int64{43, 44, 91},
		ImageCount:       3,
		SyncResult:       xr.Success,
	}
}

// PushEvent queues an event for a later poll.
func (m *MockRuntime) PushEvent(event xr.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
}

func (m *MockRuntime) allocHandle() xr.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextHandle++

	return m.nextHandle
}

func (m *MockRuntime) CreateInstance(createInfo *xr.InstanceCreateInfo) (xr.Instance, xr.Result) {
	if m.CreateInstanceFunc != nil {
		return m.CreateInstanceFunc(createInfo)
	}

	return xr.Instance(m.allocHandle()), xr.Success
}

func (m *MockRuntime) DestroyInstance(instance xr.Instance) xr.Result {
	if m.DestroyInstanceFunc != nil {
		return m.DestroyInstanceFunc(instance)
	}

	return xr.Success
}

func (m *MockRuntime) PollEvent(instance xr.Instance) (xr.Event, xr.Result) {
	if m.PollEventFunc != nil {
		return m.PollEventFunc(instance)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.events) == 0 {
		return nil, xr.EventUnavailable
	}

	event := m.events[0]
	m.events = m.events[1:]

	return event, xr.Success
}

func (m *MockRuntime) CreateSession(instance xr.Instance, createInfo *xr.SessionCreateInfo) (xr.Session, xr.Result) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(instance, createInfo)
	}

	return xr.Session(m.allocHandle()), xr.Success
}

func (m *MockRuntime) DestroySession(sess xr.Session) xr.Result {
	if m.DestroySessionFunc != nil {
		return m.DestroySessionFunc(sess)
	}

	return xr.Success
}

func (m *MockRuntime) BeginSession(sess xr.Session, beginInfo *xr.SessionBeginInfo) xr.Result {
	if m.BeginSessionFunc != nil {
		return m.BeginSessionFunc(sess, beginInfo)
	}

	return xr.Success
}

func (m *MockRuntime) EndSession(sess xr.Session) xr.Result {
	if m.EndSessionFunc != nil {
		return m.EndSessionFunc(sess)
	}

	return xr.Success
}

func (m *MockRuntime) RequestExitSession(sess xr.Session) xr.Result {
	if m.RequestExitSessionFunc != nil {
		return m.RequestExitSessionFunc(sess)
	}

	return xr.Success
}

func (m *MockRuntime) EnumerateReferenceSpaces(sess xr.Session) ([]xr.ReferenceSpaceType, xr.Result) {
	if m.EnumerateReferenceSpacesFunc != nil {
		return m.EnumerateReferenceSpacesFunc(sess)
	}

	return m.ReferenceSpaces, xr.Success
}

func (m *MockRuntime) EnumerateSwapchainFormats(sess xr.Session) ([]int64, xr.Result) {
	if m.EnumerateSwapchainFormatsFunc != nil {
		return m.EnumerateSwapchainFormatsFunc(sess)
	}

	return m.SwapchainFormats, xr.Success
}

func (m *MockRuntime) LocateViews(sess xr.Session, locateInfo *xr.ViewLocateInfo, viewState *xr.ViewState, views []xr.View) (int, xr.Result) {
	if m.LocateViewsFunc != nil {
		return m.LocateViewsFunc(sess, locateInfo, viewState, views)
	}

	viewState.Flags = xr.ViewStateOrientationValidBit | xr.ViewStatePositionValidBit |
		xr.ViewStateOrientationTrackedBit | xr.ViewStatePositionTrackedBit

	for i := range views {
		views[i].Pose = xr.Posef{Orientation: xr.Quaternionf{W: 1}}
	}

	return len(views), xr.Success
}

func (m *MockRuntime) SyncActions(sess xr.Session, syncInfo *xr.ActionsSyncInfo) xr.Result {
	if m.SyncActionsFunc != nil {
		return m.SyncActionsFunc(sess, syncInfo)
	}

	return m.SyncResult
}

func (m *MockRuntime) WaitFrame(sess xr.Session, waitInfo *xr.FrameWaitInfo, frameState *xr.FrameState) xr.Result {
	if m.WaitFrameFunc != nil {
		return m.WaitFrameFunc(sess, waitInfo, frameState)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	const period = 16_666_666

	m.lastPredict += period
	frameState.PredictedDisplayTime = m.lastPredict
	frameState.PredictedDisplayPeriod = period
	frameState.ShouldRender = true

	return xr.Success
}

func (m *MockRuntime) BeginFrame(sess xr.Session, beginInfo *xr.FrameBeginInfo) xr.Result {
	if m.BeginFrameFunc != nil {
		return m.BeginFrameFunc(sess, beginInfo)
	}

	return xr.Success
}

func (m *MockRuntime) EndFrame(sess xr.Session, endInfo *xr.FrameEndInfo) xr.Result {
	if m.EndFrameFunc != nil {
		return m.EndFrameFunc(sess, endInfo)
	}

	return xr.Success
}

func (m *MockRuntime) CreateSwapchain(sess xr.Session, createInfo *xr.SwapchainCreateInfo) (xr.Swapchain, xr.Result) {
	if m.CreateSwapchainFunc != nil {
		return m.CreateSwapchainFunc(sess, createInfo)
	}

	return xr.Swapchain(m.allocHandle()), xr.Success
}

func (m *MockRuntime) DestroySwapchain(sc xr.Swapchain) xr.Result {
	if m.DestroySwapchainFunc != nil {
		return m.DestroySwapchainFunc(sc)
	}

	return xr.Success
}

func (m *MockRuntime) EnumerateSwapchainImages(sc xr.Swapchain) (uint32, xr.Result) {
	if m.EnumerateSwapchainImagesFunc != nil {
		return m.EnumerateSwapchainImagesFunc(sc)
	}

	return m.ImageCount, xr.Success
}

func (m *MockRuntime) AcquireSwapchainImage(sc xr.Swapchain, acquireInfo *xr.SwapchainImageAcquireInfo) (uint32, xr.Result) {
	if m.AcquireSwapchainImageFunc != nil {
		return m.AcquireSwapchainImageFunc(sc, acquireInfo)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	index := m.acquireSeq % m.ImageCount
	m.acquireSeq++

	return index, xr.Success
}

func (m *MockRuntime) WaitSwapchainImage(sc xr.Swapchain, waitInfo *xr.SwapchainImageWaitInfo) xr.Result {
	if m.WaitSwapchainImageFunc != nil {
		return m.WaitSwapchainImageFunc(sc, waitInfo)
	}

	return xr.Success
}

func (m *MockRuntime) ReleaseSwapchainImage(sc xr.Swapchain, releaseInfo *xr.SwapchainImageReleaseInfo) xr.Result {
	if m.ReleaseSwapchainImageFunc != nil {
		return m.ReleaseSwapchainImageFunc(sc, releaseInfo)
	}

	return xr.Success
}

func (m *MockRuntime) CreateReferenceSpace(sess xr.Session, createInfo *xr.ReferenceSpaceCreateInfo) (xr.Space, xr.Result) {
	if m.CreateReferenceSpaceFunc != nil {
		return m.CreateReferenceSpaceFunc(sess, createInfo)
	}

	return xr.Space(m.allocHandle()), xr.Success
}

func (m *MockRuntime) DestroySpace(space xr.Space) xr.Result {
	if m.DestroySpaceFunc != nil {
		return m.DestroySpaceFunc(space)
	}

	return xr.Success
}

func (m *MockRuntime) CreateActionSet(instance xr.Instance, createInfo *xr.ActionSetCreateInfo) (xr.ActionSet, xr.Result) {
	if m.CreateActionSetFunc != nil {
		return m.CreateActionSetFunc(instance, createInfo)
	}

	return xr.ActionSet(m.allocHandle()), xr.Success
}

func (m *MockRuntime) DestroyActionSet(actionSet xr.ActionSet) xr.Result {
	if m.DestroyActionSetFunc != nil {
		return m.DestroyActionSetFunc(actionSet)
	}

	return xr.Success
}

func (m *MockRuntime) CreateAction(actionSet xr.ActionSet, createInfo *xr.ActionCreateInfo) (xr.Action, xr.Result) {
	if m.CreateActionFunc != nil {
		return m.CreateActionFunc(actionSet, createInfo)
	}

	return xr.Action(m.allocHandle()), xr.Success
}

func (m *MockRuntime) DestroyAction(action xr.Action) xr.Result {
	if m.DestroyActionFunc != nil {
		return m.DestroyActionFunc(action)
	}

	return xr.Success
}

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

import "fmt"

// StructureType discriminates the structures that can appear in an
// extension chain.
type StructureType int32

const (
	TypeUnknown                    StructureType = 0
	TypeInstanceCreateInfo         StructureType = 3
	TypeSessionCreateInfo          StructureType = 8
	TypeSwapchainCreateInfo        StructureType = 9
	TypeActionSetCreateInfo        StructureType = 28
	TypeActionCreateInfo           StructureType = 29
	TypeFrameState                 StructureType = 44
	TypeView                       StructureType = 7
	TypeGraphicsBindingOpenGL      StructureType = 1000023000
	TypeGraphicsBindingVulkan      StructureType = 1000025000
	TypeGraphicsBindingD3D11       StructureType = 1000027000
	TypeGraphicsBindingD3D12       StructureType = 1000028000
	TypeHeadlessSessionCreateInfo  StructureType = 1000051000
	TypeDebugUtilsMessengerCreate  StructureType = 1000019002
	TypeSecondaryViewConfiguration StructureType = 1000053000
)

func (t StructureType) String() string {
	switch t {
	case TypeInstanceCreateInfo:
		return "InstanceCreateInfo"
	case TypeSessionCreateInfo:
		return "SessionCreateInfo"
	case TypeSwapchainCreateInfo:
		return "SwapchainCreateInfo"
	case TypeActionSetCreateInfo:
		return "ActionSetCreateInfo"
	case TypeActionCreateInfo:
		return "ActionCreateInfo"
	case TypeFrameState:
		return "FrameState"
	case TypeView:
		return "View"
	case TypeGraphicsBindingOpenGL:
		return "GraphicsBindingOpenGL"
	case TypeGraphicsBindingVulkan:
		return "GraphicsBindingVulkan"
	case TypeGraphicsBindingD3D11:
		return "GraphicsBindingD3D11"
	case TypeGraphicsBindingD3D12:
		return "GraphicsBindingD3D12"
	case TypeHeadlessSessionCreateInfo:
		return "HeadlessSessionCreateInfo"
	default:
		return fmt.Sprintf("StructureType(%d)", int32(t))
	}
}

// GraphicsBindingTypes lists the structure types that bind a session to a
// graphics API. A non-headless session must chain exactly one of these to
// its create info.
var GraphicsBindingTypes = []StructureType{
	TypeGraphicsBindingOpenGL,
	TypeGraphicsBindingVulkan,
	TypeGraphicsBindingD3D11,
	TypeGraphicsBindingD3D12,
}

// BaseStructure is one link of an extension chain: a type discriminator, a
// pointer to the next link, and an opaque payload the layer never
// interprets. Chains are attached to call arguments and must not be
// mutated in place by the runtime.
type BaseStructure struct {
	Type    StructureType
	Next    *BaseStructure
	Payload any
}

// ChainTypes walks a chain and collects the structure types in order.
func ChainTypes(head *BaseStructure) []StructureType {
	var types []StructureType
	for s := head; s != nil; s = s.Next {
		types = append(types, s.Type)
	}

	return types
}

// SessionCreateInfo carries the arguments of a session creation call.
type SessionCreateInfo struct {
	Next        *BaseStructure
	CreateFlags uint64
	SystemID    SystemID
}

// SessionBeginInfo selects the view configuration a session runs with.
type SessionBeginInfo struct {
	Next                  *BaseStructure
	ViewConfigurationType int32
}

// SwapchainCreateFlags modify swapchain creation.
type SwapchainCreateFlags uint64

// SwapchainCreateStaticImageBit marks a swapchain whose single image is
// acquired, waited and released exactly once.
const SwapchainCreateStaticImageBit SwapchainCreateFlags = 0x00000004

// SwapchainCreateInfo carries the arguments of a swapchain creation call.
type SwapchainCreateInfo struct {
	Next        *BaseStructure
	CreateFlags SwapchainCreateFlags
	Format      int64
	SampleCount uint32
	Width       uint32
	Height      uint32
	FaceCount   uint32
	ArraySize   uint32
	MipCount    uint32
}

// Static reports whether the create flags request a static swapchain.
func (ci *SwapchainCreateInfo) Static() bool {
	return ci.CreateFlags&SwapchainCreateStaticImageBit != 0
}

// SwapchainImageAcquireInfo is currently empty besides its chain.
type SwapchainImageAcquireInfo struct {
	Next *BaseStructure
}

// SwapchainImageWaitInfo bounds how long a wait call may block.
type SwapchainImageWaitInfo struct {
	Next    *BaseStructure
	Timeout Duration
}

// SwapchainImageReleaseInfo is currently empty besides its chain.
type SwapchainImageReleaseInfo struct {
	Next *BaseStructure
}

// ActionSetCreateInfo carries the arguments of an action set creation call.
type ActionSetCreateInfo struct {
	Next     *BaseStructure
	Name     string
	Priority uint32
}

// ActionCreateInfo carries the arguments of an action creation call.
type ActionCreateInfo struct {
	Next *BaseStructure
	Name string
	Type ActionType
}

// ActiveActionSet names one action set a sync call reconciles.
type ActiveActionSet struct {
	ActionSet ActionSet
	SubPath   string
}

// ActionsSyncInfo lists the action sets a sync call covers.
type ActionsSyncInfo struct {
	Next             *BaseStructure
	ActiveActionSets []ActiveActionSet
}

// ReferenceSpaceCreateInfo carries the arguments of a space creation call.
type ReferenceSpaceCreateInfo struct {
	Next               *BaseStructure
	ReferenceSpaceType ReferenceSpaceType
	PoseInSpace        Posef
}

// FrameWaitInfo is currently empty besides its chain.
type FrameWaitInfo struct {
	Next *BaseStructure
}

// FrameState is the out parameter of a wait-frame call.
type FrameState struct {
	Next                   *BaseStructure
	PredictedDisplayTime   Time
	PredictedDisplayPeriod Duration
	ShouldRender           bool
}

// FrameBeginInfo is currently empty besides its chain.
type FrameBeginInfo struct {
	Next *BaseStructure
}

// FrameEndInfo carries the composition arguments of an end-frame call.
type FrameEndInfo struct {
	Next                 *BaseStructure
	DisplayTime          Time
	EnvironmentBlendMode int32
}

// ViewLocateInfo selects the time and space views are located for.
type ViewLocateInfo struct {
	Next                  *BaseStructure
	ViewConfigurationType int32
	DisplayTime           Time
	Space                 Space
}

// ViewStateFlags qualify the validity of located views.
type ViewStateFlags uint64

const (
	ViewStateOrientationValidBit   ViewStateFlags = 0x1
	ViewStatePositionValidBit      ViewStateFlags = 0x2
	ViewStateOrientationTrackedBit ViewStateFlags = 0x4
	ViewStatePositionTrackedBit    ViewStateFlags = 0x8
)

// ViewState is the out parameter qualifying a located view array.
type ViewState struct {
	Next  *BaseStructure
	Flags ViewStateFlags
}

// View is one located view: a pose and a field of view.
type View struct {
	Next *BaseStructure
	Pose Posef
	FOV  [4]float32
}

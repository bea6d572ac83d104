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

// Package xr defines the data model of the validated runtime API: opaque
// handles, result codes, enumerations and the structure chains that calls
// carry. It mirrors the wire-level contract of the runtime without any
// validation logic of its own.
package xr

import "fmt"

// Handle is the opaque identifier for a stateful object exposed by the
// runtime. All typed handles share this underlying representation so a
// single registry map can track every object category.
type Handle uint64

// NullHandle is never a live object.
const NullHandle Handle = 0

// Typed handles for the object categories the layer tracks.
type (
	Instance  Handle
	Session   Handle
	Swapchain Handle
	Space     Handle
	ActionSet Handle
	Action    Handle
)

// SystemID identifies the system a session is created for.
type SystemID uint64

// Time is a runtime timestamp in nanoseconds.
type Time int64

// Duration is a runtime duration in nanoseconds.
type Duration int64

// InfiniteDuration means "block until the operation completes".
const InfiniteDuration Duration = 0x7fffffffffffffff

// ObjectType discriminates the category of a handle. It is part of the
// registry key: the same numeric handle value may legally identify two
// objects of different types.
type ObjectType int32

const (
	ObjectTypeUnknown   ObjectType = 0
	ObjectTypeInstance  ObjectType = 1
	ObjectTypeSession   ObjectType = 2
	ObjectTypeSwapchain ObjectType = 3
	ObjectTypeSpace     ObjectType = 4
	ObjectTypeActionSet ObjectType = 5
	ObjectTypeAction    ObjectType = 6
)

func (t ObjectType) String() string {
	switch t {
	case ObjectTypeInstance:
		return "Instance"
	case ObjectTypeSession:
		return "Session"
	case ObjectTypeSwapchain:
		return "Swapchain"
	case ObjectTypeSpace:
		return "Space"
	case ObjectTypeActionSet:
		return "ActionSet"
	case ObjectTypeAction:
		return "Action"
	default:
		return fmt.Sprintf("ObjectType(%d)", int32(t))
	}
}

// SessionState is the runtime-reported lifecycle state of a session.
type SessionState int32

const (
	SessionStateUnknown      SessionState = 0
	SessionStateIdle         SessionState = 1
	SessionStateReady        SessionState = 2
	SessionStateSynchronized SessionState = 3
	SessionStateVisible      SessionState = 4
	SessionStateFocused      SessionState = 5
	SessionStateStopping     SessionState = 6
	SessionStateLossPending  SessionState = 7
	SessionStateExiting      SessionState = 8
)

func (s SessionState) String() string {
	switch s {
	case SessionStateUnknown:
		return "unknown"
	case SessionStateIdle:
		return "idle"
	case SessionStateReady:
		return "ready"
	case SessionStateSynchronized:
		return "synchronized"
	case SessionStateVisible:
		return "visible"
	case SessionStateFocused:
		return "focused"
	case SessionStateStopping:
		return "stopping"
	case SessionStateLossPending:
		return "loss_pending"
	case SessionStateExiting:
		return "exiting"
	default:
		return fmt.Sprintf("SessionState(%d)", int32(s))
	}
}

// Valid reports whether the value is one of the defined session states.
func (s SessionState) Valid() bool {
	return s >= SessionStateIdle && s <= SessionStateExiting
}

// ReferenceSpaceType enumerates the reference spaces a session can offer.
type ReferenceSpaceType int32

const (
	ReferenceSpaceTypeView  ReferenceSpaceType = 1
	ReferenceSpaceTypeLocal ReferenceSpaceType = 2
	ReferenceSpaceTypeStage ReferenceSpaceType = 3
)

func (r ReferenceSpaceType) String() string {
	switch r {
	case ReferenceSpaceTypeView:
		return "view"
	case ReferenceSpaceTypeLocal:
		return "local"
	case ReferenceSpaceTypeStage:
		return "stage"
	default:
		return fmt.Sprintf("ReferenceSpaceType(%d)", int32(r))
	}
}

// ActionType enumerates the input value categories an action can report.
type ActionType int32

const (
	ActionTypeBooleanInput  ActionType = 1
	ActionTypeFloatInput    ActionType = 2
	ActionTypeVector2fInput ActionType = 3
	ActionTypePoseInput     ActionType = 4
	ActionTypeVibrationOut  ActionType = 100
)

// Quaternionf is a rotation; valid orientations are unit quaternions.
type Quaternionf struct {
	X, Y, Z, W float32
}

// Vector3f is a position offset in meters.
type Vector3f struct {
	X, Y, Z float32
}

// Posef combines an orientation and a position.
type Posef struct {
	Orientation Quaternionf
	Position    Vector3f
}

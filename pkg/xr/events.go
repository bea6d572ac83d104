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

// Event is one entry polled from the instance event queue. Concrete event
// payloads implement this interface; the layer switches on the dynamic
// type when validating deliveries.
type Event interface {
	EventName() string
}

// EventSessionStateChanged reports a session lifecycle transition.
type EventSessionStateChanged struct {
	Session Session
	State   SessionState
	Time    Time
}

func (EventSessionStateChanged) EventName() string { return "EventSessionStateChanged" }

// EventInteractionProfileChanged reports that the interaction sources
// bound to a session's actions changed. Delivery is only legal once the
// application has synchronized actions since the queue last ran empty.
type EventInteractionProfileChanged struct {
	Session Session
}

func (EventInteractionProfileChanged) EventName() string { return "EventInteractionProfileChanged" }

// EventReferenceSpaceChangePending reports an upcoming recenter of a
// reference space.
type EventReferenceSpaceChangePending struct {
	Session             Session
	ReferenceSpaceType  ReferenceSpaceType
	ChangeTime          Time
	PoseValid           bool
	PoseInPreviousSpace Posef
}

func (EventReferenceSpaceChangePending) EventName() string {
	return "EventReferenceSpaceChangePending"
}

// EventEventsLost reports that the queue overflowed and dropped events.
type EventEventsLost struct {
	LostEventCount uint32
}

func (EventEventsLost) EventName() string { return "EventEventsLost" }

// EventInstanceLossPending reports that the instance is about to become
// unusable.
type EventInstanceLossPending struct {
	LossTime Time
}

func (EventInstanceLossPending) EventName() string { return "EventInstanceLossPending" }

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

// Package session validates the session lifecycle: the state machine
// the runtime reports through state-changed events, the begin/end/exit
// call ordering, the frame loop and the enumeration calls scoped to a
// session.
package session

import (
	"sync"
	"sync/atomic"

	"github.com/looplab/fsm"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// SyncStatus is the tri-state action synchronization marker used to
// decide whether an interaction-profile-changed event was legal. It is
// read and written without the session lock; event processing must not
// block on an in-flight synchronization call.
type SyncStatus int32

const (
	// SyncNotCalledSinceQueueExhaust means no synchronization call has
	// completed since the event queue last drained.
	SyncNotCalledSinceQueueExhaust SyncStatus = iota
	// SyncCalledSinceQueueExhaust means at least one synchronization
	// call completed since the queue last drained.
	SyncCalledSinceQueueExhaust
	// SyncOngoing means a synchronization call is in flight right now.
	SyncOngoing
)

func (s SyncStatus) String() string {
	switch s {
	case SyncNotCalledSinceQueueExhaust:
		return "not_called_since_queue_exhaust"
	case SyncCalledSinceQueueExhaust:
		return "called_since_queue_exhaust"
	case SyncOngoing:
		return "ongoing"
	default:
		return "invalid"
	}
}

// State is the per-session payload attached to the session's
// handle-state node. One mutex guards everything except syncStatus,
// which is atomic so the event path never contends with a
// synchronization call.
type State struct {
	mu sync.Mutex

	machine  *fsm.FSM
	systemID xr.SystemID

	// headless is set when the create-info chain carried no graphics
	// binding and the headless extension made that legal.
	headless bool
	// creationChainTypes records the structure types seen in the
	// create-info chain, graphics binding included.
	creationChainTypes []xr.StructureType
	graphicsBinding    xr.StructureType

	begun         bool
	exitRequested bool
	frameBegun    bool
	frameCount    uint32

	lastPredictedDisplayTime   xr.Time
	lastPredictedDisplayPeriod xr.Duration

	// Cached first-call results of the enumeration calls; later calls
	// must return the same elements.
	referenceSpaces     []xr.ReferenceSpaceType
	hasReferenceSpaces  bool
	swapchainFormats    []int64
	hasSwapchainFormats bool

	syncStatus atomic.Int32
}

func newState(systemID xr.SystemID) *State {
	return &State{
		machine:  newLifecycleFSM(),
		systemID: systemID,
	}
}

// ObjectType marks the payload as session state.
func (s *State) ObjectType() xr.ObjectType {
	return xr.ObjectTypeSession
}

// Current returns the last lifecycle state the runtime reported.
func (s *State) Current() xr.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentLocked()
}

func (s *State) currentLocked() xr.SessionState {
	return stateByName[s.machine.Current()]
}

// Headless reports whether the session was created without a graphics
// binding under the headless extension.
func (s *State) Headless() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.headless
}

// SystemID returns the system the session was created against.
func (s *State) SystemID() xr.SystemID {
	return s.systemID
}

// SyncStatus returns the current tri-state marker.
func (s *State) SyncStatus() SyncStatus {
	return SyncStatus(s.syncStatus.Load())
}

// BeginSync marks a synchronization call as in flight.
func (s *State) BeginSync() {
	s.syncStatus.Store(int32(SyncOngoing))
}

// EndSync marks the synchronization call as completed. Unconditional:
// a queue drain observed mid-call loses to the call's completion.
func (s *State) EndSync() {
	s.syncStatus.Store(int32(SyncCalledSinceQueueExhaust))
}

// ObserveQueueDrained resets the marker when the event queue reports
// empty. Best effort: if a synchronization call is in flight the reset
// is skipped rather than delayed.
func (s *State) ObserveQueueDrained() {
	s.syncStatus.CompareAndSwap(
		int32(SyncCalledSinceQueueExhaust),
		int32(SyncNotCalledSinceQueueExhaust),
	)
}

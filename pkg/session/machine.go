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

package session

import (
	"github.com/looplab/fsm"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// The machine mirrors the runtime-reported lifecycle; it never drives
// it. An observed transition outside the table is flagged and then
// mirrored anyway, so later transitions are judged against what the
// runtime actually reported.

func stateName(s xr.SessionState) string {
	return s.String()
}

func observeEvent(s xr.SessionState) string {
	return "observe_" + s.String()
}

var allStates = []string{
	stateName(xr.SessionStateUnknown),
	stateName(xr.SessionStateIdle),
	stateName(xr.SessionStateReady),
	stateName(xr.SessionStateSynchronized),
	stateName(xr.SessionStateVisible),
	stateName(xr.SessionStateFocused),
	stateName(xr.SessionStateStopping),
	stateName(xr.SessionStateLossPending),
	stateName(xr.SessionStateExiting),
}

var stateByName = map[string]xr.SessionState{
	stateName(xr.SessionStateUnknown):      xr.SessionStateUnknown,
	stateName(xr.SessionStateIdle):         xr.SessionStateIdle,
	stateName(xr.SessionStateReady):        xr.SessionStateReady,
	stateName(xr.SessionStateSynchronized): xr.SessionStateSynchronized,
	stateName(xr.SessionStateVisible):      xr.SessionStateVisible,
	stateName(xr.SessionStateFocused):      xr.SessionStateFocused,
	stateName(xr.SessionStateStopping):     xr.SessionStateStopping,
	stateName(xr.SessionStateLossPending):  xr.SessionStateLossPending,
	stateName(xr.SessionStateExiting):      xr.SessionStateExiting,
}

// newLifecycleFSM encodes the fixed transition table. Loss-pending is
// reachable unconditionally from every state; everything else is an
// explicit edge.
func newLifecycleFSM() *fsm.FSM {
	events := fsm.Events{
		{
			Name: observeEvent(xr.SessionStateIdle),
			Src: []string{
				stateName(xr.SessionStateUnknown),
				stateName(xr.SessionStateReady),
				stateName(xr.SessionStateSynchronized),
				stateName(xr.SessionStateStopping),
			},
			Dst: stateName(xr.SessionStateIdle),
		},
		{
			Name: observeEvent(xr.SessionStateReady),
			Src:  []string{stateName(xr.SessionStateIdle)},
			Dst:  stateName(xr.SessionStateReady),
		},
		{
			Name: observeEvent(xr.SessionStateSynchronized),
			Src: []string{
				stateName(xr.SessionStateReady),
				stateName(xr.SessionStateVisible),
			},
			Dst: stateName(xr.SessionStateSynchronized),
		},
		{
			Name: observeEvent(xr.SessionStateVisible),
			Src: []string{
				stateName(xr.SessionStateSynchronized),
				stateName(xr.SessionStateFocused),
			},
			Dst: stateName(xr.SessionStateVisible),
		},
		{
			Name: observeEvent(xr.SessionStateFocused),
			Src:  []string{stateName(xr.SessionStateVisible)},
			Dst:  stateName(xr.SessionStateFocused),
		},
		{
			Name: observeEvent(xr.SessionStateStopping),
			Src:  []string{stateName(xr.SessionStateSynchronized)},
			Dst:  stateName(xr.SessionStateStopping),
		},
		{
			Name: observeEvent(xr.SessionStateExiting),
			Src:  []string{stateName(xr.SessionStateIdle)},
			Dst:  stateName(xr.SessionStateExiting),
		},
		{
			Name: observeEvent(xr.SessionStateLossPending),
			Src:  allStates,
			Dst:  stateName(xr.SessionStateLossPending),
		},
	}

	return fsm.NewFSM(stateName(xr.SessionStateUnknown), events, fsm.Callbacks{})
}

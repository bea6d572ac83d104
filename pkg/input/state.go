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

// Package input validates action synchronization: which action sets
// were last reconciled with what result, and whether
// interaction-profile-changed events were legal to deliver.
package input

import (
	"sync"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// ActionSetState is the per-action-set payload attached to the action
// set's handle-state node.
type ActionSetState struct {
	mu sync.Mutex

	name     string
	priority uint32

	// lastSyncResult is the result of the most recent synchronization
	// call that listed this set as active.
	lastSyncResult xr.Result
	hasSynced      bool
}

// ObjectType marks the payload as action-set state.
func (s *ActionSetState) ObjectType() xr.ObjectType {
	return xr.ObjectTypeActionSet
}

// Name returns the application-chosen action set name.
func (s *ActionSetState) Name() string {
	return s.name
}

// RecordSyncResult stores the result of a synchronization call that
// covered this set.
func (s *ActionSetState) RecordSyncResult(result xr.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSyncResult = result
	s.hasSynced = true
}

// LastSyncResult returns the most recent sync result for this set; ok
// is false when the set was never covered by a synchronization call.
func (s *ActionSetState) LastSyncResult() (xr.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSyncResult, s.hasSynced
}

// ActionState is the per-action payload attached to the action's
// handle-state node.
type ActionState struct {
	name       string
	actionType xr.ActionType
}

// ObjectType marks the payload as action state.
func (s *ActionState) ObjectType() xr.ObjectType {
	return xr.ObjectTypeAction
}

// Name returns the application-chosen action name.
func (s *ActionState) Name() string {
	return s.name
}

// Type returns the action's declared value type.
func (s *ActionState) Type() xr.ActionType {
	return s.actionType
}

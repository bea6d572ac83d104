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

package input

import (
	"go.uber.org/zap"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/logger"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/session"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// Tracker judges action-set creation, synchronization coverage and the
// legality of interaction-profile-changed deliveries.
type Tracker struct {
	reporter *conformance.Reporter
	log      *zap.SugaredLogger
}

// NewTracker builds an input tracker reporting into reporter.
func NewTracker(reporter *conformance.Reporter) *Tracker {
	return &Tracker{
		reporter: reporter,
		log:      logger.For(logger.ComponentInput),
	}
}

// OnCreateActionSet builds the per-action-set state after a successful
// creation call.
func (t *Tracker) OnCreateActionSet(createInfo *xr.ActionSetCreateInfo, function string) *ActionSetState {
	t.reporter.NonconformantIf(createInfo.Name == "", function,
		"Action set creation succeeded with an empty name")

	return &ActionSetState{name: createInfo.Name, priority: createInfo.Priority}
}

// OnCreateAction builds the per-action state after a successful
// creation call.
func (t *Tracker) OnCreateAction(createInfo *xr.ActionCreateInfo, function string) *ActionState {
	t.reporter.NonconformantIf(createInfo.Name == "", function,
		"Action creation succeeded with an empty name")

	return &ActionState{name: createInfo.Name, actionType: createInfo.Type}
}

// OnSyncActions records the sync result on every covered action set
// and flags duplicate coverage within one call. The caller brackets the
// forwarded call with the session's BeginSync and EndSync.
func (t *Tracker) OnSyncActions(syncInfo *xr.ActionsSyncInfo, sets []*ActionSetState, result xr.Result, function string) {
	seen := make(map[xr.ActionSet]struct{}, len(syncInfo.ActiveActionSets))
	for _, active := range syncInfo.ActiveActionSets {
		if _, dup := seen[active.ActionSet]; dup {
			t.reporter.PossiblyNonconformant(function,
				"Action set 0x%x is listed as active more than once in a single sync call",
				uint64(active.ActionSet))
		}

		seen[active.ActionSet] = struct{}{}
	}

	if result != xr.Success && result != xr.SessionNotFocused {
		return
	}

	for _, set := range sets {
		set.RecordSyncResult(result)
	}
}

// OnInteractionProfileChanged checks that the delivery was preceded by
// a synchronization call since the event queue last drained.
func (t *Tracker) OnInteractionProfileChanged(sess *session.State, function string) {
	status := sess.SyncStatus()
	t.reporter.NonconformantIf(status == session.SyncNotCalledSinceQueueExhaust, function,
		"Interaction profile change delivered but actions were never synchronized since the event queue last drained")
}

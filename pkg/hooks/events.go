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
	"github.com/openxr-conformance/runtime-validation-layer/pkg/session"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/validation"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// PollEvent forwards an event poll and validates whatever was
// delivered. An empty queue resets the action-sync marker of every
// session under the instance.
func (h *ConformanceHooks) PollEvent(instance xr.Instance) (xr.Event, xr.Result) {
	const function = "PollEvent"
	metrics.IncInterceptedCall(function)

	key := registry.Key{Value: xr.Handle(instance), Type: xr.ObjectTypeInstance}
	if _, err := h.reg.Lookup(key); err != nil {
		return nil, h.invalidHandle(function, err)
	}

	event, result := h.next.PollEvent(instance)

	if result == xr.EventUnavailable {
		h.onQueueDrained(key, function)

		return event, result
	}

	if !result.Succeeded() || event == nil {
		return event, result
	}

	switch ev := event.(type) {
	case xr.EventSessionStateChanged:
		if st, ok := h.eventSession(ev.Session, event, function); ok {
			h.sessions.OnStateChanged(st, ev)
		}
	case xr.EventInteractionProfileChanged:
		if st, ok := h.eventSession(ev.Session, event, function); ok {
			h.input.OnInteractionProfileChanged(st, function)
		}
	case xr.EventReferenceSpaceChangePending:
		if _, ok := h.eventSession(ev.Session, event, function); ok {
			validation.ValidateTime(h.reporter, ev.ChangeTime, "change time", function)

			if ev.PoseValid {
				validation.ValidateQuaternion(h.reporter, ev.PoseInPreviousSpace.Orientation,
					"pose in previous space orientation", function)
				validation.ValidateVector3(h.reporter, ev.PoseInPreviousSpace.Position,
					"pose in previous space position", function)
			}
		}
	case xr.EventEventsLost:
		h.reporter.NonconformantIf(ev.LostEventCount == 0, function,
			"%s delivered with a lost event count of zero", event.EventName())
	case xr.EventInstanceLossPending:
		validation.ValidateTime(h.reporter, ev.LossTime, "loss time", function)
	default:
		h.reporter.PossiblyNonconformant(function,
			"Unrecognized event %s delivered", event.EventName())
	}

	return event, result
}

// eventSession resolves the session an event refers to. An event
// carrying a handle the layer never saw is the runtime's fault, not the
// application's.
func (h *ConformanceHooks) eventSession(sess xr.Session, event xr.Event, function string) (*session.State, bool) {
	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		h.reporter.Nonconformant(function,
			"%s delivered for a session the layer is not tracking: %s", event.EventName(), err)

		return nil, false
	}

	return h.sessionStateOf(node, function), true
}

// onQueueDrained resets the tri-state sync marker on every session of
// the instance. A sync call in flight wins over the reset.
func (h *ConformanceHooks) onQueueDrained(instanceKey registry.Key, function string) {
	sessions, err := h.reg.Children(instanceKey, xr.ObjectTypeSession)
	if err != nil {
		h.log.Warnf("%s: %s", function, err)

		return
	}

	for _, node := range sessions {
		if st, ok := node.Custom().(*session.State); ok {
			st.ObserveQueueDrained()
		}
	}
}

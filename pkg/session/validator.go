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
	"context"

	"go.uber.org/zap"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/logger"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/validation"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// Validator judges session-scoped calls and events. It never blocks or
// rewrites a call; it only observes arguments, results and deliveries
// and raises findings.
type Validator struct {
	reporter *conformance.Reporter
	log      *zap.SugaredLogger

	// headlessEnabled mirrors whether the headless extension was enabled
	// at instance creation. Without it a session create-info chain must
	// carry a graphics binding.
	headlessEnabled bool
}

// NewValidator builds a session validator reporting into reporter.
func NewValidator(reporter *conformance.Reporter, headlessEnabled bool) *Validator {
	return &Validator{
		reporter:        reporter,
		log:             logger.For(logger.ComponentSession),
		headlessEnabled: headlessEnabled,
	}
}

// OnCreate builds the per-session state after a successful creation
// call, classifying the create-info chain as graphics-bound or
// headless.
func (v *Validator) OnCreate(createInfo *xr.SessionCreateInfo, function string) *State {
	st := newState(createInfo.SystemID)
	st.creationChainTypes = xr.ChainTypes(createInfo.Next)

	for _, t := range st.creationChainTypes {
		if validation.Contains(xr.GraphicsBindingTypes, t) {
			st.graphicsBinding = t

			return st
		}
	}

	if v.headlessEnabled {
		st.headless = true
	} else {
		v.reporter.Nonconformant(function,
			"Session creation succeeded without a graphics binding structure in the create info chain")
	}

	return st
}

// OnStateChanged mirrors a reported lifecycle transition into the
// machine, flagging transitions outside the table and the correlated
// begin-flag violations. An illegal new state is still recorded so
// later transitions are judged against what was actually reported.
func (v *Validator) OnStateChanged(st *State, ev xr.EventSessionStateChanged) {
	const function = "PollEvent"

	validation.ValidateSessionStateEnum(v.reporter, ev.State, "session state", function)
	validation.ValidateTime(v.reporter, ev.Time, "state change time", function)

	st.mu.Lock()
	defer st.mu.Unlock()

	oldState := st.currentLocked()
	if err := st.machine.Event(context.Background(), observeEvent(ev.State)); err != nil {
		v.reporter.Nonconformant(function,
			"Invalid session state transition from %s to %s", oldState, ev.State)
		st.machine.SetState(stateName(ev.State))
	}

	switch ev.State {
	case xr.SessionStateSynchronized:
		v.reporter.NonconformantIf(!st.begun, function,
			"Session transitioned to %s but the session has not been begun", ev.State)
		v.reporter.PossiblyNonconformantIf(
			st.frameCount == 0 && !st.exitRequested && !st.headless, function,
			"Session transitioned to %s before any frame was submitted", ev.State)
	case xr.SessionStateIdle:
		v.reporter.NonconformantIf(st.begun, function,
			"Session transitioned to %s while still begun", ev.State)
	}
}

// OnBegin cross-checks a begin call's result against the begun flag.
func (v *Validator) OnBegin(st *State, result xr.Result, function string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	switch {
	case result.Succeeded():
		v.reporter.NonconformantIf(st.begun, function,
			"Session begin succeeded but the session is already begun")

		st.begun = true
		st.frameBegun = false
		st.frameCount = 0
	case result == xr.ErrorSessionRunning:
		v.reporter.NonconformantIf(!st.begun, function,
			"%s returned but the session has not been begun", result)
	}
}

// OnEnd cross-checks an end call's result against the begun flag and
// the reported lifecycle state.
func (v *Validator) OnEnd(st *State, result xr.Result, function string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	switch {
	case result.Succeeded():
		v.reporter.NonconformantIf(!st.begun, function,
			"Session end succeeded but the session has not been begun")
		v.reporter.PossiblyNonconformantIf(st.currentLocked() != xr.SessionStateStopping, function,
			"Session end succeeded in state %s, expected %s",
			st.currentLocked(), xr.SessionStateStopping)

		st.begun = false
		st.exitRequested = false
		st.frameBegun = false
	case result == xr.ErrorSessionNotRunning:
		v.reporter.NonconformantIf(st.begun, function,
			"%s returned but the session is begun", result)
	case result == xr.ErrorSessionNotStopping:
		v.reporter.NonconformantIf(st.currentLocked() == xr.SessionStateStopping, function,
			"%s returned but the session is in state %s", result, xr.SessionStateStopping)
	}
}

// OnRequestExit cross-checks an exit request's result and records the
// pending exit.
func (v *Validator) OnRequestExit(st *State, result xr.Result, function string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	switch {
	case result.Succeeded():
		v.reporter.NonconformantIf(!st.begun, function,
			"Exit request succeeded but the session has not been begun")

		st.exitRequested = true
	case result == xr.ErrorSessionNotRunning:
		v.reporter.NonconformantIf(st.begun, function,
			"%s returned but the session is begun", result)
	}
}

// OnWaitFrame checks that successive predicted display times strictly
// increase and records the latest prediction.
func (v *Validator) OnWaitFrame(st *State, frameState *xr.FrameState, result xr.Result, function string) {
	if !result.Succeeded() {
		return
	}

	validation.ValidateTime(v.reporter, frameState.PredictedDisplayTime, "predicted display time", function)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.lastPredictedDisplayTime != 0 && frameState.PredictedDisplayTime <= st.lastPredictedDisplayTime {
		v.reporter.Nonconformant(function,
			"Predicted display time %d is not greater than the previously predicted %d",
			int64(frameState.PredictedDisplayTime), int64(st.lastPredictedDisplayTime))
	}

	st.lastPredictedDisplayTime = frameState.PredictedDisplayTime
	st.lastPredictedDisplayPeriod = frameState.PredictedDisplayPeriod
}

// OnBeginFrame cross-checks a begin-frame result against the frame
// bracket flag.
func (v *Validator) OnBeginFrame(st *State, result xr.Result, function string) {
	if !result.Succeeded() {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	v.reporter.NonconformantIf(!st.begun, function,
		"Frame begin succeeded but the session has not been begun")
	v.reporter.NonconformantIf(st.frameBegun && result == xr.Success, function,
		"Frame begin returned %s but the previous frame was never ended; %s expected",
		xr.Success, xr.FrameDiscarded)
	v.reporter.PossiblyNonconformantIf(!st.frameBegun && result == xr.FrameDiscarded, function,
		"Frame begin returned %s but no frame was begun", xr.FrameDiscarded)

	st.frameBegun = true
}

// EndFrame brackets the forwarded end-frame call under the session
// lock so the frame flag cannot be raced by a concurrent frame call,
// then cross-checks the result.
func (v *Validator) EndFrame(st *State, function string, forward func() xr.Result) xr.Result {
	st.mu.Lock()
	defer st.mu.Unlock()

	result := forward()

	switch {
	case result.Succeeded():
		v.reporter.NonconformantIf(!st.frameBegun, function,
			"Frame end succeeded but no frame was begun; %s expected", xr.ErrorCallOrderInvalid)

		st.frameBegun = false
		st.frameCount++
	case result == xr.ErrorCallOrderInvalid:
		v.reporter.NonconformantIf(st.frameBegun, function,
			"%s returned but a frame was begun", result)
	}

	return result
}

// OnEnumerateReferenceSpaces checks the enumerated set for duplicates,
// for the mandatory view and local spaces, and for idempotency across
// calls.
func (v *Validator) OnEnumerateReferenceSpaces(st *State, spaces []xr.ReferenceSpaceType, result xr.Result, function string) {
	if !result.Succeeded() {
		return
	}

	v.reporter.NonconformantIf(validation.ContainsDuplicates(spaces), function,
		"Enumerated reference space types contain duplicates")
	v.reporter.NonconformantIf(!validation.Contains(spaces, xr.ReferenceSpaceTypeView), function,
		"Enumerated reference space types do not include %s", xr.ReferenceSpaceTypeView)
	v.reporter.NonconformantIf(!validation.Contains(spaces, xr.ReferenceSpaceTypeLocal), function,
		"Enumerated reference space types do not include %s", xr.ReferenceSpaceTypeLocal)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.hasReferenceSpaces {
		v.reporter.NonconformantIf(!validation.SameElements(st.referenceSpaces, spaces), function,
			"Enumerated reference space types changed between calls")

		return
	}

	st.referenceSpaces = append([]xr.ReferenceSpaceType(nil), spaces...)
	st.hasReferenceSpaces = true
}

// OnEnumerateSwapchainFormats checks the enumerated formats for
// duplicates, for headless emptiness, and for idempotency across calls.
func (v *Validator) OnEnumerateSwapchainFormats(st *State, formats []int64, result xr.Result, function string) {
	if !result.Succeeded() {
		return
	}

	v.reporter.NonconformantIf(validation.ContainsDuplicates(formats), function,
		"Enumerated swapchain formats contain duplicates")

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.headless {
		v.reporter.NonconformantIf(len(formats) != 0, function,
			"Headless session enumerated %d swapchain formats, expected none", len(formats))
	} else {
		v.reporter.NonconformantIf(len(formats) == 0, function,
			"Session enumerated no swapchain formats")
	}

	if st.hasSwapchainFormats {
		v.reporter.NonconformantIf(!validation.SameElements(st.swapchainFormats, formats), function,
			"Enumerated swapchain formats changed between calls")

		return
	}

	st.swapchainFormats = append([]int64(nil), formats...)
	st.hasSwapchainFormats = true
}

// OnLocateViews checks view-state flag pairing and per-view pose
// validity.
func (v *Validator) OnLocateViews(st *State, locateInfo *xr.ViewLocateInfo, viewState *xr.ViewState, views []xr.View, result xr.Result, function string) {
	if !result.Succeeded() {
		return
	}

	st.mu.Lock()
	begun := st.begun
	st.mu.Unlock()

	v.reporter.NonconformantIf(!begun, function,
		"View location succeeded but the session has not been begun")

	validation.ValidateTime(v.reporter, locateInfo.DisplayTime, "display time", function)

	flags := viewState.Flags
	v.reporter.NonconformantIf(
		flags&xr.ViewStateOrientationTrackedBit != 0 && flags&xr.ViewStateOrientationValidBit == 0,
		function, "View state reports orientation tracked but not orientation valid")
	v.reporter.NonconformantIf(
		flags&xr.ViewStatePositionTrackedBit != 0 && flags&xr.ViewStatePositionValidBit == 0,
		function, "View state reports position tracked but not position valid")

	for _, view := range views {
		if flags&xr.ViewStateOrientationValidBit != 0 {
			validation.ValidateQuaternion(v.reporter, view.Pose.Orientation,
				"view orientation", function)
		}

		if flags&xr.ViewStatePositionValidBit != 0 {
			validation.ValidateVector3(v.reporter, view.Pose.Position,
				"view position", function)
		}
	}
}

// OnSyncActions cross-checks the sync result against the reported
// focus state. Both sides are sampled at different times, so a
// mismatch is only possibly nonconformant.
func (v *Validator) OnSyncActions(st *State, result xr.Result, function string) {
	current := st.Current()

	switch result {
	case xr.Success:
		v.reporter.PossiblyNonconformantIf(current != xr.SessionStateFocused, function,
			"Action sync returned %s while the session last reported %s", result, current)
	case xr.SessionNotFocused:
		v.reporter.PossiblyNonconformantIf(current == xr.SessionStateFocused, function,
			"Action sync returned %s while the session last reported %s", result, current)
	}
}

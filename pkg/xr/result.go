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

// Result is the status code every runtime call returns. Zero and positive
// values are successes, negative values are errors.
type Result int32

const (
	Success            Result = 0
	TimeoutExpired     Result = 1
	SessionLossPending Result = 3
	EventUnavailable   Result = 4
	SessionNotFocused  Result = 8
	FrameDiscarded     Result = 9

	ErrorValidationFailure  Result = -1
	ErrorRuntimeFailure     Result = -2
	ErrorHandleInvalid      Result = -12
	ErrorSessionRunning     Result = -14
	ErrorSessionNotRunning  Result = -16
	ErrorSessionNotStopping Result = -17
	ErrorSessionLost        Result = -18
	ErrorCallOrderInvalid   Result = -37
)

// Succeeded reports whether the result is a success code (including
// qualified successes such as FrameDiscarded or SessionLossPending).
func (r Result) Succeeded() bool {
	return r >= 0
}

func (r Result) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case TimeoutExpired:
		return "TIMEOUT_EXPIRED"
	case SessionLossPending:
		return "SESSION_LOSS_PENDING"
	case EventUnavailable:
		return "EVENT_UNAVAILABLE"
	case SessionNotFocused:
		return "SESSION_NOT_FOCUSED"
	case FrameDiscarded:
		return "FRAME_DISCARDED"
	case ErrorValidationFailure:
		return "ERROR_VALIDATION_FAILURE"
	case ErrorRuntimeFailure:
		return "ERROR_RUNTIME_FAILURE"
	case ErrorHandleInvalid:
		return "ERROR_HANDLE_INVALID"
	case ErrorSessionRunning:
		return "ERROR_SESSION_RUNNING"
	case ErrorSessionNotRunning:
		return "ERROR_SESSION_NOT_RUNNING"
	case ErrorSessionNotStopping:
		return "ERROR_SESSION_NOT_STOPPING"
	case ErrorSessionLost:
		return "ERROR_SESSION_LOST"
	case ErrorCallOrderInvalid:
		return "ERROR_CALL_ORDER_INVALID"
	default:
		return fmt.Sprintf("Result(%d)", int32(r))
	}
}

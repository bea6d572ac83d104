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

package validation

import (
	"math"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

const unitQuaternionTolerance = 0.000001

// IsUnitQuaternion reports whether q has length 1 within tolerance and
// returns the computed length.
func IsUnitQuaternion(q xr.Quaternionf) (bool, float64) {
	length := math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W))

	return math.Abs(1-length) < unitQuaternionTolerance, length
}

// ValidateTime reports a finding when a runtime timestamp is negative.
func ValidateTime(r *conformance.Reporter, t xr.Time, valueName, function string) {
	if t < 0 {
		r.Nonconformant(function, "%s is not a valid timestamp: %d", valueName, int64(t))
	}
}

// ValidateQuaternion reports a finding when an orientation is not a unit
// quaternion.
func ValidateQuaternion(r *conformance.Reporter, q xr.Quaternionf, valueName, function string) {
	if ok, length := IsUnitQuaternion(q); !ok {
		r.Nonconformant(function,
			"%s is not a unit quaternion: (%f, %f, %f, %f) has length %f",
			valueName, q.X, q.Y, q.Z, q.W, length)
	}
}

// ValidateVector3 reports a finding when any component of a position is
// not finite.
func ValidateVector3(r *conformance.Reporter, v xr.Vector3f, valueName, function string) {
	finite := func(f float32) bool {
		return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
	}

	if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
		r.Nonconformant(function, "%s is not a valid vector: (%f, %f, %f)", valueName, v.X, v.Y, v.Z)
	}
}

// ValidateSessionStateEnum reports a finding when the runtime delivers a
// session state outside the defined enumeration.
func ValidateSessionStateEnum(r *conformance.Reporter, s xr.SessionState, valueName, function string) {
	if !s.Valid() {
		r.Nonconformant(function, "%s is not a valid session state value: %d", valueName, int32(s))
	}
}

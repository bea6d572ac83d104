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

package input_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/input"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/session"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

var _ = Describe("Input tracker", func() {
	var (
		recorder *conformance.Recorder
		tracker  *input.Tracker
	)

	BeforeEach(func() {
		recorder = conformance.NewRecorder()
		tracker = input.NewTracker(conformance.NewReporter(recorder))
	})

	Describe("creation", func() {
		It("carries the declared name and type", func() {
			set := tracker.OnCreateActionSet(&xr.ActionSetCreateInfo{Name: "gameplay", Priority: 1}, "CreateActionSet")
			Expect(set.Name()).To(Equal("gameplay"))

			action := tracker.OnCreateAction(&xr.ActionCreateInfo{Name: "fire", Type: xr.ActionTypeBooleanInput}, "CreateAction")
			Expect(action.Name()).To(Equal("fire"))
			Expect(action.Type()).To(Equal(xr.ActionTypeBooleanInput))
			Expect(recorder.Findings()).To(BeEmpty())
		})

		It("flags empty names", func() {
			tracker.OnCreateActionSet(&xr.ActionSetCreateInfo{}, "CreateActionSet")
			tracker.OnCreateAction(&xr.ActionCreateInfo{}, "CreateAction")

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(2))
		})
	})

	Describe("sync coverage", func() {
		var set *input.ActionSetState

		syncInfo := &xr.ActionsSyncInfo{
			ActiveActionSets: []xr.ActiveActionSet{{ActionSet: 5}},
		}

		BeforeEach(func() {
			set = tracker.OnCreateActionSet(&xr.ActionSetCreateInfo{Name: "gameplay"}, "CreateActionSet")
		})

		It("records the result on every covered set", func() {
			_, synced := set.LastSyncResult()
			Expect(synced).To(BeFalse())

			tracker.OnSyncActions(syncInfo, []*input.ActionSetState{set}, xr.SessionNotFocused, "SyncActions")

			result, synced := set.LastSyncResult()
			Expect(synced).To(BeTrue())
			Expect(result).To(Equal(xr.SessionNotFocused))
		})

		It("does not record coverage on a failed sync", func() {
			tracker.OnSyncActions(syncInfo, []*input.ActionSetState{set}, xr.ErrorSessionLost, "SyncActions")

			_, synced := set.LastSyncResult()
			Expect(synced).To(BeFalse())
		})

		It("warns on a duplicate active set in one call", func() {
			duplicated := &xr.ActionsSyncInfo{
				ActiveActionSets: []xr.ActiveActionSet{{ActionSet: 5}, {ActionSet: 5}},
			}
			tracker.OnSyncActions(duplicated, []*input.ActionSetState{set, set}, xr.Success, "SyncActions")

			Expect(recorder.Count(conformance.SeverityWarning)).To(Equal(1))
		})
	})

	Describe("interaction profile changes", func() {
		var sess *session.State

		BeforeEach(func() {
			validator := session.NewValidator(conformance.NewReporter(recorder), true)
			sess = validator.OnCreate(&xr.SessionCreateInfo{SystemID: 1}, "CreateSession")
		})

		It("flags a delivery before any sync since the queue drained", func() {
			tracker.OnInteractionProfileChanged(sess, "PollEvent")

			Expect(recorder.Count(conformance.SeverityError)).To(Equal(1))
			Expect(recorder.Findings()[0].Message).To(ContainSubstring("synchronized"))
		})

		It("accepts a delivery after a completed sync", func() {
			sess.BeginSync()
			sess.EndSync()
			tracker.OnInteractionProfileChanged(sess, "PollEvent")

			Expect(recorder.Findings()).To(BeEmpty())
		})

		It("accepts a delivery while a sync is in flight", func() {
			sess.BeginSync()
			tracker.OnInteractionProfileChanged(sess, "PollEvent")

			Expect(recorder.Findings()).To(BeEmpty())
		})
	})
})

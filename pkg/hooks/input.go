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
	"github.com/openxr-conformance/runtime-validation-layer/pkg/input"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/metrics"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/registry"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/validation"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// CreateActionSet forwards action-set creation and attaches the
// action-set payload to the new node.
func (h *ConformanceHooks) CreateActionSet(instance xr.Instance, createInfo *xr.ActionSetCreateInfo) (xr.ActionSet, xr.Result) {
	const function = "CreateActionSet"
	metrics.IncInterceptedCall(function)

	parent, err := h.lookup(xr.Handle(instance), xr.ObjectTypeInstance)
	if err != nil {
		return xr.ActionSet(xr.NullHandle), h.invalidHandle(function, err)
	}

	guard := validation.NewChainGuard(h.reporter, function, "createInfo", createInfo.Next)
	handle, result := h.next.CreateActionSet(instance, createInfo)
	guard.Check()

	if result.Succeeded() {
		node := parent.CloneForChild(xr.Handle(handle), xr.ObjectTypeActionSet)
		node.AttachCustom(h.input.OnCreateActionSet(createInfo, function))
		h.register(node, function)
	}

	return handle, result
}

// DestroyActionSet forwards action-set destruction and drops the node
// with its actions.
func (h *ConformanceHooks) DestroyActionSet(actionSet xr.ActionSet) xr.Result {
	key := registry.Key{Value: xr.Handle(actionSet), Type: xr.ObjectTypeActionSet}

	return h.destroy("DestroyActionSet", key, func() xr.Result {
		return h.next.DestroyActionSet(actionSet)
	})
}

// CreateAction forwards action creation and attaches the action payload
// to the new node.
func (h *ConformanceHooks) CreateAction(actionSet xr.ActionSet, createInfo *xr.ActionCreateInfo) (xr.Action, xr.Result) {
	const function = "CreateAction"
	metrics.IncInterceptedCall(function)

	parent, err := h.lookup(xr.Handle(actionSet), xr.ObjectTypeActionSet)
	if err != nil {
		return xr.Action(xr.NullHandle), h.invalidHandle(function, err)
	}

	guard := validation.NewChainGuard(h.reporter, function, "createInfo", createInfo.Next)
	handle, result := h.next.CreateAction(actionSet, createInfo)
	guard.Check()

	if result.Succeeded() {
		node := parent.CloneForChild(xr.Handle(handle), xr.ObjectTypeAction)
		node.AttachCustom(h.input.OnCreateAction(createInfo, function))
		h.register(node, function)
	}

	return handle, result
}

// DestroyAction forwards action destruction and drops the node.
func (h *ConformanceHooks) DestroyAction(action xr.Action) xr.Result {
	key := registry.Key{Value: xr.Handle(action), Type: xr.ObjectTypeAction}

	return h.destroy("DestroyAction", key, func() xr.Result {
		return h.next.DestroyAction(action)
	})
}

// SyncActions forwards a synchronization call bracketed by the
// session's tri-state marker, then records coverage on every active
// set and cross-checks the focus state.
func (h *ConformanceHooks) SyncActions(sess xr.Session, syncInfo *xr.ActionsSyncInfo) xr.Result {
	const function = "SyncActions"
	metrics.IncInterceptedCall(function)

	node, err := h.lookup(xr.Handle(sess), xr.ObjectTypeSession)
	if err != nil {
		return h.invalidHandle(function, err)
	}

	sets := make([]*input.ActionSetState, 0, len(syncInfo.ActiveActionSets))

	for _, active := range syncInfo.ActiveActionSets {
		setNode, err := h.lookup(xr.Handle(active.ActionSet), xr.ObjectTypeActionSet)
		if err != nil {
			return h.invalidHandle(function, err)
		}

		sets = append(sets, h.actionSetStateOf(setNode, function))
	}

	st := h.sessionStateOf(node, function)

	guard := validation.NewChainGuard(h.reporter, function, "syncInfo", syncInfo.Next)

	st.BeginSync()
	result := h.next.SyncActions(sess, syncInfo)
	st.EndSync()

	guard.Check()

	h.input.OnSyncActions(syncInfo, sets, result, function)
	h.sessions.OnSyncActions(st, result, function)

	return result
}

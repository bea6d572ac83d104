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

// Package hooks is the interception surface of the layer. It implements
// the runtime call interface by wrapping the next runtime in the
// dispatch chain: every call is forwarded unmodified, and the per-object
// validators observe arguments, results and deliveries around the
// forward. The layer never gatekeeps; the single exception is a call
// against a handle the registry does not know, which is rejected at the
// boundary without forwarding.
package hooks

import (
	"go.uber.org/zap"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/input"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/logger"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/metrics"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/registry"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/sentry"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/session"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/swapchain"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/validation"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

// HeadlessExtensionName is the instance extension that makes sessions
// without a graphics binding legal.
const HeadlessExtensionName = "XR_MND_headless"

// ConformanceHooks wraps the next runtime in the dispatch chain.
type ConformanceHooks struct {
	next     xr.Runtime
	reg      *registry.Registry
	reporter *conformance.Reporter
	log      *zap.SugaredLogger

	sessions   *session.Validator
	swapchains *swapchain.Validator
	input      *input.Tracker
}

// Option configures the hooks at construction.
type Option func(*ConformanceHooks)

// WithHeadlessExtension marks the headless extension as enabled
// regardless of what instance creation later reports. Intended for
// configurations where the layer is injected below the loader.
func WithHeadlessExtension() Option {
	return func(h *ConformanceHooks) {
		h.sessions = session.NewValidator(h.reporter, true)
	}
}

// New builds the hooks around the next runtime. All validators report
// into reporter and all handle tracking goes through reg.
func New(next xr.Runtime, reg *registry.Registry, reporter *conformance.Reporter, opts ...Option) *ConformanceHooks {
	h := &ConformanceHooks{
		next:     next,
		reg:      reg,
		reporter: reporter,
		log:      logger.For(logger.ComponentHooks),
	}

	h.sessions = session.NewValidator(reporter, false)
	h.swapchains = swapchain.NewValidator(reporter)
	h.input = input.NewTracker(reporter)

	for _, opt := range opts {
		opt(h)
	}

	return h
}

var _ xr.Runtime = (*ConformanceHooks)(nil)

// lookup resolves a handle to its registry node. A miss is the
// application's error, not the runtime's: the call is answered with an
// invalid-handle result and never forwarded.
func (h *ConformanceHooks) lookup(value xr.Handle, objectType xr.ObjectType) (*registry.State, error) {
	return h.reg.Lookup(registry.Key{Value: value, Type: objectType})
}

func (h *ConformanceHooks) invalidHandle(function string, err error) xr.Result {
	h.log.Warnf("%s: %s", function, err)

	return xr.ErrorHandleInvalid
}

// register inserts a freshly created node. A duplicate key means the
// layer's own bookkeeping is broken and is fatal.
func (h *ConformanceHooks) register(node *registry.State, function string) {
	if err := h.reg.Register(node); err != nil {
		sentry.ReportValidatorFatal(h.log, function, err)
	}
}

func (h *ConformanceHooks) unregister(key registry.Key, function string) {
	if err := h.reg.Unregister(key); err != nil {
		h.log.Warnf("%s: destroyed handle vanished before unregistration: %s", function, err)
	}
}

// sessionStateOf extracts the session payload. A node of the right
// object type without its payload is a layer bug.
func (h *ConformanceHooks) sessionStateOf(node *registry.State, function string) *session.State {
	st, ok := node.Custom().(*session.State)
	if !ok {
		sentry.ReportValidatorFatal(h.log, function,
			&payloadError{key: node.Key()})
	}

	return st
}

func (h *ConformanceHooks) swapchainStateOf(node *registry.State, function string) *swapchain.State {
	st, ok := node.Custom().(*swapchain.State)
	if !ok {
		sentry.ReportValidatorFatal(h.log, function,
			&payloadError{key: node.Key()})
	}

	return st
}

func (h *ConformanceHooks) actionSetStateOf(node *registry.State, function string) *input.ActionSetState {
	st, ok := node.Custom().(*input.ActionSetState)
	if !ok {
		sentry.ReportValidatorFatal(h.log, function,
			&payloadError{key: node.Key()})
	}

	return st
}

// destroy is the shared shape of every destruction call: reject unknown
// handles at the boundary, forward, and drop the subtree from the
// registry once the runtime confirmed the destruction.
func (h *ConformanceHooks) destroy(function string, key registry.Key, forward func() xr.Result) xr.Result {
	metrics.IncInterceptedCall(function)

	if _, err := h.reg.Lookup(key); err != nil {
		return h.invalidHandle(function, err)
	}

	result := forward()
	if result.Succeeded() {
		h.unregister(key, function)
	}

	return result
}

// CreateInstance forwards instance creation and roots the handle tree.
// Enabling the headless extension here switches the session validator
// into headless mode for the lifetime of the hooks.
func (h *ConformanceHooks) CreateInstance(createInfo *xr.InstanceCreateInfo) (xr.Instance, xr.Result) {
	const function = "CreateInstance"
	metrics.IncInterceptedCall(function)

	guard := validation.NewChainGuard(h.reporter, function, "createInfo", createInfo.Next)
	handle, result := h.next.CreateInstance(createInfo)
	guard.Check()

	if result.Succeeded() {
		if validation.Contains(createInfo.EnabledExtensions, HeadlessExtensionName) {
			h.sessions = session.NewValidator(h.reporter, true)
		}

		h.register(registry.NewState(xr.Handle(handle), xr.ObjectTypeInstance), function)
	}

	return handle, result
}

// DestroyInstance forwards instance destruction and drops the whole
// handle tree.
func (h *ConformanceHooks) DestroyInstance(instance xr.Instance) xr.Result {
	key := registry.Key{Value: xr.Handle(instance), Type: xr.ObjectTypeInstance}

	return h.destroy("DestroyInstance", key, func() xr.Result {
		return h.next.DestroyInstance(instance)
	})
}

type payloadError struct {
	key registry.Key
}

func (e *payloadError) Error() string {
	return "missing or mistyped custom state on " + e.key.String()
}

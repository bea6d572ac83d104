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

// xr-conformance-layer runs the validation layer against a scripted
// mock runtime and prints a findings summary. The real deployment links
// the hooks between an application and a live runtime; this binary
// exists to smoke-test a configuration and to demo the layer end to
// end.
package main

import (
	"flag"
	"os"

	"github.com/openxr-conformance/runtime-validation-layer/pkg/conformance"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/config"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/hooks"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/logger"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/metrics"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/registry"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/sentry"
	"github.com/openxr-conformance/runtime-validation-layer/pkg/xr"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "xr-conformance-layer.yaml", "path to the layer config file")
	flag.Parse()

	logger.Initialize()
	log := logger.For(logger.ComponentCore)

	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	sentry.InitSentry(cfg.SentryDSN, version, true)

	if cfg.MetricsAddress != "" {
		metrics.SetupMetricsEndpoint(cfg.MetricsAddress, log)
		log.Infof("Metrics endpoint listening on %s", cfg.MetricsAddress)
	}

	recorder := conformance.NewRecorder()
	sinks := conformance.MultiSink{
		conformance.NewLogSink(logger.For(logger.ComponentConformance)),
		recorder,
	}

	if cfg.FindingsPath != "" {
		f, err := os.OpenFile(cfg.FindingsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open findings file: %s", err)
		}

		defer func() {
			_ = f.Close()
		}()

		sinks = append(sinks, conformance.NewFileSink(f))
	}

	reporter := conformance.NewReporter(sinks)

	var opts []hooks.Option
	if cfg.HeadlessExtension {
		opts = append(opts, hooks.WithHeadlessExtension())
	}

	reg := registry.New()
	mock := hooks.NewMockRuntime()
	layer := hooks.New(mock, reg, reporter, opts...)

	runScriptedSession(layer, mock, log)

	errors := recorder.Count(conformance.SeverityError)
	warnings := recorder.Count(conformance.SeverityWarning)
	log.Infof("Run complete: %d errors, %d warnings, %d live handles", errors, warnings, reg.Len())

	if errors > 0 {
		os.Exit(1)
	}
}

// runScriptedSession drives one conformant session lifecycle through
// the layer: create, begin, a few frames with a swapchain, exit, end,
// destroy. The mock is scripted to report the lifecycle transitions a
// conformant runtime would.
func runScriptedSession(rt xr.Runtime, mock *hooks.MockRuntime, log interface{ Fatalf(string, ...any) }) {
	instance, result := rt.CreateInstance(&xr.InstanceCreateInfo{ApplicationName: "smoke"})
	if !result.Succeeded() {
		log.Fatalf("CreateInstance failed: %s", result)
	}

	sess, result := rt.CreateSession(instance, &xr.SessionCreateInfo{
		Next:     &xr.BaseStructure{Type: xr.TypeGraphicsBindingVulkan},
		SystemID: 1,
	})
	if !result.Succeeded() {
		log.Fatalf("CreateSession failed: %s", result)
	}

	drain := func(states ...xr.SessionState) {
		for _, s := range states {
			mock.PushEvent(xr.EventSessionStateChanged{Session: sess, State: s, Time: 1})
		}

		for {
			if _, r := rt.PollEvent(instance); r == xr.EventUnavailable {
				return
			}
		}
	}

	drain(xr.SessionStateIdle, xr.SessionStateReady)

	_, _ = rt.EnumerateReferenceSpaces(sess)
	_, _ = rt.EnumerateSwapchainFormats(sess)
	_ = rt.BeginSession(sess, &xr.SessionBeginInfo{})

	swapchainHandle, result := rt.CreateSwapchain(sess, &xr.SwapchainCreateInfo{
		Format: 43, SampleCount: 1, Width: 1024, Height: 1024,
		FaceCount: 1, ArraySize: 1, MipCount: 1,
	})
	if !result.Succeeded() {
		log.Fatalf("CreateSwapchain failed: %s", result)
	}

	_, _ = rt.EnumerateSwapchainImages(swapchainHandle)

	for i := 0; i < 3; i++ {
		frameState := &xr.FrameState{}
		_ = rt.WaitFrame(sess, &xr.FrameWaitInfo{}, frameState)
		_ = rt.BeginFrame(sess, &xr.FrameBeginInfo{})

		if _, result := rt.AcquireSwapchainImage(swapchainHandle, nil); result.Succeeded() {
			_ = rt.WaitSwapchainImage(swapchainHandle, &xr.SwapchainImageWaitInfo{Timeout: xr.InfiniteDuration})
			_ = rt.ReleaseSwapchainImage(swapchainHandle, nil)
		}

		_ = rt.EndFrame(sess, &xr.FrameEndInfo{DisplayTime: frameState.PredictedDisplayTime})
	}

	drain(xr.SessionStateSynchronized, xr.SessionStateVisible, xr.SessionStateFocused)

	_ = rt.RequestExitSession(sess)
	drain(xr.SessionStateVisible, xr.SessionStateSynchronized, xr.SessionStateStopping)

	_ = rt.EndSession(sess)
	drain(xr.SessionStateIdle, xr.SessionStateExiting)

	_ = rt.DestroySession(sess)
	_ = rt.DestroyInstance(instance)
}

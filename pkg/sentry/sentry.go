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

// Package sentry reports internal validator failures. These are bugs in
// the layer itself (duplicate handle registrations, unexpected panics),
// never conformance findings about the tested runtime; findings travel
// through the conformance sink instead.
package sentry

import (
	"strings"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Package-level state for debouncing errors.
var shouldDebounceErrors = true

// EnableTestMode disables debouncing for testing.
func EnableTestMode() {
	shouldDebounceErrors = false
}

// DisableTestMode restores normal debouncing behavior.
func DisableTestMode() {
	shouldDebounceErrors = true
}

// InitSentry initializes sentry with the given DSN and layer version.
// An empty DSN leaves sentry disabled, which is the default for local
// conformance runs.
func InitSentry(dsn, layerVersion string, debounceErrors bool) {
	shouldDebounceErrors = debounceErrors

	if dsn == "" {
		zap.S().Debug("Sentry disabled: no DSN configured")

		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:           dsn,
		Release:       "xr-conformance-layer@" + layerVersion,
		EnableTracing: false,
	})
	if err != nil {
		zap.S().Errorf("Failed to initialize Sentry: %s", err)
	}
}

func getMeaningfulErrorTitle(err error) string {
	message := err.Error()

	// Extract the first sentence or phrase (until period, comma or colon).
	idx := strings.IndexAny(message, ".,:")
	if idx > 0 {
		message = message[:idx]
	}

	if len(message) > 100 {
		message = message[:97] + "..."
	}

	return message
}

func createSentryEvent(level sentry.Level, err error) *sentry.Event {
	event := sentry.NewEvent()
	event.Level = level
	event.Message = err.Error()

	exception := &sentry.Exception{
		Type:       getMeaningfulErrorTitle(err),
		Value:      err.Error(),
		Stacktrace: sentry.ExtractStacktrace(err),
	}
	event.Exception = []sentry.Exception{*exception}

	event.Fingerprint = []string{
		"{{ default }}",
		"level: " + string(level),
	}

	return event
}

// createSentryEventWithContext creates a Sentry event with additional
// context data attached as tags.
func createSentryEventWithContext(level sentry.Level, err error, context map[string]string) *sentry.Event {
	event := createSentryEvent(level, err)

	if context != nil {
		if event.Tags == nil {
			event.Tags = make(map[string]string)
		}

		for key, value := range context {
			event.Tags[key] = value

			// The intercepted call name groups duplicate layer bugs best.
			if key == "function" {
				event.Fingerprint = append(event.Fingerprint, "function: "+value)
			}
		}
	}

	return event
}

func sendSentryEvent(event *sentry.Event) {
	localHub := sentry.CurrentHub().Clone()
	localHub.CaptureEvent(event)
}

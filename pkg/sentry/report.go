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

package sentry

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

type IssueType string

const (
	IssueTypeWarning IssueType = "warning"
	IssueTypeError   IssueType = "error"
	IssueTypeFatal   IssueType = "fatal"
)

func ReportIssue(err error, issueType IssueType, log *zap.SugaredLogger) {
	if log == nil {
		// If logger initialization failed somehow, use a no-op logger to
		// avoid nil panics.
		log = zap.NewNop().Sugar()
	}

	switch issueType {
	case IssueTypeFatal:
		reportFatal(err, log, nil)
	case IssueTypeError:
		reportError(err, log, nil)
	case IssueTypeWarning:
		reportWarning(err, log, nil)
	}
}

func ReportIssuef(issueType IssueType, log *zap.SugaredLogger, template string, args ...interface{}) {
	ReportIssue(fmt.Errorf(template, args...), issueType, log)
}

// ReportIssueWithContext reports an issue with additional context data
// that will be attached as Sentry tags.
func ReportIssueWithContext(err error, issueType IssueType, log *zap.SugaredLogger, context map[string]string) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	switch issueType {
	case IssueTypeFatal:
		reportFatal(err, log, context)
	case IssueTypeError:
		reportError(err, log, context)
	case IssueTypeWarning:
		reportWarning(err, log, context)
	}
}

// ReportValidatorFatal reports a bug in the validation layer itself and
// terminates. A broken validator must never keep running: its findings
// could no longer be trusted, and silence would be mistaken for
// conformance.
func ReportValidatorFatal(log *zap.SugaredLogger, function string, err error) {
	ReportIssueWithContext(err, IssueTypeFatal, log, map[string]string{
		"function": function,
	})
}

// ReportValidatorError reports a non-fatal internal error with the
// intercepted call it occurred in.
func ReportValidatorErrorf(log *zap.SugaredLogger, function string, template string, args ...interface{}) {
	ReportIssueWithContext(fmt.Errorf(template, args...), IssueTypeError, log, map[string]string{
		"function": function,
	})
}

// reportFatal sends a fatal error to Sentry including a stack trace,
// then panics. The hooks layer does not recover this panic.
func reportFatal(err error, log *zap.SugaredLogger, context map[string]string) {
	log.Error("The validation layer has encountered a fatal internal error and will now terminate.")
	log.Errorf("Error: %s", err)
	log.Errorf("Stack trace: %s", string(debug.Stack()))

	event := createSentryEventWithContext(sentry.LevelFatal, err, context)
	sendSentryEvent(event)
	sentry.Flush(time.Second * 5)

	log.Panic("Fatal error")
}

var errorLastSent = time.Now().Add(-time.Hour * 24)
var errorLastSentMutex sync.Mutex

// reportError sends an error to Sentry and logs it. Errors are debounced
// so a hot intercepted call cannot flood the project.
func reportError(err error, log *zap.SugaredLogger, context map[string]string) {
	errorLastSentMutex.Lock()
	defer errorLastSentMutex.Unlock()

	if shouldDebounceErrors && time.Since(errorLastSent) < time.Hour*2 {
		return
	}

	log.Error(err)
	event := createSentryEventWithContext(sentry.LevelError, err, context)
	sendSentryEvent(event)
	errorLastSent = time.Now()
}

var warningLastSent = time.Now().Add(-time.Hour * 24)
var warningLastSentMutex sync.Mutex

func reportWarning(err error, log *zap.SugaredLogger, context map[string]string) {
	warningLastSentMutex.Lock()
	defer warningLastSentMutex.Unlock()

	if shouldDebounceErrors && time.Since(warningLastSent) < time.Hour*2 {
		return
	}

	log.Warn(err)
	event := createSentryEventWithContext(sentry.LevelWarning, err, context)
	sendSentryEvent(event)
	warningLastSent = time.Now()
}

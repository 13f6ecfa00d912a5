// Copyright 2025 Team Alpha
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model defines the core data structures for the application.
// This file defines the closed error taxonomy of the credit-gated workflow.
// Every error a collaborator can raise is caught at the workflow boundary and
// surfaced as a WorkflowError carrying one of these kinds, so the HTTP layer
// can map kinds to statuses and messages without inspecting causes.
package model

import "fmt"

// ErrorKind identifies the category of a workflow failure.
type ErrorKind string

const (
	KindAccountNotFound     ErrorKind = "account_not_found"     // No profile row for the identifier.
	KindInsufficientCredits ErrorKind = "insufficient_credits"  // Balance below the operation cost.
	KindMedia               ErrorKind = "media_error"           // Invalid/unsupported input or download failure.
	KindRemoteProcessing    ErrorKind = "remote_processing"     // The remote job reached the FAILED state.
	KindGeneration          ErrorKind = "generation_error"      // The completion call failed.
	KindStoreUnavailable    ErrorKind = "store_unavailable"     // The account store could not be reached.
	KindAnalysisTimeout     ErrorKind = "analysis_timeout"      // The bounded poll deadline expired.
)

// Sentinel values for use with errors.Is. Two WorkflowErrors match when their
// kinds are equal, so `errors.Is(err, model.ErrInsufficientCredits)` works
// regardless of message or cause.
var (
	ErrAccountNotFound     = &WorkflowError{Kind: KindAccountNotFound, Message: "account does not exist"}
	ErrInsufficientCredits = &WorkflowError{Kind: KindInsufficientCredits, Message: "insufficient credits"}
	ErrMedia               = &WorkflowError{Kind: KindMedia, Message: "media error"}
	ErrRemoteProcessing    = &WorkflowError{Kind: KindRemoteProcessing, Message: "remote processing failed"}
	ErrGeneration          = &WorkflowError{Kind: KindGeneration, Message: "generation failed"}
	ErrStoreUnavailable    = &WorkflowError{Kind: KindStoreUnavailable, Message: "account store unavailable"}
	ErrAnalysisTimeout     = &WorkflowError{Kind: KindAnalysisTimeout, Message: "analysis timed out"}
)

// WorkflowError is the single error type crossing the workflow boundary.
type WorkflowError struct {
	Kind    ErrorKind // The taxonomy category.
	Message string    // Human-readable message, surfaced verbatim to the caller.
	Cause   error     // The underlying collaborator error, if any.
}

// NewWorkflowError builds a WorkflowError with an optional cause.
func NewWorkflowError(kind ErrorKind, message string, cause error) *WorkflowError {
	return &WorkflowError{Kind: kind, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/errors.As chains.
func (e *WorkflowError) Unwrap() error {
	return e.Cause
}

// Is matches on kind so sentinel comparison ignores message and cause.
func (e *WorkflowError) Is(target error) bool {
	t, ok := target.(*WorkflowError)
	return ok && t.Kind == e.Kind
}

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
// This file defines the closed state enum for the remote analysis job and
// the explicit mapping from the Gemini file service's raw state
// representation. Callers branch on JobState only; the external
// representation never leaks past the mapping function.
package model

import "github.com/google/generative-ai-go/genai"

// JobState is the lifecycle state of a remote analysis job.
type JobState int

const (
	JobStatePending    JobState = iota // Submitted, not yet picked up by the remote service.
	JobStateProcessing                 // The remote service is processing the artifact.
	JobStateSucceeded                  // Terminal: the artifact is ready for generation calls.
	JobStateFailed                     // Terminal: the remote service rejected the artifact.
)

// String implements fmt.Stringer for logs and error messages.
func (s JobState) String() string {
	switch s {
	case JobStatePending:
		return "PENDING"
	case JobStateProcessing:
		return "PROCESSING"
	case JobStateSucceeded:
		return "SUCCEEDED"
	case JobStateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Terminal reports whether no further transition can occur from this state.
func (s JobState) Terminal() bool {
	return s == JobStateSucceeded || s == JobStateFailed
}

// JobStateFromFileState maps the Gemini file service's state enum onto the
// closed JobState enum. An unspecified remote state is treated as pending:
// the service has acknowledged the upload but reported nothing yet.
func JobStateFromFileState(state genai.FileState) JobState {
	switch state {
	case genai.FileStateProcessing:
		return JobStateProcessing
	case genai.FileStateActive:
		return JobStateSucceeded
	case genai.FileStateFailed:
		return JobStateFailed
	default:
		return JobStatePending
	}
}

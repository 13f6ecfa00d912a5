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
// This file, `transient.go`, contains struct definitions for data models that
// only exist in memory during the execution of an analysis workflow. They are
// created per user action and discarded once the workflow completes or fails;
// nothing here is ever persisted.
package model

import "io"

// AnalysisMode selects the kind of report the model should produce.
type AnalysisMode string

const (
	ModeDetailedReport  AnalysisMode = "Detailed Report"
	ModeShortSummary    AnalysisMode = "Short Summary"
	ModeThreatDetection AnalysisMode = "Threat Detection"
	ModeObjectDetection AnalysisMode = "Object Detection"
)

// Valid reports whether the mode is one of the supported values.
func (m AnalysisMode) Valid() bool {
	switch m {
	case ModeDetailedReport, ModeShortSummary, ModeThreatDetection, ModeObjectDetection:
		return true
	}
	return false
}

// Language selects the response language of the analysis.
type Language string

const (
	LanguageBurmese Language = "Burmese"
	LanguageEnglish Language = "English"
)

// Valid reports whether the language is one of the supported values.
func (l Language) Valid() bool {
	return l == LanguageBurmese || l == LanguageEnglish
}

// PromptParameters carries the user-selected analysis options. Creativity
// maps directly onto the model's sampling temperature.
type PromptParameters struct {
	Mode              AnalysisMode `json:"mode"`
	Language          Language     `json:"language"`
	Creativity        float32      `json:"creativity"` // In [0, 1].
	CustomInstruction string       `json:"custom_instruction,omitempty"`
}

// MediaSource describes where the video bytes come from: exactly one of
// Upload or LinkURL is set. Upload is a stream so large files never need to
// be buffered whole in memory.
type MediaSource struct {
	Upload  io.Reader // Uploaded video bytes, or nil.
	LinkURL string    // A sharing-site URL, or empty.
}

// AnalysisRequest is the in-memory input to one credit-gated workflow run.
type AnalysisRequest struct {
	AccountEmail string
	Source       MediaSource
	Prompt       PromptParameters
}

// LocalMedia is a handle to a transient, uniquely named local video file
// produced by media acquisition. The workflow that resolved it owns deletion
// on every exit path.
type LocalMedia struct {
	Path     string // Absolute path of the temporary file.
	MIMEType string // Sniffed container MIME type (e.g., "video/mp4").
}

// JobHandle is the opaque reference to a video artifact held by the remote
// AI service while it is being processed. It is never persisted; the workflow
// polls it in memory until the state is terminal and releases the artifact
// afterwards.
type JobHandle struct {
	Name     string   // Remote resource name, used for polling and release.
	URI      string   // Remote URI referenced by the generation call.
	MIMEType string   // Container MIME type of the uploaded artifact.
	State    JobState // Last observed state.
}

// AnalysisResult is the ephemeral outcome of a successful run, held only for
// display.
type AnalysisResult struct {
	Text string `json:"text"`
}

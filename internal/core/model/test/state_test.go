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

// Package model_test contains unit tests for the data models defined in the
// model package. This file tests the remote job state enum and its mapping
// from the Gemini file service representation.
package model_test

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/teamalpha/flash-ai/internal/core/model"
)

// TestJobStateFromFileState verifies the mapping from the raw file service
// enum onto the closed job state enum, including the fallback for an
// unspecified remote state.
func TestJobStateFromFileState(t *testing.T) {
	assert.Equal(t, model.JobStateProcessing, model.JobStateFromFileState(genai.FileStateProcessing))
	assert.Equal(t, model.JobStateSucceeded, model.JobStateFromFileState(genai.FileStateActive))
	assert.Equal(t, model.JobStateFailed, model.JobStateFromFileState(genai.FileStateFailed))
	assert.Equal(t, model.JobStatePending, model.JobStateFromFileState(genai.FileStateUnspecified))
}

// TestJobStateTerminal verifies that only the succeeded and failed states
// stop the polling loop.
func TestJobStateTerminal(t *testing.T) {
	assert.False(t, model.JobStatePending.Terminal())
	assert.False(t, model.JobStateProcessing.Terminal())
	assert.True(t, model.JobStateSucceeded.Terminal())
	assert.True(t, model.JobStateFailed.Terminal())
}

// TestPromptParameterValidation verifies the closed sets of analysis modes
// and response languages.
func TestPromptParameterValidation(t *testing.T) {
	assert.True(t, model.ModeDetailedReport.Valid())
	assert.True(t, model.ModeShortSummary.Valid())
	assert.True(t, model.ModeThreatDetection.Valid())
	assert.True(t, model.ModeObjectDetection.Valid())
	assert.False(t, model.AnalysisMode("Sentiment Analysis").Valid())

	assert.True(t, model.LanguageBurmese.Valid())
	assert.True(t, model.LanguageEnglish.Valid())
	assert.False(t, model.Language("Klingon").Valid())
}

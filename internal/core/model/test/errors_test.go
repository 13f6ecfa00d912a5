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
// model package. This file tests the workflow error taxonomy: kind-based
// matching, cause unwrapping, and message formatting.
package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teamalpha/flash-ai/internal/core/model"
)

// TestWorkflowErrorIsMatchesOnKind verifies that two workflow errors compare
// equal under errors.Is when their kinds match, regardless of message or
// cause, so callers can branch on sentinels.
func TestWorkflowErrorIsMatchesOnKind(t *testing.T) {
	err := model.NewWorkflowError(model.KindInsufficientCredits, "balance too low for analysis", nil)

	assert.ErrorIs(t, err, model.ErrInsufficientCredits)
	assert.NotErrorIs(t, err, model.ErrAccountNotFound)
	assert.NotErrorIs(t, err, model.ErrAnalysisTimeout)
}

// TestWorkflowErrorUnwrap verifies that the underlying cause stays reachable
// through errors.Is and errors.As chains.
func TestWorkflowErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := model.NewWorkflowError(model.KindStoreUnavailable, "failed to read account", cause)

	assert.ErrorIs(t, err, cause)

	var wfErr *model.WorkflowError
	assert.ErrorAs(t, fmt.Errorf("handling request: %w", err), &wfErr)
	assert.Equal(t, model.KindStoreUnavailable, wfErr.Kind)
}

// TestWorkflowErrorMessage verifies the rendered error string includes the
// cause only when one exists.
func TestWorkflowErrorMessage(t *testing.T) {
	bare := model.NewWorkflowError(model.KindMedia, "the provided file is not a supported video", nil)
	assert.Equal(t, "the provided file is not a supported video", bare.Error())

	withCause := model.NewWorkflowError(model.KindMedia, "video download failed", errors.New("exit status 1"))
	assert.Equal(t, "video download failed: exit status 1", withCause.Error())
}

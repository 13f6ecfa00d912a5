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

// Package services contains the business logic for interacting with data
// sources. This file defines the contract of the remote analysis backend,
// the hosted generative-AI service that receives the video, processes it, and
// produces the analysis text. The production implementation lives in
// internal/cloud (GeminiBackend); tests substitute a scripted fake.
package services

import (
	"context"

	"github.com/teamalpha/flash-ai/internal/core/model"
)

// AnalysisBackend models the remote analysis job surface: submit a local
// artifact, poll it to a terminal state, run a generation call against it,
// and release the remote copy afterwards.
type AnalysisBackend interface {
	// Upload transmits the local file to the remote service and returns a
	// handle whose state is Pending or Processing.
	Upload(ctx context.Context, path, displayName, mimeType string) (*model.JobHandle, error)

	// Poll queries the current state of the artifact. Polling an
	// already-terminal handle returns the same terminal state with no side
	// effects.
	Poll(ctx context.Context, name string) (*model.JobHandle, error)

	// Generate runs a completion conditioned on the uploaded video and the
	// instruction text. Creativity maps to the sampling temperature.
	Generate(ctx context.Context, handle *model.JobHandle, instruction string, creativity float32) (string, error)

	// Release deletes the remote artifact. It must be safe to call on every
	// exit path, including after a failed job.
	Release(ctx context.Context, name string) error
}

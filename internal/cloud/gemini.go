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

// Package cloud provides components for interacting with external services.
// This file implements the remote analysis backend on the Gemini API:
// uploading a local video to the Gemini File Service, querying its processing
// state, generating the analysis text against the uploaded artifact, and
// deleting the artifact afterwards.
//
// The raw file-service states are translated to the application's closed
// JobState enum at this boundary (see model.JobStateFromFileState); nothing
// above this layer compares the external service's status representation.
package cloud

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/teamalpha/flash-ai/internal/core/model"
)

// GeminiBackend implements the remote analysis job surface on the Gemini
// File Service and a rate-limited generative model.
type GeminiBackend struct {
	client *genai.Client                // The Gemini API client (file service operations).
	model  *QuotaAwareGenerativeAIModel // The rate-limited generation model.

	inputTokenCounter  metric.Int64Counter // OTel counter for prompt tokens.
	outputTokenCounter metric.Int64Counter // OTel counter for response tokens.
	retryCounter       metric.Int64Counter // OTel counter for generation retries.
}

// NewGeminiBackend constructs the backend and its telemetry counters.
//
// Inputs:
//   - client: The Gemini API client.
//   - agentModel: The rate-limited model used for generation calls.
//
// Outputs:
//   - *GeminiBackend: The initialized backend.
func NewGeminiBackend(client *genai.Client, agentModel *QuotaAwareGenerativeAIModel) *GeminiBackend {
	meter := otel.Meter("github.com/teamalpha/flash-ai")
	out := &GeminiBackend{client: client, model: agentModel}
	out.inputTokenCounter, _ = meter.Int64Counter("analysis.gemini.token.input")
	out.outputTokenCounter, _ = meter.Int64Counter("analysis.gemini.token.output")
	out.retryCounter, _ = meter.Int64Counter("analysis.gemini.retry")
	return out
}

// handleFromFile converts a file-service resource into the internal handle.
func handleFromFile(f *genai.File) *model.JobHandle {
	return &model.JobHandle{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
		State:    model.JobStateFromFileState(f.State),
	}
}

// Upload transmits the local file to the Gemini File Service. The returned
// handle usually starts in the Processing state; the caller owns polling it
// to a terminal state.
func (b *GeminiBackend) Upload(ctx context.Context, path, displayName, mimeType string) (*model.JobHandle, error) {
	f, err := b.client.UploadFileFromPath(ctx, path, &genai.UploadFileOptions{
		DisplayName: displayName,
		MIMEType:    mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to the file service: %w", err)
	}
	return handleFromFile(f), nil
}

// Poll queries the current state of the remote artifact. The file service
// treats this as a pure read, so polling a terminal artifact simply reports
// the same state again.
func (b *GeminiBackend) Poll(ctx context.Context, name string) (*model.JobHandle, error) {
	f, err := b.client.GetFile(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to poll file state: %w", err)
	}
	return handleFromFile(f), nil
}

// Generate runs the completion call conditioned on the uploaded video and
// the instruction text, with creativity applied as the sampling temperature.
func (b *GeminiBackend) Generate(ctx context.Context, handle *model.JobHandle, instruction string, creativity float32) (string, error) {
	parts := []genai.Part{
		genai.FileData{URI: handle.URI, MIMEType: handle.MIMEType},
		genai.Text(instruction),
	}
	return GenerateAnalysisResponse(
		ctx,
		b.inputTokenCounter,
		b.outputTokenCounter,
		b.retryCounter,
		0,
		b.model,
		creativity,
		parts...)
}

// Release deletes the remote artifact so failed or completed runs do not
// leak file-service storage.
func (b *GeminiBackend) Release(ctx context.Context, name string) error {
	if err := b.client.DeleteFile(ctx, name); err != nil {
		return fmt.Errorf("failed to delete remote artifact %s: %w", name, err)
	}
	return nil
}

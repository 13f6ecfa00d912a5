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
// This file implements a decorator around the Gemini generative model that
// adds rate limiting, so the application stays inside the API's request
// quota even when many analysis requests arrive at once.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: A struct that wraps the base Gemini client
//     and model configuration behind a rate limiter.
//
// Functions:
//   - NewQuotaAwareModel: A constructor to create a new instance of the wrapped model.
//   - GenerateContent: Configures a model instance for a single request (the
//     sampling temperature comes from the user's creativity setting) and calls
//     it once a rate-limiter token is available.
package cloud

import (
	"context"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
)

// QuotaAwareGenerativeAIModel is a decorator that wraps the Gemini client and
// a model configuration with a rate limiter. Because the sampling temperature
// varies per request, the wrapper builds a fresh GenerativeModel for every
// call instead of mutating a shared instance.
type QuotaAwareGenerativeAIModel struct {
	client    *genai.Client // The underlying Gemini API client.
	ModelName string        // The name of the model (e.g., "gemini-1.5-flash").
	config    GeminiModel   // The static model configuration from the TOML files.
	limiter   *rate.Limiter // A rate limiter to control request frequency.
}

// NewQuotaAwareModel is a constructor function that creates a new
// QuotaAwareGenerativeAIModel from the model configuration and a rate limit
// in requests per second.
//
// Inputs:
//   - client: The Gemini API client.
//   - config: The static model configuration.
//
// Outputs:
//   - *QuotaAwareGenerativeAIModel: A pointer to the newly created wrapper.
func NewQuotaAwareModel(client *genai.Client, config GeminiModel) *QuotaAwareGenerativeAIModel {
	requestsPerSecond := config.RateLimit
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		client:    client,
		ModelName: config.Model,
		config:    config,
		// Replenish one token per second with a burst of `requestsPerSecond`.
		limiter: rate.NewLimiter(rate.Every(time.Second/1), requestsPerSecond),
	}
}

// newModel builds a GenerativeModel configured for a single request.
func (q *QuotaAwareGenerativeAIModel) newModel(temperature float32) *genai.GenerativeModel {
	m := q.client.GenerativeModel(q.ModelName)
	m.SetTemperature(temperature)
	if q.config.TopP > 0 {
		m.SetTopP(q.config.TopP)
	}
	if q.config.TopK > 0 {
		m.SetTopK(q.config.TopK)
	}
	if q.config.MaxTokens > 0 {
		m.SetMaxOutputTokens(q.config.MaxTokens)
	}
	if q.config.SystemInstructions != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(q.config.SystemInstructions)},
		}
	}
	m.SafetySettings = DefaultSafetySettings
	return m
}

// GenerateContent waits for a rate-limiter token and then executes a single
// generation call. Waiting honors context cancellation, so a caller that
// gives up does not keep a queued request alive.
//
// Inputs:
//   - ctx: The context for the request.
//   - temperature: The sampling temperature for this request.
//   - parts: The parts of the multi-modal prompt (file reference, text).
//
// Outputs:
//   - *genai.GenerateContentResponse: The response from the model if successful.
//   - error: An error if rate-limit waiting is cancelled or the call fails.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, temperature float32, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return q.newModel(temperature).GenerateContent(ctx, parts...)
}

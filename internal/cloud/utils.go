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
// This file contains general-purpose utility functions that support the cloud
// package: hierarchical configuration loading, environment secret resolution,
// and resilient interaction with the Gemini API.
//
// Functions:
//   - fileExists: A simple helper to check if a file exists.
//   - LoadConfig: Implements a hierarchical configuration loader. It first reads a base
//     configuration file and then overwrites values with a second, environment-specific
//     file (e.g., .env.local.toml, .env.test.toml). The environment is determined by
//     an environment variable.
//   - LoadSecrets: Resolves required secrets from the process environment, with
//     optional .env file support via godotenv.
//   - GenerateAnalysisResponse: A wrapper for making calls to the Gemini model. It
//     includes a retry mechanism for transient errors and integrates with
//     OpenTelemetry to record metrics for token usage and retries.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/metric"
)

// Cloud Constants define key strings and values used throughout the package,
// primarily for configuration loading and API interaction policies.
const (
	ConfigFileBaseName  = ".env"                // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"               // The file extension for configuration files.
	ConfigSeparator     = "."                   // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "FLASH_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "FLASH_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test").
	MaxRetries          = 3                     // The maximum number of times to retry a failed API call.

	EnvSupabaseDBURL = "SUPABASE_DB_URL" // Environment variable holding the account store connection string.
	EnvGeminiAPIKey  = "GEMINI_API_KEY"  // Environment variable holding the Gemini API key.
	EnvCookieKey     = "COOKIE_KEY"      // Environment variable holding the session cookie signing key.
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides a hierarchical configuration loading mechanism. It first
// loads a base configuration file and then overwrites its values with an
// environment-specific configuration file. The config directory and runtime
// name are determined by environment variables.
//
// Inputs:
//   - baseConfig: A pointer to the target configuration struct that will be
//     populated from the TOML files.
func LoadConfig(baseConfig interface{}) {
	// Read the directory path for config files from an environment variable.
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	// Ensure the prefix ends with a path separator if it's not empty.
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	// Read the runtime environment (e.g., "local", "test") from an environment
	// variable. Default to "test" if the variable is not set.
	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	// Construct the path for the base configuration file (e.g., "configs/.env.toml").
	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension

	// Construct the path for the environment-specific override file
	// (e.g., "configs/.env.test.toml").
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	// If the base configuration file exists, decode it into the baseConfig struct.
	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// If the environment-specific configuration file exists, decode it.
	// Any values in this file will overwrite the values from the base config.
	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// LoadSecrets resolves the application's required secrets from the process
// environment. A local .env file is loaded first when present, which keeps
// development setups out of the shell profile. It fails when a required
// secret is missing so that a misconfigured deployment stops at startup
// rather than on the first request.
//
// Outputs:
//   - *Secrets: The resolved secret values.
//   - error: An error naming the first missing environment variable.
func LoadSecrets() (*Secrets, error) {
	// Ignore the error: a missing .env file simply means the environment is
	// already populated (the normal case in production).
	_ = godotenv.Load()

	secrets := &Secrets{
		SupabaseDBURL: os.Getenv(EnvSupabaseDBURL),
		GeminiAPIKey:  os.Getenv(EnvGeminiAPIKey),
		CookieKey:     os.Getenv(EnvCookieKey),
	}
	if secrets.SupabaseDBURL == "" {
		return nil, fmt.Errorf("missing required environment variable %s", EnvSupabaseDBURL)
	}
	if secrets.GeminiAPIKey == "" {
		return nil, fmt.Errorf("missing required environment variable %s", EnvGeminiAPIKey)
	}
	if secrets.CookieKey == "" {
		return nil, fmt.Errorf("missing required environment variable %s", EnvCookieKey)
	}
	return secrets, nil
}

// GenerateAnalysisResponse is a helper function for executing multi-modal
// requests against a Gemini model. It includes logic for retries and
// telemetry.
//
// Inputs:
//   - ctx: The context for the request, which controls cancellation and tracing.
//   - inputTokenCounter: An OpenTelemetry counter for prompt tokens used.
//   - outputTokenCounter: An OpenTelemetry counter for response tokens generated.
//   - retryCounter: An OpenTelemetry counter for tracking the number of retries.
//   - tryCount: The current attempt number for this request (starts at 0).
//   - model: The rate-limited, quota-aware generative model to use.
//   - temperature: The sampling temperature for this request, from the user's
//     creativity setting.
//   - parts: The multi-modal prompt parts (file reference plus instruction text).
//
// Outputs:
//   - string: The concatenated text content from the model's response.
//   - error: An error if the request fails after all retries.
func GenerateAnalysisResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	retryCounter metric.Int64Counter,
	tryCount int,
	model *QuotaAwareGenerativeAIModel,
	temperature float32,
	parts ...genai.Part) (value string, err error) {
	// Make the request to the generative model.
	resp, err := model.GenerateContent(ctx, temperature, parts...)

	// If there's an error, check if we can retry.
	if err != nil {
		if tryCount < MaxRetries {
			retryCounter.Add(ctx, 1)
			return GenerateAnalysisResponse(ctx, inputTokenCounter, outputTokenCounter, retryCounter, tryCount+1, model, temperature, parts...)
		}
		return "", err
	}

	// Record the token counts for both the prompt and the generated candidates.
	if resp.UsageMetadata != nil {
		inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	// The response can have multiple candidates; concatenate the text parts of
	// each candidate's content.
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					sb.WriteString(string(text))
				}
			}
		}
	}
	return sb.String(), nil
}

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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, along with the clients for the external services the
// application depends on: the Supabase Postgres account store and the Gemini
// API.
//
// This file centralizes all configuration-related structs, making it easy
// to understand and manage the application's configurable parameters.
//
// Structs:
//   - AccountStore: Configuration for the Supabase profile table.
//   - Credits: Credit cost settings for gated operations.
//   - Media: Upload and link-download settings for media acquisition.
//   - Downloader: Configuration for the external yt-dlp binary.
//   - Analysis: Polling policy for the remote analysis job.
//   - PromptTemplates: The text templates for prompts sent to the model.
//   - GeminiModel: Configuration for a Gemini generative model.
//   - Config: The top-level struct that aggregates all other configuration structs.
//   - Secrets: Values resolved from the hosting environment, never from TOML.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with empty maps.
package cloud

import "github.com/google/generative-ai-go/genai"

// DefaultSafetySettings defines the default content safety thresholds for the
// generative models. Analysis modes such as threat detection require the model
// to describe content that the default thresholds would otherwise block, so
// all categories are configured to pass through.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockNone,
	},
}

// AccountStore represents the configuration for the remote tabular store that
// holds user accounts. The connection string itself is a secret and is
// resolved from the environment, not from TOML.
type AccountStore struct {
	ProfileTable string `toml:"profile_table"` // The name of the table containing user profiles and balances.
	MaxConns     int32  `toml:"max_conns"`     // The maximum size of the connection pool.
}

// Credits holds the pricing of credit-gated operations.
type Credits struct {
	AnalysisCost int64 `toml:"analysis_cost"` // Credits debited per successful video analysis.
}

// Media represents the configuration for media acquisition.
type Media struct {
	MaxUploadBytes   int64    `toml:"max_upload_bytes"`   // Upper bound on accepted upload size.
	AllowedLinkHosts []string `toml:"allowed_link_hosts"` // Host allow-list for remote video links.
}

// Downloader represents the configuration for the external link-resolution
// utility (yt-dlp).
type Downloader struct {
	CommandPath string `toml:"command_path"` // Path to the yt-dlp executable.
	Format      string `toml:"format"`       // Container/format selection expression.
	Quiet       bool   `toml:"quiet"`        // Whether to suppress downloader output.
}

// Analysis holds the polling policy for the remote analysis job. The poll
// loop is bounded: a job still processing past the deadline fails with a
// timeout instead of blocking the request forever.
type Analysis struct {
	PollIntervalSeconds int `toml:"poll_interval_seconds"` // Delay between status polls while the remote job is processing.
	PollDeadlineSeconds int `toml:"poll_deadline_seconds"` // Wall-clock bound for the whole poll loop.
}

// PromptTemplates holds the templates for the prompts sent to the model.
type PromptTemplates struct {
	AnalysisPrompt string `toml:"analysis"` // The template for the per-request analysis instruction.
}

// GeminiModel represents the configuration for a Gemini generative model.
// Temperature is not configured here: it is supplied per request from the
// user's creativity setting.
type GeminiModel struct {
	Model              string  `toml:"model"`               // The name of the Gemini model (e.g., "gemini-1.5-flash").
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the model.
	TopP               float32 `toml:"top_p"`               // The top_p parameter for the model.
	TopK               int32   `toml:"top_k"`               // The top_k parameter for the model.
	MaxTokens          int32   `toml:"max_tokens"`          // The maximum number of tokens for the model output.
	RateLimit          int     `toml:"rate_limit"`          // The rate limit for the model in requests per second.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other configuration
// structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name            string `toml:"name"`              // The name of the application.
		Port            int    `toml:"port"`              // The HTTP listen port.
		GoogleProjectId string `toml:"google_project_id"` // The Google Cloud project ID used by the telemetry exporters.
	} `toml:"application"`
	AccountStore    AccountStore           `toml:"account_store"`    // Account store configuration.
	Credits         Credits                `toml:"credits"`          // Credit cost configuration.
	Media           Media                  `toml:"media"`            // Media acquisition configuration.
	Downloader      Downloader             `toml:"downloader"`       // yt-dlp configuration.
	Analysis        Analysis               `toml:"analysis"`         // Remote job polling policy.
	PromptTemplates PromptTemplates        `toml:"prompt_templates"` // Prompt templates configuration.
	AgentModels     map[string]GeminiModel `toml:"agent_models"`     // A map of Gemini models, keyed by a logical name (e.g., "flash").
}

// Secrets holds values that are resolved from the hosting environment at
// startup. They are deliberately kept out of the TOML configuration so they
// never end up in version control.
type Secrets struct {
	SupabaseDBURL string // Postgres connection string for the Supabase project.
	GeminiAPIKey  string // API key for the Gemini API.
	CookieKey     string // HMAC key for signing session cookies.
}

// NewConfig is a constructor function that creates a new, initialized Config
// instance. The map fields must be initialized before the TOML loader tries
// to populate them.
//
// Outputs:
//   - *Config: A pointer to a new Config struct with its map fields initialized.
func NewConfig() *Config {
	return &Config{
		AgentModels: make(map[string]GeminiModel),
	}
}

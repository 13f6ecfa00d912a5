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

// Package testutil provides shared helpers for the test suite: a canned
// configuration so workflow tests never touch the TOML loader, and fakes for
// the account store and the analysis backend so the full pipeline runs
// without a database or a network connection.
package testutil

import (
	"github.com/teamalpha/flash-ai/internal/cloud"
)

// NewTestConfig returns a configuration with the same shape production loads
// from TOML, tuned for tests: zero poll interval so job-state scripts are
// consumed immediately, and a short poll deadline so timeout paths finish
// fast.
func NewTestConfig() *cloud.Config {
	config := cloud.NewConfig()
	config.Application.Name = "flash-ai-test"
	config.AccountStore.ProfileTable = "profile"
	config.Credits.AnalysisCost = 10
	config.Media.MaxUploadBytes = 1 << 20
	config.Media.AllowedLinkHosts = []string{"youtube.com", "youtu.be"}
	config.Downloader.CommandPath = "yt-dlp"
	config.Downloader.Format = "best[ext=mp4]/best"
	config.Downloader.Quiet = true
	config.Analysis.PollIntervalSeconds = 0
	config.Analysis.PollDeadlineSeconds = 2
	config.PromptTemplates.AnalysisPrompt = "Analysis mode: {{.Mode}}. Respond in {{.Language}}. {{.CustomInstruction}}"
	config.AgentModels["flash"] = cloud.GeminiModel{
		Model:     "gemini-1.5-flash",
		RateLimit: 100,
	}
	return config
}

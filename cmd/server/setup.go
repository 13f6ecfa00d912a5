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

package main

import (
	"context"
	"log"
	"os"

	"github.com/teamalpha/flash-ai/internal/api"
	"github.com/teamalpha/flash-ai/internal/cloud"
	"github.com/teamalpha/flash-ai/internal/core/services"
	"github.com/teamalpha/flash-ai/internal/core/workflow"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config   *cloud.Config
	secrets  *cloud.Secrets
	cloud    *cloud.ServiceClients
	handlers *api.Handlers
}

var state = &StateManager{}

// SetupOS points the configuration loader at the server's config directory
// and runtime. Existing values are left alone so a deployment can override
// them from the environment.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the application configuration once and caches it.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to set up config environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState initializes the application dependencies: the external service
// clients, the account store, the analysis backend, the workflow, and the
// HTTP handler set.
func InitState(ctx context.Context) {
	config := GetConfig()

	secrets, err := cloud.LoadSecrets()
	if err != nil {
		log.Fatalf("failed to load secrets: %v\n", err)
	}
	state.secrets = secrets

	serviceClients, err := cloud.NewServiceClients(ctx, config, secrets)
	if err != nil {
		log.Fatalf("failed to create service clients: %v\n", err)
	}
	state.cloud = serviceClients

	accounts := services.NewSupabaseAccounts(serviceClients.DB, config.AccountStore.ProfileTable)
	backend := cloud.NewGeminiBackend(serviceClients.GenAIClient, serviceClients.AgentModels["flash"])

	analysisWorkflow, err := workflow.NewVideoAnalysisWorkflow(config, accounts, backend)
	if err != nil {
		log.Fatalf("failed to build analysis workflow: %v\n", err)
	}

	state.handlers = api.NewHandlers(accounts, analysisWorkflow, api.NewSessionCodec(secrets.CookieKey))
}

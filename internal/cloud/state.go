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
// This file is responsible for initializing and holding the client objects
// needed to communicate with those services. It acts as a dependency
// injection container, creating a single, shared `ServiceClients` struct that
// can be passed throughout the application.
//
// Logic Flow:
//  1. The `NewServiceClients` function is called at application startup.
//  2. It takes the application's configuration, the resolved secrets, and a
//     `context.Context`.
//  3. It initializes the Postgres connection pool for the Supabase account
//     store and the Gemini API client.
//  4. It then reads the configuration to create the rate-limited model
//     wrappers, storing them in a map keyed by their logical name.
//  5. All initialized clients are bundled into a single `ServiceClients`
//     struct used by the API handlers and workflows.
//
// Structs:
//   - ServiceClients: A container struct holding all initialized external
//     service clients, acting as a central state manager for external connections.
//
// Functions:
//   - Close: A convenience method to gracefully shut down all client connections.
//   - NewServiceClients: A factory function that creates and configures all
//     necessary clients based on the application's configuration.
package cloud

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"
)

// ServiceClients is a struct that acts as a central container for all the
// clients that interact with external services. This pattern is a form of
// dependency injection, making it easy to manage and share these client
// connections across the entire application.
type ServiceClients struct {
	DB          *pgxpool.Pool                           // Connection pool for the Supabase Postgres account store.
	GenAIClient *genai.Client                           // Client for the Gemini API (file service + generation).
	AgentModels map[string]*QuotaAwareGenerativeAIModel // Configured, rate-limited generative models, keyed by a logical name.
}

// Close is a utility method to gracefully shut down all the active client
// connections. Client lifetimes are normally bound to the application's root
// context, but this method provides an explicit release point, which is
// especially useful in tests and controlled shutdowns.
func (c *ServiceClients) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.GenAIClient != nil {
		_ = c.GenAIClient.Close()
	}
}

// NewServiceClients is a factory function that initializes all required
// external service clients based on the provided configuration and secrets.
// It serves as the main entry point for setting up the application's external
// dependencies.
//
// Inputs:
//   - ctx: The root context.Context for the application, used to manage the lifecycle of the clients.
//   - config: A pointer to the loaded application configuration (`Config`).
//   - secrets: The secrets resolved from the hosting environment.
//
// Outputs:
//   - *ServiceClients: A pointer to the fully initialized ServiceClients struct.
//   - error: An error if any of the clients fail to initialize.
func NewServiceClients(ctx context.Context, config *Config, secrets *Secrets) (*ServiceClients, error) {
	// Build the Postgres pool configuration so the pool size from the TOML
	// config can be applied on top of the connection string.
	poolConfig, err := pgxpool.ParseConfig(secrets.SupabaseDBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account store connection string: %w", err)
	}
	if config.AccountStore.MaxConns > 0 {
		poolConfig.MaxConns = config.AccountStore.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to account store: %w", err)
	}

	// Create the Gemini client using an API key for authentication.
	gc, err := genai.NewClient(ctx, option.WithAPIKey(secrets.GeminiAPIKey))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	// Wrap each configured model with the rate limiter.
	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for key, values := range config.AgentModels {
		agentModels[key] = NewQuotaAwareModel(gc, values)
	}

	return &ServiceClients{
		DB:          pool,
		GenAIClient: gc,
		AgentModels: agentModels,
	}, nil
}

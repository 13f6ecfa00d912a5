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

// Package cor (Chain of Responsibility) provides the building blocks for
// workflows: a Command is an atomic unit of work, a Chain runs commands in
// sequence, and a Context is the shared state object carried through one
// execution. The interfaces keep the engine decoupled from the commands so
// the analysis pipeline can be assembled and tested piece by piece.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys used for the primary data flow within a
// chain: after each command runs, the value it stored under CtxOut becomes
// the CtxIn value of the next command.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state object passed through a chain of commands. It
// carries data, accumulated errors, and the temporary files a run has
// created, so cleanup can be guaranteed at the end of the workflow.
type Context interface {
	// SetContext sets the standard Go context, used for cancellation signals
	// and trace propagation.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.
	GetContext() context.Context

	// Add stores a key-value pair, returning the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error produced by a command, keyed by the command
	// name.
	AddError(key string, err error)

	// GetErrors returns all errors collected during the workflow.
	GetErrors() map[string]error

	// Get retrieves a value by its key, or nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command has recorded an error.
	HasErrors() bool

	// AddTempFile registers a temporary file created during the workflow so
	// Close can remove it.
	AddTempFile(file string)

	// GetTempFiles returns all registered temporary file paths.
	GetTempFiles() []string

	// Close deletes every registered temporary file. Deferred at the start
	// of a workflow run, it guarantees local cleanup on every exit path.
	Close()
}

// Executable is any object with a core execution step.
type Executable interface {
	// Execute runs the business logic, reading inputs from and writing
	// outputs to the Context.
	Execute(context Context)
}

// Command is an atomic, testable unit of work and the fundamental building
// block of a workflow.
type Command interface {
	Executable

	// GetName returns the unique name of the command, used for logging and
	// telemetry.
	GetName() string

	// GetInputParam returns the context key the command reads its primary
	// input from.
	GetInputParam() string

	// GetOutputParam returns the context key the command writes its primary
	// output to.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the OpenTelemetry tracer for this command.
	GetTracer() trace.Tracer

	// GetMeter returns the OpenTelemetry meter for creating metrics.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is a sequence of commands. A Chain is itself a Command, so chains
// can be nested.
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after a
	// command records an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}

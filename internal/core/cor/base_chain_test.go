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

package cor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamalpha/flash-ai/internal/core/cor"
)

// appendCommand records its execution and pipes a value to the next command.
type appendCommand struct {
	cor.BaseCommand
	ran *[]string
	err error
}

func newAppendCommand(name string, ran *[]string, err error) *appendCommand {
	return &appendCommand{BaseCommand: *cor.NewBaseCommand(name), ran: ran, err: err}
}

func (c *appendCommand) IsExecutable(context cor.Context) bool {
	return context.GetContext() != nil
}

func (c *appendCommand) Execute(context cor.Context) {
	*c.ran = append(*c.ran, c.GetName())
	if c.err != nil {
		context.AddError(c.GetName(), c.err)
		return
	}
	context.Add(cor.CtxOut, c.GetName())
}

// TestChainPipesOutputToInput verifies the CtxOut value of one command
// becomes the CtxIn value of the next.
func TestChainPipesOutputToInput(t *testing.T) {
	ran := []string{}
	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(newAppendCommand("first", &ran, nil))

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	chain.Execute(ctx)

	require.False(t, ctx.HasErrors())
	assert.Equal(t, "first", ctx.Get(cor.CtxIn))
	assert.Nil(t, ctx.Get(cor.CtxOut))
}

// TestChainStopsAtFirstError verifies commands after a failure do not run
// unless the chain is configured to continue.
func TestChainStopsAtFirstError(t *testing.T) {
	ran := []string{}
	boom := errors.New("boom")

	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(newAppendCommand("first", &ran, boom))
	chain.AddCommand(newAppendCommand("second", &ran, nil))

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	chain.Execute(ctx)

	require.True(t, ctx.HasErrors())
	assert.Equal(t, []string{"first"}, ran)
	assert.ErrorIs(t, ctx.GetErrors()["first"], boom)
}

// TestChainContinueOnFailure verifies the opt-in behavior of running the
// remaining commands after an error.
func TestChainContinueOnFailure(t *testing.T) {
	ran := []string{}
	chain := cor.NewBaseChain("test-chain")
	chain.ContinueOnFailure(true)
	chain.AddCommand(newAppendCommand("first", &ran, errors.New("boom")))
	chain.AddCommand(newAppendCommand("second", &ran, nil))

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	chain.Execute(ctx)

	assert.Equal(t, []string{"first", "second"}, ran)
}

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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// credit guard, the first step of the credit-gated workflow.
//
// The guard re-reads the account from the store (balances are never trusted
// from a cached session value) and fails the chain before any media or
// remote work happens when the account is missing or the balance is below
// the analysis cost. Both failures are pure: no side effects of any kind.
//
// The guard is only an early exit for the common case. The authoritative
// protection against concurrent overspend is the conditional update in the
// debit step; a balance that passes here can still be gone by the time the
// job succeeds.
package commands

import (
	"github.com/teamalpha/flash-ai/internal/core/cor"
	"github.com/teamalpha/flash-ai/internal/core/model"
	"github.com/teamalpha/flash-ai/internal/core/services"
)

// CreditGuard verifies the requesting account exists and can afford the
// analysis before any external work begins.
type CreditGuard struct {
	cor.BaseCommand
	accounts services.AccountStore // The account store adapter.
	cost     int64                 // Credits required for one analysis.
}

// NewCreditGuard is the constructor for the CreditGuard command.
func NewCreditGuard(name string, accounts services.AccountStore, cost int64) *CreditGuard {
	return &CreditGuard{BaseCommand: *cor.NewBaseCommand(name), accounts: accounts, cost: cost}
}

// IsExecutable requires the requesting account's email in the context.
func (c *CreditGuard) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(GetAccountEmailParamName()) != nil
}

// Execute fetches the account and checks the balance against the cost.
func (c *CreditGuard) Execute(context cor.Context) {
	email := context.Get(GetAccountEmailParamName()).(string)

	account, err := c.accounts.Get(context.GetContext(), email)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	if account.Credits < c.cost {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), model.NewWorkflowError(
			model.KindInsufficientCredits, "insufficient credits", nil))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetAccountParamName(), account)
}

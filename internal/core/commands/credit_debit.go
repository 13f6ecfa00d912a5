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

package commands

import (
	"log/slog"

	"github.com/teamalpha/flash-ai/internal/core/cor"
	"github.com/teamalpha/flash-ai/internal/core/services"
)

// CreditDebit charges the account for a completed analysis. It runs only
// after the result exists, and the store applies the charge conditionally:
// a balance drained by a concurrent run since the guard check makes the
// debit report insufficient credits, which fails this run too. The charge is
// therefore applied exactly once per delivered result, never for a failure.
type CreditDebit struct {
	cor.BaseCommand
	accounts services.AccountStore
	cost     int64 // Credits charged for one analysis.
}

// NewCreditDebit is the constructor for the CreditDebit command.
func NewCreditDebit(name string, accounts services.AccountStore, cost int64) *CreditDebit {
	return &CreditDebit{BaseCommand: *cor.NewBaseCommand(name), accounts: accounts, cost: cost}
}

// IsExecutable requires a produced analysis result and the account email.
func (c *CreditDebit) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(GetResultParamName()) != nil &&
		context.Get(GetAccountEmailParamName()) != nil
}

// Execute applies the conditional charge and records the remaining balance.
func (c *CreditDebit) Execute(context cor.Context) {
	email := context.Get(GetAccountEmailParamName()).(string)

	remaining, err := c.accounts.Debit(context.GetContext(), email, c.cost)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	slog.InfoContext(context.GetContext(), "debited analysis credits",
		"email", email, "cost", c.cost, "remaining", remaining)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetRemainingCreditsParamName(), remaining)
	context.Add(c.GetOutputParam(), remaining)
}

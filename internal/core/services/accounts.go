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

// Package services contains the business logic for interacting with data
// sources. This file defines the account store adapter over the Supabase
// Postgres `profile` table: point lookup by email, implicit creation on
// first login, and the atomic conditional debit that closes the
// check-then-write race between concurrent requests from the same account.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/teamalpha/flash-ai/internal/core/model"
)

// AccountStore is the interface the workflow and API handlers depend on.
// The production implementation is SupabaseAccounts; tests substitute an
// in-memory fake.
type AccountStore interface {
	// Get performs a point lookup by unique email. Returns
	// model.ErrAccountNotFound when no row exists and
	// model.ErrStoreUnavailable on transport failure.
	Get(ctx context.Context, email string) (*model.Account, error)

	// Ensure creates the profile row with a zero balance if it does not
	// already exist. An existing row is never modified.
	Ensure(ctx context.Context, email, password string) error

	// Debit decrements the balance by amount as a single atomic conditional
	// update and returns the remaining balance. Returns
	// model.ErrInsufficientCredits when the balance is below amount.
	Debit(ctx context.Context, email string, amount int64) (int64, error)
}

// DB is the subset of the pgx pool interface the account store needs. It
// exists so tests can drive the store without a live Postgres instance;
// *pgxpool.Pool satisfies it directly.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SupabaseAccounts is the Postgres-backed account store. The Supabase data
// service is plain Postgres underneath, so the adapter talks to it through a
// pgx connection pool rather than going through the REST gateway, which is
// what makes the conditional-update debit possible.
type SupabaseAccounts struct {
	DB           DB     // The connection pool (or a test double).
	ProfileTable string // The configured name of the profile table.
}

// NewSupabaseAccounts constructs the account store adapter.
func NewSupabaseAccounts(db DB, profileTable string) *SupabaseAccounts {
	return &SupabaseAccounts{DB: db, ProfileTable: profileTable}
}

// Get retrieves a single account by its unique email.
func (s *SupabaseAccounts) Get(ctx context.Context, email string) (*model.Account, error) {
	account := &model.Account{}
	query := fmt.Sprintf(QryGetAccount, s.ProfileTable)
	err := s.DB.QueryRow(ctx, query, email).Scan(&account.Email, &account.Credits, &account.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NewWorkflowError(model.KindAccountNotFound, "account does not exist", err)
	}
	if err != nil {
		return nil, model.NewWorkflowError(model.KindStoreUnavailable, "failed to read account", err)
	}
	return account, nil
}

// Ensure inserts the profile row if absent, leaving existing rows untouched.
func (s *SupabaseAccounts) Ensure(ctx context.Context, email, password string) error {
	query := fmt.Sprintf(QryEnsureAccount, s.ProfileTable)
	if _, err := s.DB.Exec(ctx, query, email, password); err != nil {
		return model.NewWorkflowError(model.KindStoreUnavailable, "failed to ensure account", err)
	}
	return nil
}

// Debit applies the conditional decrement. When the predicate matches no row
// the balance was below amount (or the row vanished), which surfaces as
// InsufficientCredits; the caller has already established existence through
// the workflow's initial fetch.
func (s *SupabaseAccounts) Debit(ctx context.Context, email string, amount int64) (int64, error) {
	var remaining int64
	query := fmt.Sprintf(QryDebitAccount, s.ProfileTable)
	err := s.DB.QueryRow(ctx, query, email, amount).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.NewWorkflowError(model.KindInsufficientCredits, "insufficient credits", err)
	}
	if err != nil {
		return 0, model.NewWorkflowError(model.KindStoreUnavailable, "failed to debit account", err)
	}
	return remaining, nil
}

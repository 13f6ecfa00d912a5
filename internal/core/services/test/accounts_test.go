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

// Package services_test contains unit tests for the service layer. This file
// drives the Supabase account store through a scripted database double, so
// the row-to-error mapping is verified without a live Postgres instance.
package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamalpha/flash-ai/internal/core/model"
	"github.com/teamalpha/flash-ai/internal/core/services"
)

// scriptedRow implements pgx.Row with either a fixed error or a fixed set of
// column values.
type scriptedRow struct {
	err    error
	values []any
}

func (r *scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scripted row has %d values, caller wants %d", len(r.values), len(dest))
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int64:
			*d = v.(int64)
		default:
			return fmt.Errorf("unsupported scan destination %T", dest[i])
		}
	}
	return nil
}

// scriptedDB implements the services.DB subset, returning the scripted row
// for queries and the scripted error for executions. The last statement is
// recorded so tests can assert on the SQL that was issued.
type scriptedDB struct {
	row     *scriptedRow
	execErr error
	lastSQL string
}

func (db *scriptedDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	db.lastSQL = sql
	return db.row
}

func (db *scriptedDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	db.lastSQL = sql
	return pgconn.NewCommandTag("INSERT 0 1"), db.execErr
}

// TestGetReturnsAccount verifies the happy-path row mapping.
func TestGetReturnsAccount(t *testing.T) {
	db := &scriptedDB{row: &scriptedRow{values: []any{"user@example.com", int64(40), "hunter2"}}}
	store := services.NewSupabaseAccounts(db, "profile")

	account, err := store.Get(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", account.Email)
	assert.Equal(t, int64(40), account.Credits)
	assert.Equal(t, "hunter2", account.Password)
	assert.Contains(t, db.lastSQL, "from profile")
}

// TestGetMapsNoRowsToAccountNotFound verifies that a missing row surfaces as
// the account-not-found kind rather than a raw driver error.
func TestGetMapsNoRowsToAccountNotFound(t *testing.T) {
	db := &scriptedDB{row: &scriptedRow{err: pgx.ErrNoRows}}
	store := services.NewSupabaseAccounts(db, "profile")

	_, err := store.Get(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

// TestGetMapsTransportFailureToStoreUnavailable verifies that any other
// query failure is classified as a store outage.
func TestGetMapsTransportFailureToStoreUnavailable(t *testing.T) {
	db := &scriptedDB{row: &scriptedRow{err: errors.New("connection refused")}}
	store := services.NewSupabaseAccounts(db, "profile")

	_, err := store.Get(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

// TestDebitReturnsRemainingBalance verifies the conditional update's
// returning clause feeds the remaining balance back to the caller.
func TestDebitReturnsRemainingBalance(t *testing.T) {
	db := &scriptedDB{row: &scriptedRow{values: []any{int64(5)}}}
	store := services.NewSupabaseAccounts(db, "profile")

	remaining, err := store.Debit(context.Background(), "user@example.com", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining)
	assert.Contains(t, db.lastSQL, "credits >= $2")
	assert.Contains(t, db.lastSQL, "returning credits")
}

// TestDebitMapsNoRowsToInsufficientCredits verifies the heart of the
// overspend protection: when the conditional update matches no row, the
// debit reports insufficient credits instead of silently succeeding.
func TestDebitMapsNoRowsToInsufficientCredits(t *testing.T) {
	db := &scriptedDB{row: &scriptedRow{err: pgx.ErrNoRows}}
	store := services.NewSupabaseAccounts(db, "profile")

	_, err := store.Debit(context.Background(), "user@example.com", 10)
	assert.ErrorIs(t, err, model.ErrInsufficientCredits)
}

// TestEnsureMapsFailureToStoreUnavailable verifies the implicit-creation
// insert reports a store outage when the execution fails.
func TestEnsureMapsFailureToStoreUnavailable(t *testing.T) {
	db := &scriptedDB{execErr: errors.New("connection refused")}
	store := services.NewSupabaseAccounts(db, "profile")

	err := store.Ensure(context.Background(), "user@example.com", "hunter2")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.Contains(t, db.lastSQL, "on conflict (email) do nothing")
}

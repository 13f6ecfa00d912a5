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
// sources. This file holds the SQL statements used by the account store,
// kept together as constants so the queries are reviewable in one place.
// Each statement takes the table name as a format argument because the
// profile table name is configurable.
package services

const (
	// QryGetAccount performs the point lookup by unique email.
	QryGetAccount = `select email, credits, password from %s where email = $1`

	// QryEnsureAccount implicitly creates a profile row on first login with a
	// zero balance. An existing row is left untouched.
	QryEnsureAccount = `insert into %s (email, password, credits) values ($1, $2, 0) on conflict (email) do nothing`

	// QryDebitAccount applies the check-and-debit as a single conditional
	// update. The `credits >= $2` predicate makes the operation atomic: two
	// concurrent debits can never jointly overdraw the balance, because the
	// second one matches zero rows.
	QryDebitAccount = `update %s set credits = credits - $2 where email = $1 and credits >= $2 returning credits`
)

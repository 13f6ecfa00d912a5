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

// Package model defines the core data structures for the application.
package model

import "crypto/subtle"

// Account is a row in the Supabase `profile` table. It is the only persistent
// entity this service touches: accounts are created out-of-band (or implicitly
// on first login with a zero balance) and only the credit balance is ever
// mutated here, by the workflow's debit step.
type Account struct {
	Email    string `json:"email"`   // Unique account identifier.
	Credits  int64  `json:"credits"` // Pre-paid usage quota; never negative.
	Password string `json:"-"`       // Opaque stored credential, compared verbatim at login. Never serialized.
}

// VerifyPassword reports whether the supplied credential matches the stored
// one. An account with no stored credential never verifies. The comparison is
// constant time so a mismatch takes as long as a match.
func (a *Account) VerifyPassword(supplied string) bool {
	if a.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.Password), []byte(supplied)) == 1
}

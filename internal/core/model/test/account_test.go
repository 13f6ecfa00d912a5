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

// Package model_test contains unit tests for the data models defined in the
// model package. This file tests account credential verification.
package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teamalpha/flash-ai/internal/core/model"
)

func TestVerifyPassword(t *testing.T) {
	account := &model.Account{Email: "user@example.com", Password: "s3cret"}

	assert.True(t, account.VerifyPassword("s3cret"))
	assert.False(t, account.VerifyPassword("S3CRET"))
	assert.False(t, account.VerifyPassword(""))
	assert.False(t, account.VerifyPassword("s3cret "))
}

func TestVerifyPasswordEmptyStored(t *testing.T) {
	// An account with no stored credential never verifies, not even against
	// an empty supplied password.
	account := &model.Account{Email: "user@example.com"}
	assert.False(t, account.VerifyPassword(""))
}

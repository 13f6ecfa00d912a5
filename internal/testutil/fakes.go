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

package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/teamalpha/flash-ai/internal/core/model"
)

// FakeAccounts is an in-memory account store. Balances live under a mutex
// and Debit applies the same conditional check the SQL version does, so
// concurrency tests exercise the real overspend protection semantics.
type FakeAccounts struct {
	mu       sync.Mutex
	accounts map[string]*model.Account

	// GetErr, when set, is returned by every Get call.
	GetErr error
	// DebitErr, when set, is returned by every Debit call.
	DebitErr error
}

// NewFakeAccounts builds the store, optionally seeded with accounts.
func NewFakeAccounts(seed ...*model.Account) *FakeAccounts {
	f := &FakeAccounts{accounts: make(map[string]*model.Account)}
	for _, a := range seed {
		copied := *a
		f.accounts[a.Email] = &copied
	}
	return f
}

// Get returns a copy of the stored account.
func (f *FakeAccounts) Get(_ context.Context, email string) (*model.Account, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[email]
	if !ok {
		return nil, model.NewWorkflowError(model.KindAccountNotFound, "account does not exist", nil)
	}
	copied := *account
	return &copied, nil
}

// Ensure creates the account with a zero balance if absent.
func (f *FakeAccounts) Ensure(_ context.Context, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[email]; !ok {
		f.accounts[email] = &model.Account{Email: email, Password: password}
	}
	return nil
}

// Debit applies the conditional decrement under the lock, mirroring the
// atomic SQL update.
func (f *FakeAccounts) Debit(_ context.Context, email string, amount int64) (int64, error) {
	if f.DebitErr != nil {
		return 0, f.DebitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[email]
	if !ok || account.Credits < amount {
		return 0, model.NewWorkflowError(model.KindInsufficientCredits, "insufficient credits", nil)
	}
	account.Credits -= amount
	return account.Credits, nil
}

// Balance reads the current balance directly, for assertions.
func (f *FakeAccounts) Balance(email string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[email]; ok {
		return account.Credits
	}
	return 0
}

// FakeBackend is a scripted analysis backend. Each upload produces a handle
// whose subsequent Poll calls walk the configured state sequence; Generate
// returns the canned text. Every interaction is recorded for assertions.
type FakeBackend struct {
	mu sync.Mutex

	// StateScript is the sequence of states Poll reports after the initial
	// Processing state from Upload. Defaults to a single Succeeded.
	StateScript []model.JobState
	// GenerateText is the canned analysis text.
	GenerateText string
	// UploadErr, when set, fails Upload.
	UploadErr error
	// GenerateErr, when set, fails Generate.
	GenerateErr error

	uploads   []string // Local paths passed to Upload.
	released  []string // Handle names passed to Release.
	generated int      // Number of Generate calls.
	polls     int      // Number of Poll calls, also the script cursor.
	counter   int
}

// NewFakeBackend builds a backend whose jobs succeed immediately.
func NewFakeBackend(text string) *FakeBackend {
	return &FakeBackend{
		StateScript:  []model.JobState{model.JobStateSucceeded},
		GenerateText: text,
	}
}

// Upload records the path and returns a handle in the Processing state.
func (f *FakeBackend) Upload(_ context.Context, path, displayName, mimeType string) (*model.JobHandle, error) {
	if f.UploadErr != nil {
		return nil, f.UploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	f.uploads = append(f.uploads, path)
	return &model.JobHandle{
		Name:     fmt.Sprintf("files/fake-%d", f.counter),
		URI:      fmt.Sprintf("https://fake.example/files/fake-%d", f.counter),
		MIMEType: mimeType,
		State:    model.JobStateProcessing,
	}, nil
}

// Poll reports the next scripted state. Once the script is exhausted the
// last state repeats, so a terminal state stays terminal.
func (f *FakeBackend) Poll(_ context.Context, name string) (*model.JobHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := model.JobStateProcessing
	if len(f.StateScript) > 0 {
		idx := f.polls
		if idx >= len(f.StateScript) {
			idx = len(f.StateScript) - 1
		}
		state = f.StateScript[idx]
	}
	f.polls++
	return &model.JobHandle{Name: name, URI: "https://fake.example/" + name, State: state}, nil
}

// Generate returns the canned text.
func (f *FakeBackend) Generate(_ context.Context, _ *model.JobHandle, _ string, _ float32) (string, error) {
	f.mu.Lock()
	f.generated++
	f.mu.Unlock()
	if f.GenerateErr != nil {
		return "", f.GenerateErr
	}
	return f.GenerateText, nil
}

// Release records the released handle name. Like the real client it fails
// when the passed context is already dead, so cleanup paths are exercised
// with realistic cancellation behavior.
func (f *FakeBackend) Release(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, name)
	return nil
}

// Uploads returns the recorded upload paths.
func (f *FakeBackend) Uploads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

// Released returns the recorded released handle names.
func (f *FakeBackend) Released() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.released...)
}

// Polls returns how many times Poll was called.
func (f *FakeBackend) Polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

// Generations returns how many times Generate was called.
func (f *FakeBackend) Generations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generated
}

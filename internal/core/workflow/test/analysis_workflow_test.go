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

// Package workflow_test contains end-to-end tests for the credit-gated video
// analysis workflow. This file exercises the full pipeline over the fakes:
// the billing contract, the media validation gate, the remote failure paths,
// and the concurrency behavior of the conditional debit.
package workflow_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamalpha/flash-ai/internal/core/model"
	"github.com/teamalpha/flash-ai/internal/testutil"
)

// TestAnalysisSuccessDebitsOnce verifies the happy path: the analysis text
// comes back, the account is charged exactly the analysis cost, the remote
// artifact is released, and the staged temp file is removed.
func TestAnalysisSuccessDebitsOnce(t *testing.T) {
	accounts := testutil.NewFakeAccounts(&model.Account{Email: "user@example.com", Credits: 15})
	backend := testutil.NewFakeBackend("A detailed report of the video.")
	wf := newWorkflow(t, accounts, backend)

	outcome, err := wf.Run(ctx, uploadRequest("user@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "A detailed report of the video.", outcome.Result.Text)
	assert.Equal(t, int64(5), outcome.RemainingCredits)
	assert.Equal(t, int64(5), accounts.Balance("user@example.com"))

	// The remote artifact was released.
	require.Len(t, backend.Released(), 1)

	// The staged local file is gone.
	require.Len(t, backend.Uploads(), 1)
	_, statErr := os.Stat(backend.Uploads()[0])
	assert.True(t, os.IsNotExist(statErr))
}

// TestInsufficientCreditsFailsBeforeAnyRemoteWork verifies that an account
// below the analysis cost is rejected up front: nothing is uploaded, nothing
// is generated, and the balance does not move.
func TestInsufficientCreditsFailsBeforeAnyRemoteWork(t *testing.T) {
	accounts := testutil.NewFakeAccounts(&model.Account{Email: "user@example.com", Credits: 3})
	backend := testutil.NewFakeBackend("unreachable")
	wf := newWorkflow(t, accounts, backend)

	_, err := wf.Run(ctx, uploadRequest("user@example.com"))
	assert.ErrorIs(t, err, model.ErrInsufficientCredits)
	assert.Empty(t, backend.Uploads())
	assert.Zero(t, backend.Generations())
	assert.Equal(t, int64(3), accounts.Balance("user@example.com"))
}

// TestUnknownAccountFails verifies a request for a missing profile fails
// with the account-not-found kind.
func TestUnknownAccountFails(t *testing.T) {
	accounts := testutil.NewFakeAccounts()
	backend := testutil.NewFakeBackend("unreachable")
	wf := newWorkflow(t, accounts, backend)

	_, err := wf.Run(ctx, uploadRequest("ghost@example.com"))
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
	assert.Empty(t, backend.Uploads())
}

// TestUnsupportedLinkHostFailsBeforeSubmission verifies a link outside the
// allow-list is rejected with a media error before any remote submission,
// and the balance stays untouched.
func TestUnsupportedLinkHostFailsBeforeSubmission(t *testing.T) {
	accounts := testutil.NewFakeAccounts(&model.Account{Email: "user@example.com", Credits: 50})
	backend := testutil.NewFakeBackend("unreachable")
	wf := newWorkflow(t, accounts, backend)

	req := uploadRequest("user@example.com")
	req.Source = model.MediaSource{LinkURL: "https://vimeo.com/123456"}

	_, err := wf.Run(ctx, req)
	assert.ErrorIs(t, err, model.ErrMedia)
	assert.Empty(t, backend.Uploads())
	assert.Equal(t, int64(50), accounts.Balance("user@example.com"))
}

// TestFailedRemoteJobDoesNotCharge verifies a job the remote service cannot
// process surfaces as a remote processing error, the account keeps its
// balance, the remote artifact is still released, and the temp file is gone.
func TestFailedRemoteJobDoesNotCharge(t *testing.T) {
	accounts := testutil.NewFakeAccounts(&model.Account{Email: "user@example.com", Credits: 40})
	backend := testutil.NewFakeBackend("unreachable")
	backend.StateScript = []model.JobState{model.JobStateFailed}
	wf := newWorkflow(t, accounts, backend)

	_, err := wf.Run(ctx, uploadRequest("user@example.com"))
	assert.ErrorIs(t, err, model.ErrRemoteProcessing)
	assert.Equal(t, int64(40), accounts.Balance("user@example.com"))
	assert.Zero(t, backend.Generations())

	require.Len(t, backend.Released(), 1)
	require.Len(t, backend.Uploads(), 1)
	_, statErr := os.Stat(backend.Uploads()[0])
	assert.True(t, os.IsNotExist(statErr))
}

// TestGenerationFailureDoesNotCharge verifies a failed generation call never
// debits the account.
func TestGenerationFailureDoesNotCharge(t *testing.T) {
	accounts := testutil.NewFakeAccounts(&model.Account{Email: "user@example.com", Credits: 40})
	backend := testutil.NewFakeBackend("")
	backend.GenerateErr = assert.AnError
	wf := newWorkflow(t, accounts, backend)

	_, err := wf.Run(ctx, uploadRequest("user@example.com"))
	assert.ErrorIs(t, err, model.ErrGeneration)
	assert.Equal(t, int64(40), accounts.Balance("user@example.com"))
	// The artifact is still released on the failure path.
	assert.Len(t, backend.Released(), 1)
}

// TestRequestValidation verifies the input gate: a request needs exactly one
// media source and supported prompt options.
func TestRequestValidation(t *testing.T) {
	accounts := testutil.NewFakeAccounts(&model.Account{Email: "user@example.com", Credits: 40})
	backend := testutil.NewFakeBackend("unreachable")
	wf := newWorkflow(t, accounts, backend)

	// No source at all.
	req := uploadRequest("user@example.com")
	req.Source = model.MediaSource{}
	_, err := wf.Run(ctx, req)
	assert.ErrorIs(t, err, model.ErrMedia)

	// Unsupported mode.
	req = uploadRequest("user@example.com")
	req.Prompt.Mode = model.AnalysisMode("Sentiment Analysis")
	_, err = wf.Run(ctx, req)
	assert.ErrorIs(t, err, model.ErrMedia)

	// Unsupported language.
	req = uploadRequest("user@example.com")
	req.Prompt.Language = model.Language("Klingon")
	_, err = wf.Run(ctx, req)
	assert.ErrorIs(t, err, model.ErrMedia)

	// Creativity outside the sampling range.
	req = uploadRequest("user@example.com")
	req.Prompt.Creativity = 1.5
	_, err = wf.Run(ctx, req)
	assert.ErrorIs(t, err, model.ErrMedia)

	// Nothing reached the backend or the balance.
	assert.Empty(t, backend.Uploads())
	assert.Equal(t, int64(40), accounts.Balance("user@example.com"))
}

// TestCanceledRequestStillReleasesRemoteArtifact verifies the remote
// artifact is released even when the request context is canceled mid-run.
// The fake's Release fails on a dead context, so a recorded release proves
// the cleanup ran detached from the request's cancellation.
func TestCanceledRequestStillReleasesRemoteArtifact(t *testing.T) {
	accounts := testutil.NewFakeAccounts(&model.Account{Email: "user@example.com", Credits: 40})
	backend := testutil.NewFakeBackend("unreachable")
	backend.StateScript = []model.JobState{model.JobStateProcessing}
	wf := newWorkflow(t, accounts, backend)

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	_, err := wf.Run(canceled, uploadRequest("user@example.com"))
	assert.ErrorIs(t, err, model.ErrAnalysisTimeout)
	assert.Equal(t, int64(40), accounts.Balance("user@example.com"))
	assert.Zero(t, backend.Generations())

	require.Len(t, backend.Uploads(), 1)
	require.Len(t, backend.Released(), 1)
}

// TestPollingStopsAtTerminalState verifies the submit step issues no further
// polls once a terminal state comes back: one Processing poll followed by a
// Succeeded poll means exactly two polls in total.
func TestPollingStopsAtTerminalState(t *testing.T) {
	accounts := testutil.NewFakeAccounts(&model.Account{Email: "user@example.com", Credits: 40})
	backend := testutil.NewFakeBackend("report")
	backend.StateScript = []model.JobState{model.JobStateProcessing, model.JobStateSucceeded}
	wf := newWorkflow(t, accounts, backend)

	_, err := wf.Run(ctx, uploadRequest("user@example.com"))
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Polls())
}

// TestConcurrentRunsNeverOverdraw verifies the conditional debit under
// contention: ten concurrent runs against a balance worth nine analyses
// produce exactly nine charges and one insufficient-credits failure, and the
// balance never goes negative.
func TestConcurrentRunsNeverOverdraw(t *testing.T) {
	accounts := testutil.NewFakeAccounts(&model.Account{Email: "user@example.com", Credits: 90})
	backend := testutil.NewFakeBackend("report")
	wf := newWorkflow(t, accounts, backend)

	const runs = 10
	var wg sync.WaitGroup
	errs := make([]error, runs)

	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = wf.Run(ctx, uploadRequest("user@example.com"))
		}(i)
	}
	wg.Wait()

	succeeded, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, model.ErrInsufficientCredits):
			insufficient++
		}
	}
	assert.Equal(t, 9, succeeded)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, int64(0), accounts.Balance("user@example.com"))
}

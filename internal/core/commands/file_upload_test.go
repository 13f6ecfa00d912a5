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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamalpha/flash-ai/internal/core/model"
	"github.com/teamalpha/flash-ai/internal/testutil"
)

// TestFileSubmitPollsToSuccess verifies the upload-then-poll loop settles on
// a succeeded handle and stores it in the context.
func TestFileSubmitPollsToSuccess(t *testing.T) {
	backend := testutil.NewFakeBackend("ok")
	backend.StateScript = []model.JobState{model.JobStateProcessing, model.JobStateSucceeded}

	ctx := newTestContext(t)
	ctx.Add(GetLocalMediaParamName(), &model.LocalMedia{Path: "/tmp/clip.mp4", MIMEType: "video/mp4"})

	cmd := NewFileSubmit("submit-video", backend, time.Millisecond, time.Second)
	cmd.Execute(ctx)

	require.False(t, ctx.HasErrors())
	handle, ok := ctx.Get(GetJobHandleParamName()).(*model.JobHandle)
	require.True(t, ok)
	assert.Equal(t, model.JobStateSucceeded, handle.State)
	assert.Equal(t, []string{"/tmp/clip.mp4"}, backend.Uploads())
}

// TestFileSubmitFailedJobIsRemoteProcessingError verifies a job that lands
// in the failed state surfaces as a remote processing error, with the handle
// still available for release.
func TestFileSubmitFailedJobIsRemoteProcessingError(t *testing.T) {
	backend := testutil.NewFakeBackend("ok")
	backend.StateScript = []model.JobState{model.JobStateFailed}

	ctx := newTestContext(t)
	ctx.Add(GetLocalMediaParamName(), &model.LocalMedia{Path: "/tmp/clip.mp4", MIMEType: "video/mp4"})

	cmd := NewFileSubmit("submit-video", backend, time.Millisecond, time.Second)
	cmd.Execute(ctx)

	require.True(t, ctx.HasErrors())
	assert.ErrorIs(t, ctx.GetErrors()["submit-video"], model.ErrRemoteProcessing)
	assert.NotNil(t, ctx.Get(GetJobHandleParamName()))
}

// TestFileSubmitDeadlineExpiry verifies a job that never leaves the
// processing state fails with the timeout kind once the wall-clock deadline
// passes, instead of polling forever.
func TestFileSubmitDeadlineExpiry(t *testing.T) {
	backend := testutil.NewFakeBackend("ok")
	backend.StateScript = []model.JobState{model.JobStateProcessing}

	ctx := newTestContext(t)
	ctx.Add(GetLocalMediaParamName(), &model.LocalMedia{Path: "/tmp/clip.mp4", MIMEType: "video/mp4"})

	cmd := NewFileSubmit("submit-video", backend, time.Millisecond, 25*time.Millisecond)
	cmd.Execute(ctx)

	require.True(t, ctx.HasErrors())
	assert.ErrorIs(t, ctx.GetErrors()["submit-video"], model.ErrAnalysisTimeout)
	// The handle from the upload must survive for the cleanup step.
	assert.NotNil(t, ctx.Get(GetJobHandleParamName()))
}

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
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/teamalpha/flash-ai/internal/core/cor"
	"github.com/teamalpha/flash-ai/internal/core/model"
	"github.com/teamalpha/flash-ai/internal/core/services"
)

// FileSubmit uploads the staged local video to the analysis backend and polls
// the resulting job until it reaches a terminal state. The handle is stored in
// the workflow context as soon as the upload returns, before the first poll,
// so the cleanup step can release the remote copy even when polling fails.
//
// Polling is bounded two ways: each wait honors the request context, and the
// loop as a whole carries a wall-clock deadline. A job still processing at the
// deadline fails the run with a timeout error rather than spinning forever.
type FileSubmit struct {
	cor.BaseCommand
	backend      services.AnalysisBackend
	pollInterval time.Duration // Delay between state polls.
	pollDeadline time.Duration // Wall-clock ceiling for the whole poll loop.
}

// NewFileSubmit is the constructor for the FileSubmit command.
func NewFileSubmit(name string, backend services.AnalysisBackend, pollInterval, pollDeadline time.Duration) *FileSubmit {
	return &FileSubmit{
		BaseCommand:  *cor.NewBaseCommand(name),
		backend:      backend,
		pollInterval: pollInterval,
		pollDeadline: pollDeadline,
	}
}

// IsExecutable requires staged local media in the context.
func (f *FileSubmit) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(GetLocalMediaParamName()) != nil
}

// Execute uploads the video and waits for the remote job to settle.
func (f *FileSubmit) Execute(context cor.Context) {
	media := context.Get(GetLocalMediaParamName()).(*model.LocalMedia)

	handle, err := f.backend.Upload(
		context.GetContext(), media.Path, filepath.Base(media.Path), media.MIMEType)
	if err != nil {
		f.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(f.GetName(), model.NewWorkflowError(
			model.KindRemoteProcessing, "failed to submit video for analysis", err))
		return
	}
	// Published before the first poll so cleanup can always release it.
	context.Add(GetJobHandleParamName(), handle)

	slog.InfoContext(context.GetContext(), "submitted video for analysis",
		"job", handle.Name, "state", handle.State.String())

	deadline := time.Now().Add(f.pollDeadline)
	for !handle.State.Terminal() {
		if time.Now().After(deadline) {
			f.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(f.GetName(), model.NewWorkflowError(
				model.KindAnalysisTimeout,
				fmt.Sprintf("video processing did not finish within %s", f.pollDeadline), nil))
			return
		}
		select {
		case <-context.GetContext().Done():
			f.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(f.GetName(), model.NewWorkflowError(
				model.KindAnalysisTimeout, "video processing was canceled", context.GetContext().Err()))
			return
		case <-time.After(f.pollInterval):
		}

		handle, err = f.backend.Poll(context.GetContext(), handle.Name)
		if err != nil {
			f.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(f.GetName(), model.NewWorkflowError(
				model.KindRemoteProcessing, "failed to poll video processing state", err))
			return
		}
		context.Add(GetJobHandleParamName(), handle)
	}

	if handle.State == model.JobStateFailed {
		f.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(f.GetName(), model.NewWorkflowError(
			model.KindRemoteProcessing, "the service could not process this video", nil))
		return
	}

	f.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(f.GetOutputParam(), handle)
}

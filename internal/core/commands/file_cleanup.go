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
	"github.com/teamalpha/flash-ai/internal/core/model"
	"github.com/teamalpha/flash-ai/internal/core/services"
)

// RemoteCleanup releases the remote video artifact, if one exists. The
// workflow runs it on every exit path, so a release failure is logged but
// never turns a completed run into a failed one.
type RemoteCleanup struct {
	cor.BaseCommand
	backend services.AnalysisBackend
}

// NewRemoteCleanup is the constructor for the RemoteCleanup command.
func NewRemoteCleanup(name string, backend services.AnalysisBackend) *RemoteCleanup {
	return &RemoteCleanup{BaseCommand: *cor.NewBaseCommand(name), backend: backend}
}

// IsExecutable is always true; whether there is anything to release is
// decided inside Execute so the command is safe on every exit path.
func (r *RemoteCleanup) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil
}

// Execute deletes the remote artifact when a handle was recorded.
func (r *RemoteCleanup) Execute(context cor.Context) {
	handle, ok := context.Get(GetJobHandleParamName()).(*model.JobHandle)
	if !ok || handle == nil || handle.Name == "" {
		r.GetSuccessCounter().Add(context.GetContext(), 1)
		return
	}

	if err := r.backend.Release(context.GetContext(), handle.Name); err != nil {
		r.GetErrorCounter().Add(context.GetContext(), 1)
		slog.WarnContext(context.GetContext(), "failed to release remote video artifact",
			"job", handle.Name, "error", err)
		return
	}

	context.Remove(GetJobHandleParamName())
	r.GetSuccessCounter().Add(context.GetContext(), 1)
	slog.InfoContext(context.GetContext(), "released remote video artifact", "job", handle.Name)
}

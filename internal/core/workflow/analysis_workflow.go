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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the credit-gated video analysis workflow.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/teamalpha/flash-ai/internal/cloud"
	"github.com/teamalpha/flash-ai/internal/core/commands"
	"github.com/teamalpha/flash-ai/internal/core/cor"
	"github.com/teamalpha/flash-ai/internal/core/model"
	"github.com/teamalpha/flash-ai/internal/core/services"
)

// releaseTimeout bounds the remote artifact release that runs after the
// request context is no longer usable.
const releaseTimeout = 30 * time.Second

// VideoAnalysisWorkflow orchestrates one credit-gated analysis run. It is
// structured as a Chain of Responsibility (cor.Chain) whose steps gate the
// account balance, acquire the video locally, submit it to the analysis
// backend, generate the report, and charge the account.
//
// The source acquisition steps are both in the chain and self-select on the
// context: the upload stager runs when the request carries a byte stream, the
// link downloader when it carries a URL. Remote and local cleanup run on
// every exit path, outside the failure-sensitive chain.
//
// The ordering carries the billing contract: the debit step is last, so a
// failure anywhere earlier leaves the balance untouched, and a delivered
// result is always matched by exactly one charge.
type VideoAnalysisWorkflow struct {
	cor.BaseCommand
	accounts services.AccountStore
	backend  services.AnalysisBackend
	config   *cloud.Config
	chain    cor.Chain    // The underlying chain of commands to be executed.
	cleanup  cor.Command  // Remote artifact release, run unconditionally.
}

// AnalysisOutcome is the successful result of one workflow run.
type AnalysisOutcome struct {
	Result           *model.AnalysisResult
	RemainingCredits int64
}

// NewVideoAnalysisWorkflow is the constructor for the VideoAnalysisWorkflow.
// It wires the commands from configuration and compiles the prompt template;
// a malformed template is the only construction failure.
func NewVideoAnalysisWorkflow(
	config *cloud.Config,
	accounts services.AccountStore,
	backend services.AnalysisBackend) (*VideoAnalysisWorkflow, error) {

	w := &VideoAnalysisWorkflow{
		BaseCommand: *cor.NewBaseCommand("video-analysis-pipeline"),
		accounts:    accounts,
		backend:     backend,
		config:      config,
	}
	if err := w.initializeChain(); err != nil {
		return nil, err
	}
	return w, nil
}

// initializeChain builds the sequence of commands that make up this workflow.
func (w *VideoAnalysisWorkflow) initializeChain() error {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Re-read the account and reject runs the balance cannot cover,
	// before any media or remote work happens.
	out.AddCommand(commands.NewCreditGuard(
		"credit-guard", w.accounts, w.config.Credits.AnalysisCost))

	// Step 2a: Stage a client-uploaded stream to a temporary local file.
	// Runs only when the request carries an upload stream.
	out.AddCommand(commands.NewUploadStage(
		"stage-uploaded-video", w.config.Media.MaxUploadBytes))

	// Step 2b: Download a share-link video with yt-dlp. Runs only when the
	// request carries a link.
	out.AddCommand(commands.NewLinkDownload(
		"download-linked-video",
		w.config.Downloader.CommandPath,
		w.config.Downloader.Format,
		w.config.Downloader.Quiet,
		w.config.Media.AllowedLinkHosts))

	// Step 3: Upload the local file to the analysis backend and poll the job
	// to a terminal state within the configured deadline.
	out.AddCommand(commands.NewFileSubmit(
		"submit-video",
		w.backend,
		time.Duration(w.config.Analysis.PollIntervalSeconds)*time.Second,
		time.Duration(w.config.Analysis.PollDeadlineSeconds)*time.Second))

	// Step 4: Render the instruction and generate the analysis text.
	generator, err := commands.NewAnalysisGenerator(
		"generate-analysis", w.backend, w.config.PromptTemplates.AnalysisPrompt)
	if err != nil {
		return err
	}
	out.AddCommand(generator)

	// Step 5: Conditionally charge the account, only once a result exists.
	out.AddCommand(commands.NewCreditDebit(
		"debit-credits", w.accounts, w.config.Credits.AnalysisCost))

	w.chain = out
	w.cleanup = commands.NewRemoteCleanup("release-remote-video", w.backend)
	return nil
}

// Execute runs the underlying chain. Most callers should use Run, which also
// handles request validation, cleanup, and error mapping.
func (w *VideoAnalysisWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run executes one analysis request end to end and maps the chain outcome to
// a typed result or error. Both remote and local artifacts are released on
// every exit path.
func (w *VideoAnalysisWorkflow) Run(ctx context.Context, req *model.AnalysisRequest) (*AnalysisOutcome, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	corCtx := cor.NewBaseContext()
	corCtx.SetContext(ctx)
	defer corCtx.Close()
	defer func() {
		// The request context may already be canceled or expired by the time
		// cleanup runs. The release still has to reach the backend, so it runs
		// detached from the request's cancellation, under its own deadline.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		corCtx.SetContext(releaseCtx)
		w.cleanup.Execute(corCtx)
	}()

	corCtx.Add(commands.GetAccountEmailParamName(), req.AccountEmail)
	corCtx.Add(commands.GetPromptParamName(), &req.Prompt)
	if req.Source.Upload != nil {
		corCtx.Add(commands.GetUploadStreamParamName(), req.Source.Upload)
	} else {
		corCtx.Add(commands.GetSourceURLParamName(), req.Source.LinkURL)
	}

	w.chain.Execute(corCtx)

	if corCtx.HasErrors() {
		return nil, firstWorkflowError(corCtx.GetErrors())
	}

	result, ok := corCtx.Get(commands.GetResultParamName()).(*model.AnalysisResult)
	if !ok {
		return nil, model.NewWorkflowError(
			model.KindGeneration, "the workflow completed without a result", nil)
	}
	remaining, _ := corCtx.Get(commands.GetRemainingCreditsParamName()).(int64)

	return &AnalysisOutcome{Result: result, RemainingCredits: remaining}, nil
}

// validateRequest enforces the request surface: a known account email,
// exactly one media source, supported prompt options, and a creativity value
// inside the sampling range.
func validateRequest(req *model.AnalysisRequest) error {
	if req == nil || req.AccountEmail == "" {
		return model.NewWorkflowError(model.KindAccountNotFound, "missing account email", nil)
	}
	hasUpload := req.Source.Upload != nil
	hasLink := req.Source.LinkURL != ""
	if hasUpload == hasLink {
		return model.NewWorkflowError(
			model.KindMedia, "provide either an uploaded video or a video link", nil)
	}
	if !req.Prompt.Mode.Valid() {
		return model.NewWorkflowError(model.KindMedia, "unsupported analysis mode", nil)
	}
	if !req.Prompt.Language.Valid() {
		return model.NewWorkflowError(model.KindMedia, "unsupported response language", nil)
	}
	if req.Prompt.Creativity < 0 || req.Prompt.Creativity > 1 {
		return model.NewWorkflowError(model.KindMedia, "creativity must be between 0 and 1", nil)
	}
	return nil
}

// firstWorkflowError picks a typed workflow error from the chain's collected
// errors, preferring typed errors over raw ones so the HTTP layer can map
// status codes reliably.
func firstWorkflowError(collected map[string]error) error {
	var fallback error
	for _, err := range collected {
		var wfErr *model.WorkflowError
		if errors.As(err, &wfErr) {
			return wfErr
		}
		if fallback == nil {
			fallback = err
		}
	}
	if fallback == nil {
		return model.NewWorkflowError(model.KindGeneration, "the analysis failed", nil)
	}
	return model.NewWorkflowError(model.KindGeneration, "the analysis failed", fallback)
}

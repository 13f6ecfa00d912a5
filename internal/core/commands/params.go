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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface for the credit-gated
// analysis workflow. This file defines the canonical context keys the
// commands use to share state, exposed as functions so every command reads
// and writes the same well-known slots.
package commands

// GetAccountParamName returns the key holding the *model.Account fetched by
// the credit guard.
func GetAccountParamName() string { return "__ACCOUNT__" }

// GetAccountEmailParamName returns the key holding the requesting account's
// email address.
func GetAccountEmailParamName() string { return "__ACCOUNT_EMAIL__" }

// GetUploadStreamParamName returns the key holding the uploaded video's
// io.Reader.
func GetUploadStreamParamName() string { return "__UPLOAD_STREAM__" }

// GetSourceURLParamName returns the key holding the remote video link.
func GetSourceURLParamName() string { return "__SOURCE_URL__" }

// GetLocalMediaParamName returns the key holding the *model.LocalMedia
// produced by media acquisition.
func GetLocalMediaParamName() string { return "__LOCAL_MEDIA__" }

// GetJobHandleParamName returns the key holding the *model.JobHandle of the
// remote analysis job. The handle is stored as soon as the upload returns so
// the workflow's cleanup can release the remote artifact even when a later
// step fails.
func GetJobHandleParamName() string { return "__JOB_HANDLE__" }

// GetPromptParamName returns the key holding the model.PromptParameters of
// the request.
func GetPromptParamName() string { return "__PROMPT_PARAMS__" }

// GetResultParamName returns the key holding the final
// *model.AnalysisResult.
func GetResultParamName() string { return "__ANALYSIS_RESULT__" }

// GetRemainingCreditsParamName returns the key holding the balance left
// after the debit step.
func GetRemainingCreditsParamName() string { return "__REMAINING_CREDITS__" }

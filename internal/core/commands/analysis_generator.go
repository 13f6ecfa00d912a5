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
	"strings"
	"text/template"

	"github.com/teamalpha/flash-ai/internal/core/cor"
	"github.com/teamalpha/flash-ai/internal/core/model"
	"github.com/teamalpha/flash-ai/internal/core/services"
)

// AnalysisGenerator renders the analysis instruction from the configured
// prompt template and runs the generation call against the processed video.
// The instruction carries the analysis mode, the output language, and any
// custom focus the caller supplied. Creativity is forwarded as the sampling
// temperature.
type AnalysisGenerator struct {
	cor.BaseCommand
	backend  services.AnalysisBackend
	template *template.Template
}

// promptData is the value set rendered into the prompt template.
type promptData struct {
	Mode              string
	Language          string
	CustomInstruction string
}

// NewAnalysisGenerator is the constructor for the AnalysisGenerator command.
// The prompt template comes from configuration and is parsed once up front.
func NewAnalysisGenerator(name string, backend services.AnalysisBackend, promptTemplate string) (*AnalysisGenerator, error) {
	tmpl, err := template.New(name).Parse(promptTemplate)
	if err != nil {
		return nil, err
	}
	return &AnalysisGenerator{
		BaseCommand: *cor.NewBaseCommand(name),
		backend:     backend,
		template:    tmpl,
	}, nil
}

// IsExecutable requires a succeeded job handle and the prompt parameters.
func (a *AnalysisGenerator) IsExecutable(context cor.Context) bool {
	if context == nil || context.GetContext() == nil ||
		context.Get(GetPromptParamName()) == nil {
		return false
	}
	handle, ok := context.Get(GetJobHandleParamName()).(*model.JobHandle)
	return ok && handle.State == model.JobStateSucceeded
}

// Execute renders the instruction and produces the analysis text.
func (a *AnalysisGenerator) Execute(context cor.Context) {
	handle := context.Get(GetJobHandleParamName()).(*model.JobHandle)
	prompt := context.Get(GetPromptParamName()).(*model.PromptParameters)

	writer := new(strings.Builder)
	err := a.template.Execute(writer, promptData{
		Mode:              string(prompt.Mode),
		Language:          string(prompt.Language),
		CustomInstruction: prompt.CustomInstruction,
	})
	if err != nil {
		a.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(a.GetName(), model.NewWorkflowError(
			model.KindGeneration, "failed to build the analysis instruction", err))
		return
	}

	text, err := a.backend.Generate(context.GetContext(), handle, writer.String(), prompt.Creativity)
	if err != nil {
		a.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(a.GetName(), model.NewWorkflowError(
			model.KindGeneration, "analysis generation failed", err))
		return
	}
	if strings.TrimSpace(text) == "" {
		a.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(a.GetName(), model.NewWorkflowError(
			model.KindGeneration, "the service returned an empty analysis", nil))
		return
	}

	result := &model.AnalysisResult{Text: text}
	slog.InfoContext(context.GetContext(), "generated analysis",
		"job", handle.Name, "mode", string(prompt.Mode), "chars", len(text))

	a.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetResultParamName(), result)
	context.Add(a.GetOutputParam(), result)
}

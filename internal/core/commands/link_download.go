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
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/teamalpha/flash-ai/internal/core/cor"
	"github.com/teamalpha/flash-ai/internal/core/model"
)

// LinkDownload fetches a video from a supported share link by shelling out to
// the yt-dlp binary. The link host is validated against an allow-list before
// any process is started, so an unsupported URL fails fast with no network
// activity. The downloaded file is registered with the workflow context for
// cleanup and published as local media for the upload step.
type LinkDownload struct {
	cor.BaseCommand
	commandPath  string   // Path to the yt-dlp executable.
	format       string   // Format selector passed to yt-dlp.
	quiet        bool     // Suppress yt-dlp progress output.
	allowedHosts []string // Hostnames (without www/m prefixes) accepted for download.
}

// NewLinkDownload is the constructor for the LinkDownload command.
func NewLinkDownload(name, commandPath, format string, quiet bool, allowedHosts []string) *LinkDownload {
	return &LinkDownload{
		BaseCommand:  *cor.NewBaseCommand(name),
		commandPath:  commandPath,
		format:       format,
		quiet:        quiet,
		allowedHosts: allowedHosts,
	}
}

// IsExecutable requires a source URL in the context.
func (l *LinkDownload) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(GetSourceURLParamName()) != nil
}

// Execute validates the link, downloads the video, and publishes the local
// media descriptor.
func (l *LinkDownload) Execute(context cor.Context) {
	raw := context.Get(GetSourceURLParamName()).(string)

	if err := l.validateLink(raw); err != nil {
		l.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(l.GetName(), err)
		return
	}

	// yt-dlp picks the extension, so the output template keeps %(ext)s and
	// the result is located afterwards by globbing the unique stem.
	stem := uuid.NewString()
	template := filepath.Join(os.TempDir(), stem+".%(ext)s")

	args := []string{"-f", l.format, "-o", template}
	if l.quiet {
		args = append(args, "--quiet")
	}
	args = append(args, raw)

	cmd := exec.CommandContext(context.GetContext(), l.commandPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		l.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(l.GetName(), model.NewWorkflowError(
			model.KindMedia,
			fmt.Sprintf("video download failed: %s", strings.TrimSpace(string(output))), err))
		return
	}

	matches, err := filepath.Glob(filepath.Join(os.TempDir(), stem+".*"))
	if err != nil || len(matches) == 0 {
		l.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(l.GetName(), model.NewWorkflowError(
			model.KindMedia, "video download produced no file", err))
		return
	}
	path := matches[0]
	context.AddTempFile(path)

	mimeType, err := sniffVideoType(path)
	if err != nil {
		l.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(l.GetName(), err)
		return
	}

	media := &model.LocalMedia{Path: path, MIMEType: mimeType}
	slog.InfoContext(context.GetContext(), "downloaded linked video",
		"url", raw, "path", media.Path, "mime_type", media.MIMEType)

	l.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetLocalMediaParamName(), media)
	context.Add(l.GetOutputParam(), media)
}

// validateLink parses the URL and checks its host against the allow-list.
// Common mobile and www prefixes are stripped before comparison so
// "www.youtube.com" and "m.youtube.com" match an allow-list entry of
// "youtube.com".
func (l *LinkDownload) validateLink(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return model.NewWorkflowError(model.KindMedia, "the provided link is not a valid URL", err)
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	for _, allowed := range l.allowedHosts {
		if host == strings.ToLower(allowed) {
			return nil
		}
	}
	return model.NewWorkflowError(model.KindMedia,
		fmt.Sprintf("links from %q are not supported", parsed.Hostname()), nil)
}

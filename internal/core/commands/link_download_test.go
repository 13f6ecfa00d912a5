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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamalpha/flash-ai/internal/core/model"
)

// newYouTubeDownloader builds a downloader with the production allow-list
// and a command path that must never be reached by validation tests.
func newYouTubeDownloader() *LinkDownload {
	return NewLinkDownload("download-linked-video",
		"/nonexistent/yt-dlp", "best[ext=mp4]/best", true,
		[]string{"youtube.com", "youtu.be"})
}

// TestValidateLinkAcceptsAllowedHosts verifies that the allow-list matches
// the bare hosts as well as the common www and mobile prefixes.
func TestValidateLinkAcceptsAllowedHosts(t *testing.T) {
	cmd := newYouTubeDownloader()

	for _, link := range []string{
		"https://youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"http://YouTube.com/watch?v=dQw4w9WgXcQ",
	} {
		assert.NoError(t, cmd.validateLink(link), link)
	}
}

// TestValidateLinkRejectsUnsupportedHosts verifies that links outside the
// allow-list fail with a media error before any download is attempted.
func TestValidateLinkRejectsUnsupportedHosts(t *testing.T) {
	cmd := newYouTubeDownloader()

	for _, link := range []string{
		"https://vimeo.com/123456",
		"https://example.com/video.mp4",
		"https://notyoutube.com/watch?v=abc",
		"https://youtube.com.evil.example/watch?v=abc",
	} {
		err := cmd.validateLink(link)
		require.Error(t, err, link)
		assert.ErrorIs(t, err, model.ErrMedia, link)
	}
}

// TestValidateLinkRejectsMalformedURLs verifies scheme and host checks.
func TestValidateLinkRejectsMalformedURLs(t *testing.T) {
	cmd := newYouTubeDownloader()

	for _, link := range []string{
		"",
		"not a url",
		"ftp://youtube.com/watch?v=abc",
		"youtube.com/watch?v=abc",
	} {
		err := cmd.validateLink(link)
		require.Error(t, err, link)
		assert.ErrorIs(t, err, model.ErrMedia, link)
	}
}

// TestLinkDownloadFailsBeforeExecOnBadHost verifies the execute path records
// the allow-list error without ever invoking the downloader binary. The
// binary path is unresolvable, so reaching it would surface a different
// message than the one asserted here.
func TestLinkDownloadFailsBeforeExecOnBadHost(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Add(GetSourceURLParamName(), "https://vimeo.com/123456")

	cmd := newYouTubeDownloader()
	require.True(t, cmd.IsExecutable(ctx))
	cmd.Execute(ctx)

	require.True(t, ctx.HasErrors())
	err := ctx.GetErrors()["download-linked-video"]
	var wfErr *model.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, model.KindMedia, wfErr.Kind)
	assert.Contains(t, wfErr.Message, "not supported")
	assert.Empty(t, ctx.GetTempFiles())
}

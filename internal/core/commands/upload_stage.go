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
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/teamalpha/flash-ai/internal/core/cor"
	"github.com/teamalpha/flash-ai/internal/core/model"
)

// sniffLen is the number of leading bytes needed for media type detection.
const sniffLen = 261

// UploadStage persists a client-supplied video stream to a temporary file so
// the rest of the pipeline can work with a local path. The file is sniffed by
// magic number, not by client-declared content type, and anything that is not
// a recognizable video is rejected before a single remote byte is sent.
type UploadStage struct {
	cor.BaseCommand
	maxBytes int64 // Upper bound on the staged file size, zero means unlimited.
}

// NewUploadStage is the constructor for the UploadStage command.
func NewUploadStage(name string, maxBytes int64) *UploadStage {
	return &UploadStage{BaseCommand: *cor.NewBaseCommand(name), maxBytes: maxBytes}
}

// IsExecutable requires an upload stream in the context.
func (u *UploadStage) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(GetUploadStreamParamName()) != nil
}

// Execute copies the stream to a temp file, verifies it is a video, and
// publishes the resulting local media descriptor.
func (u *UploadStage) Execute(context cor.Context) {
	stream := context.Get(GetUploadStreamParamName()).(io.Reader)

	out, err := os.CreateTemp("", fmt.Sprintf("upload-%s-*", uuid.NewString()))
	if err != nil {
		u.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(u.GetName(), model.NewWorkflowError(
			model.KindMedia, "failed to stage uploaded video", err))
		return
	}
	// Registered before the copy so a partial write still gets removed.
	context.AddTempFile(out.Name())

	src := stream
	if u.maxBytes > 0 {
		src = io.LimitReader(stream, u.maxBytes+1)
	}
	written, err := io.Copy(out, src)
	closeErr := out.Close()
	if err != nil {
		u.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(u.GetName(), model.NewWorkflowError(
			model.KindMedia, "failed to stage uploaded video", err))
		return
	}
	if closeErr != nil {
		u.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(u.GetName(), model.NewWorkflowError(
			model.KindMedia, "failed to stage uploaded video", closeErr))
		return
	}
	if written == 0 {
		u.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(u.GetName(), model.NewWorkflowError(
			model.KindMedia, "uploaded video is empty", nil))
		return
	}
	if u.maxBytes > 0 && written > u.maxBytes {
		u.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(u.GetName(), model.NewWorkflowError(
			model.KindMedia,
			fmt.Sprintf("uploaded video exceeds the %d byte limit", u.maxBytes), nil))
		return
	}

	mimeType, err := sniffVideoType(out.Name())
	if err != nil {
		u.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(u.GetName(), err)
		return
	}

	media := &model.LocalMedia{Path: out.Name(), MIMEType: mimeType}
	slog.InfoContext(context.GetContext(), "staged uploaded video",
		"path", media.Path, "mime_type", media.MIMEType, "bytes", written)

	u.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetLocalMediaParamName(), media)
	context.Add(u.GetOutputParam(), media)
}

// sniffVideoType reads the leading bytes of the file and returns the detected
// video MIME type, or a media error when the content is not a video.
func sniffVideoType(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", model.NewWorkflowError(model.KindMedia, "failed to read staged video", err)
	}
	defer func() { _ = in.Close() }()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", model.NewWorkflowError(model.KindMedia, "failed to read staged video", err)
	}
	head = head[:n]

	if !filetype.IsVideo(head) {
		return "", model.NewWorkflowError(model.KindMedia, "the provided file is not a supported video", nil)
	}
	kind, err := filetype.Match(head)
	if err != nil {
		return "", model.NewWorkflowError(model.KindMedia, "failed to detect video type", err)
	}
	return kind.MIME.Value, nil
}

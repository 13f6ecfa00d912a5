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

// Package api implements the HTTP surface of the analysis service. This file
// defines the route handlers: login and logout, the account balance read,
// and the analysis submission endpoint that drives the credit-gated
// workflow.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamalpha/flash-ai/internal/core/model"
	"github.com/teamalpha/flash-ai/internal/core/services"
	"github.com/teamalpha/flash-ai/internal/core/workflow"
)

// Handlers bundles the dependencies of the HTTP layer.
type Handlers struct {
	Accounts services.AccountStore
	Workflow *workflow.VideoAnalysisWorkflow
	Sessions *SessionCodec
}

// NewHandlers constructs the HTTP handler set.
func NewHandlers(accounts services.AccountStore, wf *workflow.VideoAnalysisWorkflow, sessions *SessionCodec) *Handlers {
	return &Handlers{Accounts: accounts, Workflow: wf, Sessions: sessions}
}

// Register wires the routes onto the versioned API group. Login is the only
// unauthenticated route; everything else sits behind the session middleware.
func (h *Handlers) Register(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}

	authed := r.Group("", RequireSession(h.Sessions))
	{
		authed.GET("/account", h.Account)
		authed.POST("/analysis", h.Analyze)
	}
}

// loginRequest is the JSON body of the login endpoint.
type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// accountResponse is the JSON shape of the account read and login response.
type accountResponse struct {
	Email   string `json:"email"`
	Credits int64  `json:"credits"`
}

// Login authenticates an email and password pair against the profile table.
// A first-time email gets a profile row with a zero balance, so sign-up and
// sign-in are the same action; returning accounts must present the password
// the row was created with. Success issues the signed session cookie.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	if err := h.Accounts.Ensure(c.Request.Context(), req.Email, req.Password); err != nil {
		writeWorkflowError(c, err)
		return
	}
	account, err := h.Accounts.Get(c.Request.Context(), req.Email)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	if !account.VerifyPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect email or password"})
		return
	}

	setSessionCookie(c, h.Sessions, account.Email)
	c.JSON(http.StatusOK, accountResponse{Email: account.Email, Credits: account.Credits})
}

// Logout expires the session cookie.
func (h *Handlers) Logout(c *gin.Context) {
	clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

// Account returns the current balance. The value is always re-read from the
// store, never taken from the session, so a concurrent debit is visible on
// the next refresh.
func (h *Handlers) Account(c *gin.Context) {
	account, err := h.Accounts.Get(c.Request.Context(), sessionEmail(c))
	if err != nil {
		writeWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, accountResponse{Email: account.Email, Credits: account.Credits})
}

// analysisResponse is the JSON shape of a successful analysis.
type analysisResponse struct {
	Text             string `json:"text"`
	RemainingCredits int64  `json:"remaining_credits"`
}

// Analyze accepts one analysis submission as a multipart form: either a
// "video" file part or a "link" field, plus the prompt options, and runs the
// credit-gated workflow to completion. The response carries the analysis
// text and the balance after the charge.
func (h *Handlers) Analyze(c *gin.Context) {
	req := &model.AnalysisRequest{
		AccountEmail: sessionEmail(c),
		Prompt: model.PromptParameters{
			Mode:              model.AnalysisMode(c.PostForm("mode")),
			Language:          model.Language(c.PostForm("language")),
			CustomInstruction: c.PostForm("custom_instruction"),
		},
	}

	creativityText := c.DefaultPostForm("creativity", "0.7")
	creativity, err := strconv.ParseFloat(creativityText, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creativity must be a number between 0 and 1"})
		return
	}
	req.Prompt.Creativity = float32(creativity)

	if link := c.PostForm("link"); link != "" {
		req.Source.LinkURL = link
	} else if fileHeader, err := c.FormFile("video"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read the uploaded video"})
			return
		}
		defer func() { _ = file.Close() }()
		req.Source.Upload = file
	}

	outcome, err := h.Workflow.Run(c.Request.Context(), req)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysisResponse{
		Text:             outcome.Result.Text,
		RemainingCredits: outcome.RemainingCredits,
	})
}

// writeWorkflowError maps a typed workflow error onto an HTTP status and
// returns its message verbatim, so the client shows the same text the
// workflow produced. Untyped errors fall through as an internal error with a
// generic message.
func writeWorkflowError(c *gin.Context, err error) {
	var wfErr *model.WorkflowError
	if !errors.As(err, &wfErr) {
		slog.ErrorContext(c.Request.Context(), "unexpected analysis failure", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return
	}

	status := http.StatusInternalServerError
	switch wfErr.Kind {
	case model.KindAccountNotFound:
		status = http.StatusUnauthorized
	case model.KindInsufficientCredits:
		status = http.StatusPaymentRequired
	case model.KindMedia:
		status = http.StatusBadRequest
	case model.KindRemoteProcessing, model.KindGeneration:
		status = http.StatusBadGateway
	case model.KindStoreUnavailable:
		status = http.StatusServiceUnavailable
	case model.KindAnalysisTimeout:
		status = http.StatusGatewayTimeout
	}

	slog.WarnContext(c.Request.Context(), "request failed",
		"kind", string(wfErr.Kind), "error", wfErr.Error())
	c.JSON(status, gin.H{"error": wfErr.Message})
}

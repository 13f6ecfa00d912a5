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
// handles the session layer: a stateless, HMAC-signed cookie that carries the
// authenticated account email and an expiry. The server keeps no session
// state; every request re-reads the account from the store, so a session
// cookie never vouches for a balance.
package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "flash_session"

	// sessionTTL bounds how long a login stays valid.
	sessionTTL = 24 * time.Hour

	// emailContextKey is the gin context key the middleware stores the
	// authenticated email under.
	emailContextKey = "account_email"
)

var errInvalidSession = errors.New("invalid session token")

// SessionCodec signs and verifies session tokens with an HMAC keyed by the
// server's cookie secret.
type SessionCodec struct {
	key []byte
}

// NewSessionCodec constructs a codec from the configured secret.
func NewSessionCodec(secret string) *SessionCodec {
	return &SessionCodec{key: []byte(secret)}
}

// Encode produces a token of the form base64(email|expiry).hex(hmac).
func (s *SessionCodec) Encode(email string, expiry time.Time) string {
	payload := fmt.Sprintf("%s|%d", email, expiry.Unix())
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + s.sign(encoded)
}

// Decode verifies the signature and expiry and returns the account email.
func (s *SessionCodec) Decode(token string) (string, error) {
	encoded, signature, found := strings.Cut(token, ".")
	if !found || !hmac.Equal([]byte(s.sign(encoded)), []byte(signature)) {
		return "", errInvalidSession
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", errInvalidSession
	}
	email, expiryText, found := strings.Cut(string(raw), "|")
	if !found || email == "" {
		return "", errInvalidSession
	}
	expiry, err := strconv.ParseInt(expiryText, 10, 64)
	if err != nil || time.Now().Unix() > expiry {
		return "", errInvalidSession
	}
	return email, nil
}

func (s *SessionCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// setSessionCookie issues a fresh session cookie for the account.
func setSessionCookie(c *gin.Context, codec *SessionCodec, email string) {
	token := codec.Encode(email, time.Now().Add(sessionTTL))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(sessionTTL.Seconds()), "/", "", false, true)
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

// RequireSession is the gin middleware guarding authenticated routes. It
// verifies the session cookie and stores the account email in the request
// context; requests without a valid session are rejected.
func RequireSession(codec *SessionCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		email, err := codec.Decode(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			return
		}
		c.Set(emailContextKey, email)
		c.Next()
	}
}

// sessionEmail returns the authenticated email stored by RequireSession.
func sessionEmail(c *gin.Context) string {
	return c.GetString(emailContextKey)
}

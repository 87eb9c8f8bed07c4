// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package snowflake

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"

	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/warehouse"
)

const (
	loginPath    = "/session/v1/login-request"
	logoutPath   = "/session"
	sessionsPath = "/monitoring/sessions"

	clientAppID = "Go"

	// MaxResponseSize caps REST response bodies.
	MaxResponseSize = 32 * 1024 * 1024
)

// sharedHTTPClient pools connections across REST sessions.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// restSession is a logged-in session on the account REST API.
type restSession struct {
	baseURL    string
	httpClient *http.Client
	token      string
	timeout    time.Duration
	log        *zap.Logger
}

type loginRequest struct {
	Data loginData `json:"data"`
}

type loginData struct {
	ClientAppID       string `json:"CLIENT_APP_ID"`
	ClientAppVersion  string `json:"CLIENT_APP_VERSION"`
	AccountName       string `json:"ACCOUNT_NAME"`
	LoginName         string `json:"LOGIN_NAME"`
	Password          string `json:"PASSWORD"`
	ExtAuthnDuoMethod string `json:"EXT_AUTHN_DUO_METHOD,omitempty"`
	Passcode          string `json:"PASSCODE,omitempty"`
}

// envelope is the common shape of every REST response.
type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginResponseData struct {
	Token string `json:"token"`
}

type sessionsResponseData struct {
	Sessions []model.Session `json:"sessions"`
}

// loginREST opens a REST session. Every failure is a *warehouse.ConnectionError.
func loginREST(ctx context.Context, cfg Config, httpClient *http.Client, log *zap.Logger) (*restSession, error) {
	if httpClient == nil {
		httpClient = sharedHTTPClient
	}
	s := &restSession{
		baseURL:    cfg.BaseURL(),
		httpClient: httpClient,
		timeout:    cfg.timeout(),
		log:        log,
	}

	passcode, err := cfg.passcode(time.Now())
	if err != nil {
		return nil, &warehouse.ConnectionError{Op: "login", Err: err}
	}
	body := loginRequest{Data: loginData{
		ClientAppID:      clientAppID,
		ClientAppVersion: gosnowflake.SnowflakeGoDriverVersion,
		AccountName:      cfg.Account,
		LoginName:        cfg.User,
		Password:         cfg.Password,
	}}
	if passcode != "" {
		body.Data.ExtAuthnDuoMethod = "passcode"
		body.Data.Passcode = passcode
	}

	q := url.Values{}
	q.Set("request_id", uuid.NewString())
	if cfg.Role != "" {
		q.Set("roleName", cfg.Role)
	}
	if cfg.Warehouse != "" {
		q.Set("warehouse", cfg.Warehouse)
	}

	env, err := s.do(ctx, http.MethodPost, loginPath, q, body)
	if err != nil {
		return nil, &warehouse.ConnectionError{Op: "login", Err: err}
	}
	if !env.Success {
		return nil, &warehouse.ConnectionError{Op: "login", Err: remoteError(env)}
	}
	var data loginResponseData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return nil, &warehouse.ConnectionError{Op: "login", Err: errors.New("login response carried no session token")}
	}
	s.token = data.Token

	log.Debug("REST session opened", zap.String("account", cfg.Account), zap.String("user", cfg.User))
	return s, nil
}

// sessions lists every active session of the account.
func (s *restSession) sessions(ctx context.Context) ([]model.Session, error) {
	env, err := s.do(ctx, http.MethodGet, sessionsPath, nil, nil)
	if err != nil {
		return nil, &warehouse.ConnectionError{Op: "fetch sessions", Err: err}
	}
	if !env.Success {
		return nil, &warehouse.CallError{Op: "fetch sessions", Err: remoteError(env)}
	}
	var data sessionsResponseData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &warehouse.CallError{Op: "fetch sessions", Err: fmt.Errorf("failed to decode sessions: %w", err)}
	}
	return data.Sessions, nil
}

// close ends the REST session. Failures are logged, not returned; the token
// expires on its own.
func (s *restSession) close() {
	if s.token == "" {
		return
	}
	q := url.Values{}
	q.Set("delete", "true")
	q.Set("request_id", uuid.NewString())
	if _, err := s.do(context.Background(), http.MethodPost, logoutPath, q, nil); err != nil {
		s.log.Debug("REST logout failed", zap.Error(err))
	}
	s.token = ""
}

func (s *restSession) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "icewarden/"+gosnowflake.SnowflakeGoDriverVersion)
	if s.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf(`Snowflake Token="%s"`, s.token))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(raw) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxResponseSize)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &env, nil
}

func remoteError(env *envelope) error {
	if env.Code != "" {
		return fmt.Errorf("snowflake error %s: %s", env.Code, env.Message)
	}
	if env.Message != "" {
		return errors.New(env.Message)
	}
	return errors.New("request was not successful")
}

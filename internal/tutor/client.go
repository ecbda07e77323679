// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the HTTP client for the tutoring service API.
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the tutor client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNoBaseURL
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrNoBaseURL   = &ClientError{Type: ErrTypeNoBaseURL, Message: "tutor service URL is not configured"}
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "tutor service is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the tutor client.
type ClientConfig struct {
	// BaseURL is the tutor service base URL. There is no default;
	// an empty URL makes every call fail with ErrNoBaseURL.
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// StreamTimeout for establishing streaming connections (default: 10s)
	StreamTimeout time.Duration
}

// DefaultConfig returns the default client configuration.
// BaseURL is intentionally empty.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:       30 * time.Second,
		StreamTimeout: 10 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the tutoring service API.
// It provides methods for health checks, streaming queries, and the
// asynchronous video endpoints.
//
// The Client is thread-safe for concurrent use.
//
// Example:
//
//	client := tutor.NewClient(&tutor.ClientConfig{BaseURL: url})
//	if err := client.CheckRunning(ctx); err != nil {
//	    log.Fatal("tutor service not available:", err)
//	}
//	err := client.QueryStream(ctx, question, history, onEvent)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new tutor client.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values; BaseURL stays as given
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.StreamTimeout == 0 {
		config.StreamTimeout = 10 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// endpoint joins the base URL with a path, or fails when unconfigured.
func (c *Client) endpoint(path string) (string, error) {
	if c.config.BaseURL == "" {
		return "", ErrNoBaseURL
	}
	return strings.TrimRight(c.config.BaseURL, "/") + path, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the tutor service is reachable.
func (c *Client) CheckRunning(ctx context.Context) error {
	url, err := c.endpoint("/")
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return &ClientError{
			Type:    ErrTypeServer,
			Message: "unexpected status from tutor service: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// STREAMING QUERY
// =============================================================================

// QueryStream submits a question with conversation history and consumes the
// SSE-style answer stream, calling the callback for each typed record.
// The callback is called synchronously in the order records are received.
// Returns when the stream completes or an error occurs. There are no
// retries; any failure is terminal for the turn.
func (c *Client) QueryStream(ctx context.Context, question string, history []HistoryEntry, callback EventCallback) error {
	url, err := c.endpoint("/query")
	if err != nil {
		return err
	}

	if history == nil {
		history = []HistoryEntry{}
	}
	body, err := json.Marshal(QueryRequest{Question: question, ChatHistory: history})
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	// No overall client timeout for streaming; the body lives as long as
	// the caller's context. StreamTimeout still bounds the handshake so a
	// server that never sends headers cannot hang the turn.
	streamClient := &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: c.config.StreamTimeout,
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ClientError{
			Type:    ErrTypeServer,
			Message: "query request failed: " + resp.Status,
		}
	}

	reader := NewStreamReader(resp.Body)
	return reader.Process(ctx, callback)
}

// =============================================================================
// VIDEO OPERATIONS
// =============================================================================

// GenerateVideo requests an asynchronous video job for the given text.
// Returns the server-assigned job ID to poll with VideoStatus.
func (c *Client) GenerateVideo(ctx context.Context, text string) (string, error) {
	url, err := c.endpoint("/generate-video")
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(GenerateVideoRequest{TextContent: text})
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", ErrUnreachable
	}
	defer resp.Body.Close()

	var result GenerateVideoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error payloads carry a detail field
		if result.Detail != "" {
			return "", &ClientError{Type: ErrTypeServer, Message: result.Detail}
		}
		return "", &ClientError{
			Type:    ErrTypeServer,
			Message: "generate-video request failed: " + resp.Status,
		}
	}

	if result.JobID == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "generate-video response missing job_id"}
	}

	return result.JobID, nil
}

// VideoStatus polls the status of an asynchronous video job.
func (c *Client) VideoStatus(ctx context.Context, jobID string) (*VideoStatusResponse, error) {
	url, err := c.endpoint("/video-status/" + jobID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ClientError{
			Type:    ErrTypeServer,
			Message: "video-status request failed: " + resp.Status,
		}
	}

	var result VideoStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNoBaseURL checks if an error means the service URL is unconfigured.
func IsNoBaseURL(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNoBaseURL
	}
	return errors.Is(err, ErrNoBaseURL)
}

// IsUnreachable checks if an error indicates the service is unreachable.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return errors.Is(err, ErrUnreachable)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Sage"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Streaming state (not persisted)
	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"`

	// Token statistics
	TokenCount int `json:"token_count,omitempty"`

	// Performance metrics (for assistant messages)
	TTFT          time.Duration `json:"ttft_ns,omitempty"`
	TotalDuration time.Duration `json:"total_duration_ns,omitempty"`
	TokensPerSec  float64       `json:"tokens_per_sec,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new streaming assistant message.
// Its content arrives token by token via AppendToken.
func NewAssistantMessage() *Message {
	return &Message{
		ID:          generateID(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendToken appends a token to a streaming message.
func (m *Message) AppendToken(token string) {
	if m.IsStreaming {
		m.streamContent.WriteString(token)
	}
}

// FinalizeStream completes streaming and sets statistics.
func (m *Message) FinalizeStream(stats *Statistics) {
	if !m.IsStreaming {
		return
	}

	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false

	if stats != nil {
		m.TTFT = stats.TTFT
		m.TotalDuration = stats.TotalDuration
		m.TokenCount = stats.CompletionTokens
		m.TokensPerSec = stats.TokensPerSecond
	}
}

// SetContent replaces the message content, ending any in-flight stream.
// Used when the server reports an error mid-stream and the partial
// answer must be overwritten with the error text.
func (m *Message) SetContent(content string) {
	m.streamContent.Reset()
	m.Content = content
	m.IsStreaming = false
}

// GetDisplayContent returns the content to display (streaming or final).
func (m *Message) GetDisplayContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := m.GetDisplayContent()
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// EstimateTokens gives a rough estimate of token count.
// Uses the approximation of ~4 characters per token.
func (m *Message) EstimateTokens() int {
	content := m.GetDisplayContent()
	return (len(content) + 3) / 4
}

// FormatStats returns a formatted string of message statistics.
func (m *Message) FormatStats() string {
	if m.Role != RoleAssistant || m.TotalDuration == 0 {
		return ""
	}

	// Format: "2.5s | 128 tokens | 51.2 tok/s | TTFT 234ms"
	return fmt.Sprintf("%s | %d tokens | %.1f tok/s | TTFT %dms",
		formatDuration(m.TotalDuration), m.TokenCount, m.TokensPerSec, m.TTFT.Milliseconds())
}

// =============================================================================
// STATISTICS TYPE
// =============================================================================

// Statistics holds timing and token count information for a generation.
type Statistics struct {
	// Timestamps
	StartTime      time.Time
	FirstTokenTime time.Time
	EndTime        time.Time

	// Token counts
	CompletionTokens int

	// Derived metrics (computed on Finalize)
	TTFT            time.Duration
	TotalDuration   time.Duration
	TokensPerSecond float64
}

// NewStatistics creates a new Statistics with the start time set.
func NewStatistics() *Statistics {
	return &Statistics{
		StartTime: time.Now(),
	}
}

// RecordFirstToken records when the first token was received.
func (s *Statistics) RecordFirstToken() {
	if s.FirstTokenTime.IsZero() {
		s.FirstTokenTime = time.Now()
		s.TTFT = s.FirstTokenTime.Sub(s.StartTime)
	}
}

// Finalize computes the final statistics.
func (s *Statistics) Finalize(tokenCount int) {
	s.EndTime = time.Now()
	s.CompletionTokens = tokenCount
	s.TotalDuration = s.EndTime.Sub(s.StartTime)

	if s.TotalDuration > 0 {
		s.TokensPerSecond = float64(tokenCount) / s.TotalDuration.Seconds()
	}
}

// Format returns a formatted string of the statistics.
func (s *Statistics) Format() string {
	return fmt.Sprintf("%s | %d tokens | %.1f tok/s | TTFT %dms",
		formatDuration(s.TotalDuration), s.CompletionTokens, s.TokensPerSecond, s.TTFT.Milliseconds())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}

// formatDuration formats a duration as ms below one second, else seconds.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

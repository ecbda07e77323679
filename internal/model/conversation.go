// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jeranaias/sage-tui/internal/tutor"
)

// MaxMessages is the maximum number of messages to keep in conversation history.
// When exceeded, old messages are pruned to prevent unbounded memory growth.
const MaxMessages = 1000

// HistoryWindow is the number of most recent turns sent to the tutor
// service as conversation context with each question.
const HistoryWindow = 6

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and metadata.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []*Message `json:"messages"`

	// Context tracking
	TokensUsed int `json:"tokens_used"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage adds a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTokenEstimate()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and adds a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and adds a streaming assistant message.
func (c *Conversation) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and adds a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil if empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetLastAssistantMessage returns the most recent assistant message.
func (c *Conversation) GetLastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// GetLastUserMessage returns the most recent user message.
func (c *Conversation) GetLastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// AppendToLast appends a token to the last (streaming) message.
func (c *Conversation) AppendToLast(token string) {
	last := c.GetLastMessage()
	if last != nil && last.IsStreaming {
		last.AppendToken(token)
	}
}

// FinalizeLast finalizes the last streaming message with statistics.
func (c *Conversation) FinalizeLast(stats *Statistics) {
	last := c.GetLastMessage()
	if last != nil && last.IsStreaming {
		last.FinalizeStream(stats)
		c.updateTokenEstimate()
	}
}

// ReplaceLast overwrites the last message content, ending any stream.
// Server error records replace the partial answer rather than append to it.
func (c *Conversation) ReplaceLast(content string) {
	last := c.GetLastMessage()
	if last != nil {
		last.SetContent(content)
		c.updateTokenEstimate()
	}
}

// ClearHistory removes all messages from the conversation.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.TokensUsed = 0
	c.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// CONTEXT WINDOW
// =============================================================================

// ContextWindow returns the most recent limit user and assistant
// messages, oldest first. System notices and any still-streaming
// message are excluded; only finalized turns travel with a question.
func (c *Conversation) ContextWindow(limit int) []*Message {
	window := make([]*Message, 0, limit)

	for i := len(c.Messages) - 1; i >= 0 && len(window) < limit; i-- {
		msg := c.Messages[i]
		if msg.Role == RoleSystem || msg.IsStreaming {
			continue
		}
		window = append(window, msg)
	}

	// Collected newest-first, reverse to chronological order
	for i, j := 0, len(window)-1; i < j; i, j = i+1, j-1 {
		window[i], window[j] = window[j], window[i]
	}

	return window
}

// GetHistory returns the message history for display.
func (c *Conversation) GetHistory() []*Message {
	return c.Messages
}

// ToHistory converts the context window to the tutor wire format.
// Empty messages are skipped; the service rejects blank turns.
func (c *Conversation) ToHistory(limit int) []tutor.HistoryEntry {
	window := c.ContextWindow(limit)
	entries := make([]tutor.HistoryEntry, 0, len(window))

	for _, msg := range window {
		content := msg.GetDisplayContent()
		if content == "" {
			continue
		}
		entries = append(entries, tutor.HistoryEntry{
			Text:   content,
			IsUser: msg.Role == RoleUser,
		})
	}

	return entries
}

// =============================================================================
// TOKEN TRACKING
// =============================================================================

// EstimateTokens estimates the total token count of the conversation.
func (c *Conversation) EstimateTokens() int {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens()
		// Overhead for message structure (~4 tokens per message)
		total += 4
	}
	return total
}

// updateTokenEstimate updates the token usage estimate.
func (c *Conversation) updateTokenEstimate() {
	c.TokensUsed = c.EstimateTokens()
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle auto-generates a title from the first user message if not set.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}

	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			c.Title = msg.Preview(50)
			return
		}
	}
}

// SetTitle manually sets the conversation title.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}

// pruneOldMessages drops the oldest user and assistant messages once their
// count exceeds MaxMessages. System notices are always kept and the relative
// order of surviving messages is preserved.
func (c *Conversation) pruneOldMessages() {
	nonSystem := 0
	for _, msg := range c.Messages {
		if msg.Role != RoleSystem {
			nonSystem++
		}
	}

	excess := nonSystem - MaxMessages
	if excess <= 0 {
		return
	}

	kept := make([]*Message, 0, len(c.Messages)-excess)
	for _, msg := range c.Messages {
		if excess > 0 && msg.Role != RoleSystem {
			excess--
			continue
		}
		kept = append(kept, msg)
	}
	c.Messages = kept
}

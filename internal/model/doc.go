// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations, messages, suggestions, and video jobs.
//
// # Key Types
//
//   - Conversation: Container for a chat session with messages and metadata
//   - Message: Single message with role, content, timestamp, and streaming state
//   - Suggestion: Follow-up action chip offered by the tutor
//   - VideoJob: Lifecycle of an asynchronous video generation request
//   - Role: Message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a new conversation and stream an answer into it:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("Why is the sky blue?")
//	conv.AddAssistantMessage()
//	conv.AppendToLast("Because ")
//	conv.AppendToLast("of Rayleigh scattering.")
//	conv.FinalizeLast(nil)
//
// Build the context window sent with the next question:
//
//	history := conv.ContextWindow(model.HistoryWindow)
package model

// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view component for the sage TUI.

The chat package implements a terminal chat interface on the Bubble Tea
framework. It drives a full tutoring turn: the question goes to the tutor
service, the answer streams back token by token, and follow-up suggestion
chips and asynchronous video jobs arrive on the same stream.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model:
  - Conversation history and message management
  - Streaming turn state with one in-flight turn at a time
  - Video job tracking with a status poll loop
  - Handlers for every stream and video message

## Update Runners (update.go)

Background goroutines bridge the tutor client into the Update loop:
  - TurnRunner reads the answer stream and forwards typed records
  - VideoRunner requests video jobs and relays poll updates
  - All events cross goroutines via program.Send

## Input (input.go)

Keyboard handling, turn submission, slash commands (/new, /video, /help,
/quit), and suggestion chip activation.

## Streaming (streaming.go)

StreamingBuffer batches content deltas so rendering happens at a capped
frame rate instead of once per delta.

# Usage

Create a chat model bound to a tutor client and run it:

	client := tutor.NewClient(&tutor.ClientConfig{BaseURL: cfg.API.URL})
	m := chat.NewWithClient(theme, client)
	p := tea.NewProgram(m, tea.WithAltScreen())
	chat.SetProgram(p)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}

SetProgram must be called before the first turn is submitted so the stream
and poll goroutines can deliver messages.
*/
package chat

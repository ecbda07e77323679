// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
	"github.com/jeranaias/sage-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble represents a styled message bubble.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	IsLatest      bool
	ShowTimestamp bool
	ShowStats     bool
	Streaming     bool
	theme         *styles.Theme
}

// NewMessageBubble creates a new MessageBubble.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		return &MessageBubble{
			Message: &model.Message{Role: model.RoleSystem, Content: ""},
			Width:   80,
			theme:   theme,
		}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		ShowStats:     true,
		Streaming:     msg.IsStreaming,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// SetIsLatest marks this as the latest message.
func (b *MessageBubble) SetIsLatest(latest bool) {
	b.IsLatest = latest
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderAssistantBubble()
	case model.RoleSystem:
		return b.renderSystemBubble()
	default:
		return b.renderGenericBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.GetDisplayContent()
	if content == "" {
		content = "..."
	}

	// Margins and padding eat into the usable width.
	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth)

	bubble := bubbleStyle.Render(wrappedContent)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	roleIndicator := roleStyle.Render("you")

	timestamp := ""
	if b.ShowTimestamp {
		timestamp = b.renderTimestamp()
	}

	headerParts := []string{roleIndicator}
	if timestamp != "" {
		headerParts = append(headerParts, timestamp)
	}
	header := strings.Join(headerParts, " ")

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}

	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	headerLine := marginStyle.Render(header)
	bubbleLine := marginStyle.Render(bubble)

	return lipgloss.JoinVertical(lipgloss.Right, headerLine, bubbleLine)
}

// ==========================================================================
// ASSISTANT BUBBLE - Purple tones, left-aligned
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := b.Message.GetDisplayContent()

	// Streaming messages show a blinking cursor at the end.
	if b.Streaming {
		content = content + b.renderStreamingCursor()
	}

	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.AssistantBubbleFg).
		Background(styles.AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.AssistantBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4)

	bubble := bubbleStyle.Render(wrappedContent)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	roleIndicator := roleStyle.Render("sage")

	timestamp := ""
	if b.ShowTimestamp {
		timestamp = b.renderTimestamp()
	}

	headerParts := []string{roleIndicator}
	if timestamp != "" {
		headerParts = append(headerParts, timestamp)
	}
	header := strings.Join(headerParts, " ")

	statsLine := ""
	if b.ShowStats && !b.Streaming && b.Message.TotalDuration > 0 {
		statsLine = b.renderStats()
	}

	result := lipgloss.JoinVertical(lipgloss.Left, header, bubble)
	if statsLine != "" {
		result = lipgloss.JoinVertical(lipgloss.Left, result, statsLine)
	}

	return result
}

// ==========================================================================
// SYSTEM BUBBLE - Amber tones, centered
// ==========================================================================

func (b *MessageBubble) renderSystemBubble() string {
	content := b.Message.GetDisplayContent()
	if content == "" {
		content = "System message"
	}

	maxContentWidth := b.Width - 20
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-16)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.SystemBubbleFg).
		Background(styles.SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.SystemBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Align(lipgloss.Center)

	bubble := bubbleStyle.Render(wrappedContent)

	centerStyle := lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Center)

	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	label := labelStyle.Render("system")

	timestamp := ""
	if b.ShowTimestamp {
		timestamp = b.renderTimestamp()
	}

	header := label
	if timestamp != "" {
		header = label + " " + timestamp
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		centerStyle.Render(header),
		centerStyle.Render(bubble),
	)
}

// ==========================================================================
// GENERIC BUBBLE - Fallback for unknown roles
// ==========================================================================

func (b *MessageBubble) renderGenericBubble() string {
	content := b.Message.GetDisplayContent()
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 10
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	if maxContentWidth > b.Width-2 {
		maxContentWidth = b.Width - 2
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2)

	return bubbleStyle.Render(wrappedContent)
}

// ==========================================================================
// HELPER METHODS
// ==========================================================================

// renderTimestamp renders a dimmed timestamp.
func (b *MessageBubble) renderTimestamp() string {
	timestampStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	ts := b.Message.Timestamp
	if ts.IsZero() {
		return ""
	}

	now := time.Now()
	var formatted string

	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		formatted = ts.Format("3:04 PM")
	} else {
		formatted = ts.Format("Jan 2, 3:04 PM")
	}

	return timestampStyle.Render(formatted)
}

// renderStats renders message statistics.
func (b *MessageBubble) renderStats() string {
	statsStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		PaddingLeft(2)

	stats := b.Message.FormatStats()
	if stats == "" {
		return ""
	}

	return statsStyle.Render(stats)
}

// renderStreamingCursor renders the streaming cursor animation.
func (b *MessageBubble) renderStreamingCursor() string {
	cursorStyle := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Blink(true)

	return cursorStyle.Render("_")
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text to fit within the specified width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for lineIdx, line := range lines {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]

		for _, word := range words[1:] {
			if util.RuneLen(currentLine)+1+util.RuneLen(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}

		result.WriteString(currentLine)
	}

	return result.String()
}

// maxLineWidth returns the width of the longest line in runes.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		lineWidth := util.RuneLen(line)
		if lineWidth > maxWidth {
			maxWidth = lineWidth
		}
	}
	return maxWidth
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a list of message bubbles.
type MessageList struct {
	Messages       []*model.Message
	Width          int
	ShowTimestamps bool
	ShowStats      bool
	theme          *styles.Theme
}

// NewMessageList creates a new MessageList.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Messages:       []*model.Message{},
		Width:          80,
		ShowTimestamps: true,
		ShowStats:      true,
		theme:          theme,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders all messages.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)

		return emptyStyle.Render("No messages yet. Ask sage anything!")
	}

	var bubbles []string

	for i, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.ShowStats = ml.ShowStats
		bubble.SetIsLatest(i == len(ml.Messages)-1)

		bubbles = append(bubbles, bubble.View())
	}

	return strings.Join(bubbles, "\n")
}

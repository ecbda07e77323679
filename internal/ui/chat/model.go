// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sage-tui/internal/config"
	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/tutor"
	"github.com/jeranaias/sage-tui/internal/ui/components"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
	"github.com/jeranaias/sage-tui/internal/video"
)

// =============================================================================
// PROGRAM REFERENCE
// =============================================================================

// programRef holds the running Bubble Tea program so background goroutines
// (the stream reader and the video poll loop) can send messages back into
// the Update loop. Set once from main after the program is constructed.
var programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

// SetProgram registers the running program for background message delivery.
func SetProgram(p *tea.Program) {
	programRef.mu.Lock()
	programRef.p = p
	programRef.mu.Unlock()
}

func program() *tea.Program {
	programRef.mu.Lock()
	defer programRef.mu.Unlock()
	return programRef.p
}

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a streamed answer
	StateError                  // Showing an error
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	conversation *model.Conversation

	// Current streaming turn
	streamingMsgID string

	// Streaming render batching
	streamingBuffer *StreamingBuffer

	// Tutor service
	client    *tutor.Client
	cancelMgr *cancelManager // Pointer to avoid copying mutex during Bubble Tea updates

	// Video job tracking. At most one job is active at a time; a new
	// trigger replaces the previous job.
	poller      *video.Poller
	videoJob    *model.VideoJob
	videoBudget int

	// UI Components
	viewport    viewport.Model
	input       textinput.Model
	spinner     spinner.Model
	header      *components.Header
	statusBar   *components.StatusBar
	suggestions *components.SuggestionBar
	videoCard   *components.VideoCard
	welcome     components.Welcome

	// Key bindings
	keyMap KeyMap

	// Error state
	lastError *ErrorMsg

	// Connection status
	conn components.ConnState

	// Thinking indicator (between submit and first token)
	isThinking    bool
	thinkingStart time.Time

	// Help overlay
	showHelp bool

	// Question submitted automatically on startup, from loose command
	// line words (e.g. `sage what is a magnet`)
	initialQuestion string
}

// New creates a new chat model.
func New(theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask sage anything..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.Duration(),
	}

	interval := 5 * time.Second
	budget := 24
	if cfg := config.Global(); cfg != nil {
		interval = time.Duration(cfg.Video.PollIntervalSecs) * time.Second
		budget = cfg.Video.MaxPollAttempts
	}

	return Model{
		state:           StateReady,
		theme:           theme,
		conversation:    model.NewConversation(),
		streamingBuffer: NewStreamingBuffer(),
		cancelMgr:       newCancelManager(),
		poller:          video.NewPoller(interval, budget),
		videoBudget:     budget,
		viewport:        vp,
		input:           ti,
		spinner:         sp,
		header:          components.NewHeader(theme),
		statusBar:       components.NewStatusBar(theme),
		suggestions:     components.NewSuggestionBar(theme),
		videoCard:       components.NewVideoCard(nil, budget, theme),
		welcome:         components.NewWelcome(theme),
		keyMap:          DefaultKeyMap(),
		conn:            components.ConnUnknown,
	}
}

// NewWithClient creates a new chat model bound to a tutor client.
func NewWithClient(theme *styles.Theme, client *tutor.Client) Model {
	m := New(theme)
	m.client = client
	if client != nil {
		m.header.SetEndpoint(client.BaseURL())
		m.statusBar.SetEndpoint(client.BaseURL())
		m.welcome.SetEndpoint(client.BaseURL())
		if client.BaseURL() == "" {
			m.conn = components.ConnUnconfigured
			m.header.SetConn(m.conn)
			m.statusBar.SetConn(m.conn)
		}
	}
	return m
}

// SetVersion sets the version shown on the welcome screen.
func (m *Model) SetVersion(version string) {
	m.welcome.SetVersion(version)
}

// SetInitialQuestion queues a question to submit as the first turn once
// the program starts.
func (m *Model) SetInitialQuestion(question string) {
	m.initialQuestion = question
}

// Conversation exposes the active conversation, used by the CLI layer for
// export and session handling.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		CheckBackendCmd(m.client),
	}
	if m.initialQuestion != "" {
		question := m.initialQuestion
		cmds = append(cmds, func() tea.Msg {
			return SubmitInputMsg{Content: question}
		})
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		return m.handleStreamStart(msg)

	case StreamTokenMsg:
		return m.handleStreamToken(msg)

	case StreamTickMsg:
		return m.handleStreamTick(msg)

	case SuggestionMsg:
		return m.handleSuggestion(msg)

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)

	case StreamErrorMsg:
		return m.handleStreamError(msg)

	case VideoTriggerMsg:
		return m.handleVideoTrigger(msg)

	case VideoJobStartedMsg:
		return m.handleVideoJobStarted(msg)

	case VideoRequestFailedMsg:
		return m.handleVideoRequestFailed(msg)

	case VideoUpdateMsg:
		return m.handleVideoUpdate(msg)

	case BackendCheckMsg:
		return m, CheckBackendCmd(m.client)

	case BackendStatusMsg:
		return m.handleBackendStatus(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case SubmitInputMsg:
		return m.handleSubmit(msg.Content)

	case NewConversationMsg:
		return m.handleNewConversation()

	case ClearConversationMsg:
		return m.handleNewConversation()

	case SpinnerTickMsg:
		return m.handleSpinnerTick(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ErrorMsg:
		m.lastError = &msg
		m.state = StateError
		m.statusBar.SetStatus(components.StatusError)
		return m, nil

	case ErrorDismissMsg:
		m.lastError = nil
		if m.state == StateError {
			m.state = StateReady
			m.statusBar.SetStatus(components.StatusReady)
		}
		return m, nil
	}

	// Forward everything else to the viewport for scroll handling.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// STREAM HANDLERS
// =============================================================================

func (m Model) handleStreamStart(msg StreamStartMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	m.isThinking = true
	m.thinkingStart = msg.StartTime
	m.statusBar.SetStatus(components.StatusThinking)

	return m, tea.Batch(m.spinner.Tick, streamTickCmd())
}

func (m Model) handleStreamToken(msg StreamTokenMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	if msg.IsFirst {
		m.isThinking = false
		m.statusBar.SetStatus(components.StatusStreaming)
	}

	m.streamingBuffer.Write(msg.Token)
	if chunk, ok := m.streamingBuffer.Flush(); ok {
		m.conversation.AppendToLast(chunk)
		m.refreshViewport()
	}

	return m, nil
}

func (m Model) handleStreamTick(msg StreamTickMsg) (tea.Model, tea.Cmd) {
	if m.state != StateStreaming {
		return m, nil
	}

	if chunk, ok := m.streamingBuffer.Flush(); ok {
		m.conversation.AppendToLast(chunk)
		m.refreshViewport()
	}

	return m, streamTickCmd()
}

func (m Model) handleSuggestion(msg SuggestionMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}
	m.suggestions.Add(msg.Suggestion)
	return m, nil
}

// handleStreamComplete finishes the turn. Both a stream_end record and a
// plain connection close arrive here; the streamingMsgID guard makes a
// second completion for the same turn a no-op.
func (m Model) handleStreamComplete(msg StreamCompleteMsg) (tea.Model, tea.Cmd) {
	if m.streamingMsgID == "" || msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	if chunk, ok := m.streamingBuffer.ForceFlush(); ok {
		m.conversation.AppendToLast(chunk)
	}
	m.conversation.FinalizeLast(msg.Stats)

	m.streamingMsgID = ""
	m.isThinking = false
	m.state = StateReady
	m.statusBar.SetStatus(components.StatusReady)
	m.statusBar.SetTokenCount(m.conversation.EstimateTokens())
	m.refreshViewport()

	return m, nil
}

// handleStreamError ends the turn with exactly one visible update: any
// partial answer is replaced by the error text, never shown alongside it.
func (m Model) handleStreamError(msg StreamErrorMsg) (tea.Model, tea.Cmd) {
	if m.streamingMsgID == "" || (msg.MessageID != "" && msg.MessageID != m.streamingMsgID) {
		return m, nil
	}

	// Discard buffered deltas; the error text supersedes them.
	m.streamingBuffer.Reset()
	m.cancelStream()

	text := msg.Detail
	if text == "" && msg.Error != nil {
		errMsg := HandleTutorError(msg.Error)
		m.lastError = &errMsg
		m.state = StateError
		text = errMsg.Message
	}
	if text == "" {
		text = "Something went wrong. Please try again."
	}
	m.conversation.ReplaceLast(text)

	m.streamingMsgID = ""
	m.isThinking = false
	if m.state != StateError {
		m.state = StateReady
		m.statusBar.SetStatus(components.StatusReady)
	} else {
		m.statusBar.SetStatus(components.StatusError)
	}
	m.refreshViewport()

	return m, nil
}

// =============================================================================
// VIDEO HANDLERS
// =============================================================================

func (m Model) handleVideoTrigger(msg VideoTriggerMsg) (tea.Model, tea.Cmd) {
	source := msg.SourceText
	if source == "" {
		if last := m.conversation.GetLastAssistantMessage(); last != nil {
			source = last.GetDisplayContent()
		}
	}
	if source == "" {
		return m, nil
	}

	m.videoJob = model.NewVideoJob(source)
	m.videoCard = components.NewVideoCard(m.videoJob, m.videoBudget, m.theme)
	m.videoCard.SetWidth(m.width)

	runner := NewVideoRunner(program(), m.client, m.poller)
	go runner.Generate(context.Background(), source)

	return m, m.spinner.Tick
}

func (m Model) handleVideoJobStarted(msg VideoJobStartedMsg) (tea.Model, tea.Cmd) {
	if msg.JobID == "" {
		return m, nil
	}

	// A video_job_started stream record can arrive without a preceding
	// trigger; attach to the server's job in that case.
	if m.videoJob == nil || m.videoJob.IsDone() {
		source := ""
		if last := m.conversation.GetLastAssistantMessage(); last != nil {
			source = last.GetDisplayContent()
		}
		m.videoJob = model.NewVideoJob(source)
		m.videoCard = components.NewVideoCard(m.videoJob, m.videoBudget, m.theme)
		m.videoCard.SetWidth(m.width)
	}
	m.videoJob.JobID = msg.JobID

	m.statusBar.SetStatus(components.StatusPolling)
	m.statusBar.SetVideoProgress(true, 0, m.videoBudget)

	runner := NewVideoRunner(program(), m.client, m.poller)
	go runner.Attach(context.Background(), msg.JobID)

	return m, m.spinner.Tick
}

func (m Model) handleVideoRequestFailed(msg VideoRequestFailedMsg) (tea.Model, tea.Cmd) {
	detail := msg.Detail
	if detail == "" && msg.Error != nil {
		detail = msg.Error.Error()
	}

	if m.videoJob == nil {
		m.videoJob = model.NewVideoJob("")
		m.videoCard = components.NewVideoCard(m.videoJob, m.videoBudget, m.theme)
		m.videoCard.SetWidth(m.width)
	}
	m.videoJob.Fail(detail)

	m.statusBar.SetVideoProgress(false, 0, 0)
	if m.state == StateReady {
		m.statusBar.SetStatus(components.StatusReady)
	}

	return m, nil
}

func (m Model) handleVideoUpdate(msg VideoUpdateMsg) (tea.Model, tea.Cmd) {
	u := msg.Update
	if m.videoJob == nil || m.videoJob.JobID != u.JobID {
		// Stale update from a replaced job.
		return m, nil
	}

	m.videoJob.Attempts = u.Attempt

	switch u.Status {
	case model.StatusComplete:
		m.videoJob.Complete(u.URL)
	case model.StatusFailed:
		m.videoJob.Fail(u.Detail)
	case model.StatusTimedOut:
		m.videoJob.SetStatus(model.StatusTimedOut)
	default:
		m.videoJob.SetStatus(u.Status)
	}

	if m.videoJob.IsDone() {
		m.statusBar.SetVideoProgress(false, 0, 0)
		if m.state == StateReady {
			m.statusBar.SetStatus(components.StatusReady)
		}
	} else {
		m.statusBar.SetVideoProgress(true, u.Attempt, m.videoBudget)
		if m.state == StateReady {
			m.statusBar.SetStatus(components.StatusPolling)
		}
	}

	return m, nil
}

// =============================================================================
// STATUS HANDLERS
// =============================================================================

func (m Model) handleBackendStatus(msg BackendStatusMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Running:
		m.conn = components.ConnOnline
	case tutor.IsNoBaseURL(msg.Error):
		m.conn = components.ConnUnconfigured
	default:
		m.conn = components.ConnOffline
	}

	m.header.SetConn(m.conn)
	m.statusBar.SetConn(m.conn)

	return m, nil
}

// handleConfigReloaded rebinds the model to a reloaded configuration:
// new tutor client, refreshed endpoint displays, and updated poll budget.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	cfg := msg.Config
	if cfg == nil {
		return m, nil
	}

	m.client = tutor.NewClient(&tutor.ClientConfig{
		BaseURL:       cfg.API.URL,
		Timeout:       time.Duration(cfg.API.TimeoutSecs) * time.Second,
		StreamTimeout: time.Duration(cfg.API.StreamTimeoutSecs) * time.Second,
	})

	m.header.SetEndpoint(m.client.BaseURL())
	m.statusBar.SetEndpoint(m.client.BaseURL())
	m.welcome.SetEndpoint(m.client.BaseURL())

	// New poll settings apply to the next video job; a job already polling
	// keeps the budget it started with.
	m.videoBudget = cfg.Video.MaxPollAttempts
	m.poller = video.NewPoller(
		time.Duration(cfg.Video.PollIntervalSecs)*time.Second,
		cfg.Video.MaxPollAttempts,
	)

	if m.client.BaseURL() == "" {
		m.conn = components.ConnUnconfigured
		m.header.SetConn(m.conn)
		m.statusBar.SetConn(m.conn)
		return m, nil
	}

	return m, CheckBackendCmd(m.client)
}

func (m Model) handleSpinnerTick(msg SpinnerTickMsg) (tea.Model, tea.Cmd) {
	videoActive := m.videoJob != nil && !m.videoJob.IsDone()
	if !m.isThinking && !videoActive {
		return m, nil
	}

	m.videoCard.Tick()

	return m, SpinnerTickCmd()
}

func (m Model) handleNewConversation() (tea.Model, tea.Cmd) {
	m.cancelStream()
	m.streamingBuffer.Reset()
	go m.poller.Stop()

	m.conversation = model.NewConversation()
	m.streamingMsgID = ""
	m.isThinking = false
	m.state = StateReady
	m.lastError = nil
	m.videoJob = nil
	m.videoCard = components.NewVideoCard(nil, m.videoBudget, m.theme)
	m.videoCard.SetWidth(m.width)
	m.suggestions.Clear()

	m.statusBar.SetStatus(components.StatusReady)
	m.statusBar.SetTokenCount(0)
	m.statusBar.SetVideoProgress(false, 0, 0)
	m.refreshViewport()

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	m.suggestions.SetWidth(msg.Width)
	m.videoCard.SetWidth(msg.Width)
	m.welcome.SetSize(msg.Width, msg.Height)
	m.input.Width = msg.Width - 4

	m.viewport.Width = msg.Width
	m.viewport.Height = m.viewportHeight()
	m.refreshViewport()

	return m, nil
}

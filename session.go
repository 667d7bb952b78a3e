// Package travelpod - session.go
// Session holds the per-query state and streams the agent's responses.
package travelpod

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/openai/openai-go"
)

// Session handles one user query and relays the agent output for it.
type Session struct {
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	inUserChannel  chan string
	outUserChannel chan Response

	llm     LLM
	usage   *Usage
	agent   *Agent
	storage Storage

	logger *slog.Logger
}

// NewSession starts a session. storage may be nil, in which case nothing is recorded.
func NewSession(ctx context.Context, llm LLM, ag *Agent, storage Storage) *Session {
	sessionID, err := gonanoid.New()
	if err != nil {
		panic(err)
	}
	ctx, cancel := context.WithCancel(ctx)
	ctx = context.WithValue(ctx, ContextKey("sessionID"), sessionID)
	s := &Session{
		ctx:    ctx,
		cancel: cancel,

		inUserChannel:  make(chan string),
		outUserChannel: make(chan Response),

		llm:     llm,
		usage:   &Usage{},
		agent:   ag,
		storage: storage,

		logger: ag.GetLogger().With("sessionID", sessionID),
	}
	go s.run()
	return s
}

func (s *Session) ID() string {
	return s.ctx.Value(ContextKey("sessionID")).(string)
}

// In hands the user message to the session. It fails once the session is closed.
func (s *Session) In(userMessage string) error {
	if s.ctx.Err() != nil {
		return ErrSessionClosed
	}
	select {
	case s.inUserChannel <- userMessage:
		return nil
	case <-s.ctx.Done():
		return ErrSessionClosed
	}
}

// Out blocks until the next response. After the session finished it keeps
// returning ResponseTypeEnd.
func (s *Session) Out() Response {
	response, ok := <-s.outUserChannel
	if !ok {
		return Response{Type: ResponseTypeEnd}
	}
	return response
}

// Close ends the session lifecycle and stops any running agent work.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
	})
}

func (s *Session) run() {
	s.logger.Info("Session started")
	defer close(s.outUserChannel)

	var userMessage string
	select {
	case <-s.ctx.Done():
		return
	case userMessage = <-s.inUserChannel:
	}

	s.createConversation(userMessage)

	messageHistory := NewMessageList()
	messageHistory.Add(openai.UserMessage(userMessage))

	internalChannel := make(chan Response)
	go s.agent.Run(s.ctx, s.llm, messageHistory, s.usage, internalChannel)

	var answer strings.Builder
	failed := false
	for response := range internalChannel {
		switch response.Type {
		case ResponseTypePartialText:
			answer.WriteString(response.Content)
		case ResponseTypeError:
			failed = true
		}
		if !send(s.ctx, s.outUserChannel, response) {
			s.logger.Warn("Session closed while streaming")
		}
	}

	if !failed {
		s.finishConversation(answer.String())
	}
	send(s.ctx, s.outUserChannel, Response{Type: ResponseTypeEnd})
}

func (s *Session) createConversation(userMessage string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.CreateConversation(s.ctx, s.ID(), userMessage); err != nil {
		s.logger.Error("Error storing conversation", "error", err)
	}
}

func (s *Session) finishConversation(answer string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.FinishConversation(s.ctx, s.ID(), answer); err != nil {
		s.logger.Error("Error storing answer", "error", err)
	}
}

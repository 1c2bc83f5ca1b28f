// Package chat provides the in-app assistant: a thin text-in/text-out
// wrapper over an LLM backend with SQLite-persisted history.
package chat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/voonqa/focustime/internal/store"
)

// FallbackReply is returned whenever the assistant backend fails.
// Backend failures never propagate to the caller and are never retried.
const FallbackReply = "Sorry, I couldn't reach the assistant right now. Please try again in a moment."

// Model is the LLM backend. History is the prior conversation in
// chronological order; text is the new user message.
type Model interface {
	Reply(ctx context.Context, history []*store.ChatMessage, text string) (string, error)
}

// Service manages the assistant conversation.
type Service struct {
	store store.Storer
	model Model
	log   zerolog.Logger
}

// NewService creates a chat service. A nil model behaves like an
// unreachable backend: every Send yields the fallback reply.
func NewService(s store.Storer, m Model, log zerolog.Logger) *Service {
	return &Service{store: s, model: m, log: log}
}

// Send records the user message, asks the backend for a reply with the
// prior history as context, and records the assistant message. Storage
// errors are returned; backend errors degrade to FallbackReply.
func (s *Service) Send(ctx context.Context, text string) (string, error) {
	history, err := s.store.ListChatMessages()
	if err != nil {
		return "", fmt.Errorf("load chat history: %w", err)
	}

	if err := s.append("user", text); err != nil {
		return "", err
	}

	reply := FallbackReply
	if s.model != nil {
		got, err := s.model.Reply(ctx, history, text)
		if err != nil {
			s.log.Warn().Err(err).Msg("assistant backend failed, using fallback")
		} else {
			reply = got
		}
	}

	if err := s.append("assistant", reply); err != nil {
		return "", err
	}
	return reply, nil
}

// History returns the conversation in chronological order.
func (s *Service) History() ([]*store.ChatMessage, error) {
	return s.store.ListChatMessages()
}

// Clear wipes the conversation.
func (s *Service) Clear() error {
	return s.store.ClearChatMessages()
}

func (s *Service) append(role, content string) error {
	msg := &store.ChatMessage{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if err := s.store.AddChatMessage(msg); err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

package chat

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/voonqa/focustime/internal/store"
)

const geminiModel = "gemini-2.5-flash"

const systemPrompt = "You are a friendly productivity assistant inside a Pomodoro focus timer app. " +
	"Help the user plan focus sessions, break down tasks, and stay motivated. " +
	"Keep replies short and practical."

// Gemini is the Google Gemini backend for the assistant.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini-backed model.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("chat: gemini api key not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client}, nil
}

// Reply sends the conversation to Gemini and returns the generated text.
func (g *Gemini) Reply(ctx context.Context, history []*store.ChatMessage, text string) (string, error) {
	var chatHistory []*genai.Content
	for _, msg := range history {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		chatHistory = append(chatHistory, &genai.Content{
			Role: role,
			Parts: []*genai.Part{
				{Text: msg.Content},
			},
		})
	}

	chat, err := g.client.Chats.Create(ctx, geminiModel, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		},
	}, chatHistory)
	if err != nil {
		return "", fmt.Errorf("failed to create chat session: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	if part.Text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return part.Text, nil
}

var _ Model = (*Gemini)(nil)

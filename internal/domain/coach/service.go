package coach

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jedalosa/energymatch/internal/infra/llm/gemini"
	apperrors "github.com/jedalosa/energymatch/pkg/errors"
)

// Role tags one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn. Histories are append-only and chronological.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Config tunes the Energy Coach assistant.
type Config struct {
	Model       string
	Temperature float32
	Prompt      string
}

// Fixed Spanish degraded replies, kept verbatim from the product copy.
const (
	emptyReply      = "Lo siento, no pude procesar tu consulta en este momento."
	connectionError = "Error de conexión con el Asistente Energético."
)

// Service answers renewable-energy questions in simple Spanish.
type Service interface {
	// Chat returns the assistant's reply. Upstream failures degrade to a
	// fixed error reply so the widget always renders something.
	Chat(ctx context.Context, history []Message, message string) (string, error)
}

type ChatClient interface {
	GenerateContent(ctx context.Context, model string, req gemini.GenerateContentRequest) (gemini.GenerateContentResponse, error)
}

type service struct {
	cfg    Config
	client ChatClient
	logger *slog.Logger
}

// NewService wires up the Energy Coach.
func NewService(cfg Config, client ChatClient, logger *slog.Logger) Service {
	return &service{cfg: cfg, client: client, logger: logger.With("component", "coach.service")}
}

func (s *service) Chat(ctx context.Context, history []Message, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "message cannot be empty", nil)
	}

	contents := make([]gemini.Content, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, gemini.Content{Role: role, Parts: []gemini.Part{{Text: msg.Text}}})
	}
	contents = append(contents, gemini.Content{Role: "user", Parts: []gemini.Part{{Text: message}}})

	resp, err := s.client.GenerateContent(ctx, s.cfg.Model, gemini.GenerateContentRequest{
		Contents:          contents,
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: s.cfg.Prompt}}},
		GenerationConfig:  &gemini.GenerationConfig{Temperature: s.cfg.Temperature},
	})
	if err != nil {
		s.logger.Warn("coach chat failed, serving degraded reply", "error", err)
		return connectionError, nil
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return emptyReply, nil
	}
	return reply, nil
}

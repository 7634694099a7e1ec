package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yungbote/skillplanner-backend/internal/platform/envutil"
	"github.com/yungbote/skillplanner-backend/internal/platform/logger"
	"github.com/yungbote/skillplanner-backend/internal/types"
)

const defaultModel = "gemini-1.5-flash"

// Client is the chat-model surface the planner depends on. Fakes
// implement it in tests.
type Client interface {
	// Chat sends one message with the given role-tagged history and
	// returns the model's text reply.
	Chat(ctx context.Context, history []types.ChatMessage, message string) (string, error)
	Close() error
}

// BlockedError reports a prompt rejected by the model's safety layer.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("prompt blocked by content policy: %s", e.Reason)
}

type client struct {
	genai *genai.Client
	model *genai.GenerativeModel
	log   *logger.Logger
}

// NewFromEnv builds a Gemini client from GEMINI_API_KEY (GOOGLE_API_KEY
// is accepted as a fallback) and GEMINI_MODEL.
func NewFromEnv(ctx context.Context, log *logger.Logger) (Client, error) {
	apiKey := envutil.Str("GEMINI_API_KEY", envutil.Str("GOOGLE_API_KEY", ""))
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	return New(ctx, apiKey, envutil.Str("GEMINI_MODEL", defaultModel), log)
}

func New(ctx context.Context, apiKey, modelName string, log *logger.Logger) (Client, error) {
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultModel
	}

	model := gc.GenerativeModel(modelName)
	model.SetTemperature(float32(envutil.Float("GEMINI_TEMPERATURE", 0.4)))
	model.SetTopP(0.95)
	if maxTokens := envutil.Int("GEMINI_MAX_TOKENS", 0); maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	clientLog := log.With("service", "GeminiClient")
	clientLog.Info("Initialized Gemini client", "model", modelName)
	return &client{genai: gc, model: model, log: clientLog}, nil
}

func (c *client) Chat(ctx context.Context, history []types.ChatMessage, message string) (string, error) {
	session := c.model.StartChat()
	session.History = toContents(history)

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini chat failed: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", &BlockedError{Reason: resp.PromptFeedback.BlockReason.String()}
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

func (c *client) Close() error {
	return c.genai.Close()
}

func toContents(history []types.ChatMessage) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := msg.Role
		if role != "model" {
			role = "user"
		}
		parts := make([]genai.Part, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			if p.Text == "" {
				continue
			}
			parts = append(parts, genai.Text(p.Text))
		}
		if len(parts) == 0 {
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: parts})
	}
	return out
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}

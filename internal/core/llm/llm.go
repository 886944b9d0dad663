package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// maxSummaryRows caps how much result data is sent to the model.
const maxSummaryRows = 20

// Service phrases query results into short natural-language answers.
// Routing and querying never depend on it; it only decorates responses.
type Service struct {
	client *openai.Client
	model  string
}

// NewService creates a summarizer, or nil when no API key is configured.
func NewService(apiKey string) *Service {
	if apiKey == "" {
		return nil
	}
	return &Service{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

// SummarizeResults turns the rows of an executed query into one or two
// sentences answering the original question.
func (s *Service) SummarizeResults(ctx context.Context, question, explanation string, rows []map[string]interface{}) (string, error) {
	if len(rows) > maxSummaryRows {
		rows = rows[:maxSummaryRows]
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to encode rows: %w", err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You summarize invoice analytics query results. " +
					"Answer the user's question in one or two sentences using only the data given. " +
					"Amounts are in EUR.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Question: %s\nQuery intent: %s\nResults: %s",
					question, explanation, string(data)),
			},
		},
		Temperature: 0.2,
		MaxTokens:   200,
	})
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarization returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

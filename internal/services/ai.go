package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nwaizer/projecthub/internal/models"
	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

type GeneratedWorkItem struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	EndDate     *time.Time `json:"end_date"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateWorkItemsFromText extracts task or bug drafts from free text
// using OpenAI GPT.
func (s *AIService) GenerateWorkItemsFromText(ctx context.Context, text string, kind models.WorkItemKind) ([]GeneratedWorkItem, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	noun := "tasks"
	if kind == models.KindBug {
		noun = "bug reports"
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are an assistant that extracts %s from project notes.

Current time: %s

Text:
%s

Return a JSON array of the extracted items in this shape:
[
  {
    "name": "short item name",
    "description": "detailed description",
    "end_date": "deadline in ISO8601 (e.g. 2025-10-28T23:59:59Z) or null when none is stated"
  }
]

Rules:
- Return an empty array [] when there is nothing to extract
- Convert relative deadlines ("tomorrow", "next week") into concrete dates
- end_date must be an ISO8601 string or null
- Return only the JSON, no surrounding prose`, noun, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var items []GeneratedWorkItem
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return items, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// TaskDraft is one task suggested by the model. DueDate is a YYYY-MM-DD string
// or nil when the text names no deadline.
type TaskDraft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
}

// TaskDrafter extracts task drafts from free text.
type TaskDrafter interface {
	DraftTasks(ctx context.Context, text string) ([]TaskDraft, error)
}

type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func NewAIService(apiKey string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey))
}

// NewAIServiceWithConfig builds the service from a full client config, e.g. to
// point it at a compatible endpoint.
func NewAIServiceWithConfig(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
		now:    time.Now,
	}
}

type draftResponse struct {
	Tasks []TaskDraft `json:"tasks"`
}

// DraftTasks analyzes text and extracts tasks using OpenAI chat completions
func (s *AIService) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	today := s.now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You extract concrete tasks from text for a project tracker.

Today is %s.

Text:
%s

Reply with a JSON object of this shape:
{
  "tasks": [
    {
      "title": "short task title",
      "description": "what has to be done",
      "due_date": "deadline as YYYY-MM-DD, or null when the text gives none"
    }
  ]
}

Rules:
- Return {"tasks": []} when the text contains no tasks
- Turn relative deadlines ("tomorrow", "next week") into calendar dates
- Return JSON only, no commentary`, today, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var parsed draftResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return parsed.Tasks, nil
}

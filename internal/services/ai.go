package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// TaskGenerator turns free text into task suggestions
type TaskGenerator interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

// GeneratedTask is one suggestion. Priority is free text until
// TaskService.GenerateTasks normalizes it.
type GeneratedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

const extractionInstructions = `You extract concrete, actionable tasks from notes written by a project team.
Answer with a JSON object of the form {"tasks": [...]} where each task has:
  "title": short imperative title
  "description": details, may be empty
  "priority": Low, Medium, High or Critical
  "due_date": RFC3339 timestamp, or null when the text gives no deadline
Resolve relative dates ("tomorrow", "next Friday") against the reference time.
Answer {"tasks": []} when the text contains no tasks.`

// AIService asks an OpenAI chat model for task suggestions
type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// NewAIService builds the OpenAI backed generator. An empty model selects
// gpt-4o and an empty baseURL the public endpoint.
func NewAIService(apiKey, model, baseURL string) *AIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		now:    time.Now,
	}
}

func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionInstructions},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Reference time: %s\n\n%s", s.now().Format(time.RFC3339), text)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}

	return parseGeneratedTasks(resp.Choices[0].Message.Content)
}

// parseGeneratedTasks accepts the {"tasks": [...]} object as well as a bare
// array, optionally wrapped in a markdown code fence.
func parseGeneratedTasks(content string) ([]GeneratedTask, error) {
	content = stripCodeFence(content)

	if strings.HasPrefix(content, "[") {
		var tasks []GeneratedTask
		if err := json.Unmarshal([]byte(content), &tasks); err != nil {
			return nil, fmt.Errorf("parse AI response: %w", err)
		}
		return tasks, nil
	}

	var envelope struct {
		Tasks []GeneratedTask `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("parse AI response: %w", err)
	}
	return envelope.Tasks, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

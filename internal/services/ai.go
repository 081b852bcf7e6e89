package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// TaskSuggester drafts tasks from free text.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, project, text string) ([]GeneratedTask, error)
}

type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

type GeneratedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
		now:    time.Now,
	}
}

// SuggestTasks asks the model to break text down into tasks for a project
func (s *AIService) SuggestTasks(ctx context.Context, project, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := s.now().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You are a task planning assistant for the project %q.
Extract concrete, actionable tasks from the text below.

Current time: %s

Text:
%s

Reply with a JSON array of tasks in this shape:
[
  {
    "title": "short task title (at most 100 characters)",
    "description": "what has to be done",
    "priority": 0,
    "deadline": "RFC 3339 timestamp, e.g. 2025-10-28T23:59:59Z, or null"
  }
]

Rules:
- Return [] when the text contains no tasks
- priority is 0 (low), 1 (medium) or 2 (high)
- Convert relative dates such as "tomorrow" or "next week" to timestamps
- Return JSON only, without any explanation`, project, currentTime, text)

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
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseGeneratedTasks(resp.Choices[0].Message.Content)
}

// parseGeneratedTasks decodes the model reply, tolerating a fenced code block.
func parseGeneratedTasks(content string) ([]GeneratedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/strathausen/pleeboo/internal/icons"
)

// SuggestedItem is one proposed item inside a generated section.
type SuggestedItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Needed      int    `json:"needed"`
	ItemType    string `json:"item_type"`
	Unit        string `json:"unit"`
}

// SuggestedSection is one proposed section with its items.
type SuggestedSection struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Items       []SuggestedItem `json:"items"`
}

// SuggestionGenerator produces a proposal tree for an empty board.
type SuggestionGenerator interface {
	GenerateSections(ctx context.Context, title, description, prompt string) ([]SuggestedSection, error)
}

// AIService generates board sections from free text using OpenAI GPT.
type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateSections asks the model to partition an event into sections with
// items that need a bounded number of contributions.
func (s *AIService) GenerateSections(ctx context.Context, title, description, prompt string) ([]SuggestedSection, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	request := fmt.Sprintf(`You are an event-planning assistant for a collaborative pledge board.
An organizer is setting up a board where contributors claim slots for things to bring or do.

Event title: %s
Event description: %s
Organizer notes: %s

Partition the event into sections (for example "Food", "Setup"), each with items that need volunteers.
Return ONLY a JSON array in this shape:
[
  {
    "title": "section title",
    "description": "one short sentence",
    "icon": "an icon name from the list below",
    "items": [
      {
        "title": "item title",
        "description": "one short sentence",
        "icon": "an icon name from the list below",
        "needed": 3,
        "item_type": "slots",
        "unit": ""
      }
    ]
  }
]

Rules:
- item_type is "slots" (people bring discrete things), "task" (people perform a role),
  or "cumulative" (contributions sum toward a numeric target).
- "unit" is only set for cumulative items (e.g. "liters", "chairs"); otherwise "".
- "needed" is a positive integer.
- Pick icons from exactly this list: %s
- Return JSON only, no explanation.`, title, description, prompt, strings.Join(icons.All(), ", "))

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: request,
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

	content := resp.Choices[0].Message.Content

	var sections []SuggestedSection
	if err := json.Unmarshal([]byte(content), &sections); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return sections, nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"evently/server/internal/logging"
	"evently/server/internal/models/dtos/responses"
	"evently/server/internal/models/entities"
)

// RecommendationService makes the one-shot completion call behind the
// "recommended for you" widget. No orchestration, no retries; any
// failure degrades to a static fallback.
type RecommendationService struct {
	client *openai.Client
	events *EventService
}

func NewRecommendationService(apiKey string, events *EventService) *RecommendationService {
	svc := &RecommendationService{events: events}
	if apiKey != "" {
		svc.client = openai.NewClient(apiKey)
	}
	return svc
}

func (svc *RecommendationService) Recommend(ctx context.Context, interests []string, city string) (*responses.RecommendationResponse, error) {
	upcoming, err := svc.events.Browse(ctx, "", "", 1, 20)
	if err != nil {
		return nil, err
	}

	if svc.client == nil {
		return fallbackRecommendations(upcoming), nil
	}

	resp, err := svc.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You suggest events. Answer with one event title per line, nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(interests, city, upcoming),
			},
		},
		MaxTokens: 200,
	})
	if err != nil {
		logging.Warn("recommendation call failed, using fallback", "error", err.Error())
		return fallbackRecommendations(upcoming), nil
	}

	var suggestions []string
	for _, line := range strings.Split(resp.Choices[0].Message.Content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			suggestions = append(suggestions, line)
		}
	}
	if len(suggestions) == 0 {
		return fallbackRecommendations(upcoming), nil
	}

	return &responses.RecommendationResponse{Suggestions: suggestions, Source: "model"}, nil
}

func buildPrompt(interests []string, city string, upcoming []entities.EventWithVenue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interests: %s\n", strings.Join(interests, ", "))
	if city != "" {
		fmt.Fprintf(&b, "City: %s\n", city)
	}
	b.WriteString("Upcoming events:\n")
	for _, e := range upcoming {
		fmt.Fprintf(&b, "- %s (%s)\n", e.Title, e.Category)
	}
	b.WriteString("Pick up to 5 of the listed events for this person.")
	return b.String()
}

func fallbackRecommendations(upcoming []entities.EventWithVenue) *responses.RecommendationResponse {
	suggestions := make([]string, 0, 5)
	for _, e := range upcoming {
		suggestions = append(suggestions, e.Title)
		if len(suggestions) == 5 {
			break
		}
	}
	return &responses.RecommendationResponse{Suggestions: suggestions, Source: "fallback"}
}

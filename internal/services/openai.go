package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type OpenAIService struct {
	client   *openai.Client
	model    string
	rateChan rateBucket
}

func NewOpenAIService(apiKey, model string, concurrentReqs int) *OpenAIService {
	return newOpenAIService(openai.DefaultConfig(apiKey), model, concurrentReqs)
}

func newOpenAIService(cfg openai.ClientConfig, model string, concurrentReqs int) *OpenAIService {
	return &OpenAIService{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		rateChan: newRateBucket(concurrentReqs),
	}
}

func (s *OpenAIService) Provider() string { return "openai" }

func (s *OpenAIService) Complete(ctx context.Context, system, user string) (string, error) {
	if err := s.rateChan.acquire(ctx); err != nil {
		return "", err
	}
	defer s.rateChan.release()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	choice := resp.Choices[0]
	if choice.FinishReason != "" && choice.FinishReason != openai.FinishReasonStop {
		log.Printf("WARNING: OpenAI stopped due to %s", choice.FinishReason)
	}

	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return choice.Message.Content, nil
}

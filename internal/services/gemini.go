package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiService struct {
	client    *genai.Client
	modelName string
	rateChan  rateBucket
}

func NewGeminiService(apiKey, modelName string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:    client,
		modelName: modelName,
		rateChan:  newRateBucket(concurrentReqs),
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

func (s *GeminiService) Provider() string { return "gemini" }

// Complete builds a fresh model handle per call so the system instruction
// is never shared between concurrent requests.
func (s *GeminiService) Complete(ctx context.Context, system, user string) (string, error) {
	if err := s.rateChan.acquire(ctx); err != nil {
		return "", err
	}
	defer s.rateChan.release()

	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Printf("WARNING: Gemini candidate %d stopped due to %s", i, cand.FinishReason)
		}
	}

	reply := extractText(resp)
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyCompletion
	}
	return reply, nil
}

// extractText returns the text parts of the top candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}

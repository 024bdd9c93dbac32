package service

import (
	"context"
	"fmt"
	"strings"

	"agri-assist-api/internal/model"
	"agri-assist-api/pkg/apierror"
)

const chatSystemPrompt = "You are AgriGuru, an AI assistant for Indian farmers. " +
	"You answer questions about crops, weather, organic farming, government schemes, and agricultural best practices. " +
	"You can reply in English, Hindi, or Kannada. " +
	"If the user requests Hindi, reply in Hindi. If the user requests Kannada, reply in Kannada. Otherwise, reply in English. " +
	"Keep answers clear, practical, and concise."

const noDataTable = "| Crop | Yield (quintals/hectare) | Duration (days) |\n" +
	"|------|--------------------------|------------------|\n" +
	"| No data available | - | - |"

// AdvisorService covers the conversational endpoints: chatbot, farming
// tips, and crop recommendation. All of them are thin prompt templating
// over the text-generation collaborator.
type AdvisorService struct {
	llm textGenerator
}

func NewAdvisorService(llm textGenerator) *AdvisorService {
	return &AdvisorService{llm: llm}
}

func (s *AdvisorService) Chat(ctx context.Context, req model.ChatRequest) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", apierror.BadRequest("message is required")
	}

	var prompt string
	switch req.Language {
	case "hi":
		prompt = fmt.Sprintf("%s\nPlease answer in Hindi: %s", chatSystemPrompt, message)
	case "kn":
		prompt = fmt.Sprintf("%s\nPlease answer in Kannada: %s", chatSystemPrompt, message)
	default:
		prompt = fmt.Sprintf("%s\n%s", chatSystemPrompt, message)
	}

	reply, err := s.llm.GenerateText(ctx, prompt)
	if err != nil {
		return "", apierror.Upstream("chatbot", err)
	}

	return strings.TrimSpace(reply), nil
}

func (s *AdvisorService) Tips(ctx context.Context, category string, stage string) (string, error) {
	if strings.TrimSpace(category) == "" {
		category = "any crop"
	}
	if strings.TrimSpace(stage) == "" {
		stage = "any stage"
	}

	tips, err := s.llm.GenerateText(ctx, fmt.Sprintf("Give organic farming tips for %s at %s.", category, stage))
	if err != nil {
		return "", apierror.Upstream("farming tips", err)
	}

	return strings.TrimSpace(tips), nil
}

// CropRecommendation returns a markdown table of suggested crops. Upstream
// failure degrades to a canned "no data" table instead of an error.
func (s *AdvisorService) CropRecommendation(ctx context.Context, req model.CropRecommendationRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert agricultural advisor. Suggest the best crops for a farmer with the following details:\n")
	fmt.Fprintf(&b, "- Soil type: %s\n", req.Soil)
	fmt.Fprintf(&b, "- Season: %s\n", req.Season)
	if strings.TrimSpace(req.Location) != "" {
		fmt.Fprintf(&b, "- Location: %s\n", req.Location)
	}
	b.WriteString("Return your answer as a markdown table with columns: Crop, Yield (quintals/hectare), Duration (days).\n")
	b.WriteString("Do not include any explanations, background, or extra text. Only output the table.")

	table, err := s.llm.GenerateText(ctx, b.String())
	if err != nil {
		return noDataTable
	}

	return strings.TrimSpace(table)
}

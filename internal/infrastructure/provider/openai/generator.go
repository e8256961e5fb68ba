// Package openai writes listing copy with the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const systemPrompt = "You write accurate, engaging real estate listings. " +
	"Use only the facts provided. Do not invent amenities, prices or measurements. " +
	"Return plain text without markdown headings."

// Config configures the generator.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxRetries  int
}

// Generator implements usecase.Generator.
type Generator struct {
	client openai.Client
	model  openai.ChatModel
	temp   float64
	logger *zap.Logger
}

var _ usecase.Generator = (*Generator)(nil)

// NewGenerator creates a generator with its own API client.
func NewGenerator(cfg Config, logger *zap.Logger) *Generator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := openai.ChatModelGPT4oMini
	if cfg.Model != "" {
		model = openai.ChatModel(cfg.Model)
	}

	return &Generator{
		client: openai.NewClient(opts...),
		model:  model,
		temp:   cfg.Temperature,
		logger: logger,
	}
}

// Generate asks the model for listing copy.
func (g *Generator) Generate(ctx context.Context, input usecase.ListingInput) (*usecase.GeneratedCopy, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(Prompt(input)),
		},
	}
	if g.temp > 0 {
		params.Temperature = openai.Float(g.temp)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: empty completion")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, errors.New("openai: empty completion")
	}

	g.logger.Debug("Listing copy generated",
		zap.String("model", resp.Model),
		zap.Int64("total_tokens", resp.Usage.TotalTokens))
	return &usecase.GeneratedCopy{Text: text, Model: resp.Model}, nil
}

// Prompt renders the property facts into the user message.
func Prompt(input usecase.ListingInput) string {
	var b strings.Builder
	if input.Kind == "rental" {
		b.WriteString("Write a rental listing.\n")
	} else {
		b.WriteString("Write a for-sale listing.\n")
	}
	fmt.Fprintf(&b, "Title: %s\n", input.Title)
	fmt.Fprintf(&b, "Address: %s\n", input.Address)
	if input.Bedrooms > 0 {
		fmt.Fprintf(&b, "Bedrooms: %d\n", input.Bedrooms)
	}
	if input.Bathrooms > 0 {
		fmt.Fprintf(&b, "Bathrooms: %g\n", input.Bathrooms)
	}
	if input.SquareFeet > 0 {
		fmt.Fprintf(&b, "Square feet: %d\n", input.SquareFeet)
	}
	if input.Price != "" {
		fmt.Fprintf(&b, "Price: %s\n", input.Price)
	}
	if len(input.Features) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(input.Features, ", "))
	}
	tone := input.Tone
	if tone == "" {
		tone = "professional"
	}
	fmt.Fprintf(&b, "Tone: %s\n", tone)
	return b.String()
}

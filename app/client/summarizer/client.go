package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crmchat/app/config"
	"crmchat/app/service/conversation"

	_ "embed"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

//go:embed summary_prompt.txt
var summaryPromptTemplate string

const maxSummarizeDuration = 30 * time.Second

var _ conversation.Summarizer = (*Client)(nil)

type Client struct {
	llm llms.Model
}

func New(di *do.Injector) (conversation.Summarizer, error) {
	cfg := do.MustInvoke[*config.Config](di)

	llm, err := openai.New(
		openai.WithBaseURL(cfg.OpenAI.Summary.BaseURL),
		openai.WithToken(cfg.OpenAI.Summary.Token),
		openai.WithModel(cfg.OpenAI.Summary.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary llm: %w", err)
	}

	return &Client{llm: llm}, nil
}

func (c *Client) Summarize(ctx context.Context, previous string, turns []conversation.Turn) (string, error) {
	var builder strings.Builder
	for _, turn := range turns {
		builder.WriteString(turn.Role)
		builder.WriteString(": ")
		builder.WriteString(turn.Content)
		builder.WriteString("\n")
	}

	templateValues := map[string]any{
		"previous": previous,
		"turns":    builder.String(),
	}

	prompt := summaryPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}

	ctx, cancel := context.WithTimeout(ctx, maxSummarizeDuration)
	defer cancel()

	result, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, llms.WithMaxTokens(500))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	return strings.TrimSpace(result), nil
}

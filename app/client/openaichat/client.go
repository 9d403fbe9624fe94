package openaichat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"crmchat/app/config"
	"crmchat/app/service/conversation"

	_ "embed"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

//go:embed extraction_prompt.txt
var extractionPromptTemplate string

const maxExtractDuration = 30 * time.Second

var _ conversation.Extractor = (*Client)(nil)

type Client struct {
	client *openai.Client
	model  string
}

func New(di *do.Injector) (conversation.Extractor, error) {
	cfg := do.MustInvoke[*config.Config](di)

	clientConfig := openai.DefaultConfig(cfg.OpenAI.Extraction.Token)
	clientConfig.BaseURL = cfg.OpenAI.Extraction.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: maxExtractDuration,
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.OpenAI.Extraction.Model,
	}, nil
}

func (c *Client) Extract(ctx context.Context, message, contextSummary string, turns []conversation.Turn) ([]byte, error) {
	templateValues := map[string]any{
		"context_summary": contextSummary,
		"message":         message,
	}

	prompt := extractionPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	for _, turn := range turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == conversation.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}

		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	ctx, cancel := context.WithTimeout(ctx, maxExtractDuration)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:               c.model,
			Messages:            messages,
			MaxCompletionTokens: 2000,
			Temperature:         0,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return nil, fmt.Errorf("no chat completion found")
	}

	return []byte(aiResponse.Choices[0].Message.Content), nil
}

package llm

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type chatCompletionAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient speaks the OpenAI chat-completions protocol. Every cloud
// provider in the table except google and bedrock, plus a local Ollama, is
// reached through it with a different base URL.
type OpenAIClient struct {
	api chatCompletionAPI
}

// NewOpenAIClient builds a client for one credential and endpoint.
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIClient{api: openai.NewClientWithConfig(cfg)}
}

func newOpenAIClientWithAPI(api chatCompletionAPI) *OpenAIClient {
	return &OpenAIClient{api: api}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Model) == "" {
		return Response{}, errors.New("llm: openai model is required")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}

	temperature := req.Temperature
	// go-openai omits a zero temperature from the payload, which servers read as 1.0.
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	out, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   int(req.MaxTokens),
		Temperature: temperature,
	})
	if err != nil {
		return Response{}, err
	}
	if len(out.Choices) == 0 {
		return Response{}, errors.New("llm: openai response had no choices")
	}

	choice := out.Choices[0]
	return Response{
		Text:       strings.TrimSpace(choice.Message.Content),
		StopReason: string(choice.FinishReason),
		Usage: TokenUsage{
			InputTokens:  int32(out.Usage.PromptTokens),
			OutputTokens: int32(out.Usage.CompletionTokens),
			TotalTokens:  int32(out.Usage.TotalTokens),
		},
	}, nil
}

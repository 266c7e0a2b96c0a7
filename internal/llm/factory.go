package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ClientFactory turns a descriptor into a ready-to-call client. Clients that
// implement io.Closer are closed after their single attempt.
type ClientFactory interface {
	ClientFor(ctx context.Context, d Descriptor) (Client, error)
}

// DefaultFactory builds real transport clients for each wire protocol.
type DefaultFactory struct {
	HTTPClient *http.Client
	Bedrock    BedrockConverseAPI
}

func (f *DefaultFactory) ClientFor(ctx context.Context, d Descriptor) (Client, error) {
	switch d.Provider.Wire() {
	case WireOpenAI:
		return NewOpenAIClient(d.APIKey, d.BaseURL, f.HTTPClient), nil
	case WireGemini:
		return NewGeminiClient(ctx, d.APIKey)
	case WireBedrock:
		if f.Bedrock == nil {
			return nil, errors.New("llm: bedrock runtime client not configured")
		}
		return NewBedrockClient(f.Bedrock), nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", d.Provider)
	}
}

// FactoryFunc adapts a function to ClientFactory.
type FactoryFunc func(ctx context.Context, d Descriptor) (Client, error)

func (f FactoryFunc) ClientFor(ctx context.Context, d Descriptor) (Client, error) {
	return f(ctx, d)
}

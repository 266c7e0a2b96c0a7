package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/wolfman30/honeypot-agent/cmd/mainconfig"
	"github.com/wolfman30/honeypot-agent/internal/api/router"
	"github.com/wolfman30/honeypot-agent/internal/app/bootstrap"
	appconfig "github.com/wolfman30/honeypot-agent/internal/config"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	rt, err := bootstrap.Build(ctx, cfg, &awsCfg, nil, nil, logger)
	if err != nil {
		logger.Error("failed to build runtime", "error", err)
		os.Exit(1)
	}

	// API Gateway throttles per stage, so no limiter here.
	h := router.New(&router.Config{
		Logger:             logger,
		HoneypotHandler:    rt.Handler,
		AdminHandler:       rt.Admin,
		APIKey:             cfg.APISecretKey,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, h, evt)
	})
}

// handle replays an API Gateway HTTP API event through the router.
func handle(ctx context.Context, h http.Handler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}
	if path == "" {
		path = "/"
	}

	body, err := decodeBody(evt)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: `{"detail":"invalid body"}`}, nil
	}

	target := path
	if qs := strings.TrimSpace(evt.RawQueryString); qs != "" {
		target += "?" + qs
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	for k, v := range evt.Headers {
		req.Header.Set(k, v)
	}
	if ip := strings.TrimSpace(evt.RequestContext.HTTP.SourceIP); ip != "" {
		req.RemoteAddr = ip
		if req.Header.Get("X-Real-Ip") == "" {
			req.Header.Set("X-Real-Ip", ip)
		}
	}
	if evt.RequestContext.RequestID != "" && req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", evt.RequestContext.RequestID)
	}

	w := newResponseBuffer()
	h.ServeHTTP(w, req)

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: w.status,
		Body:       w.body.String(),
		Headers:    map[string]string{},
	}
	for k := range w.header {
		out.Headers[strings.ToLower(k)] = w.header.Get(k)
	}
	return out, nil
}

// responseBuffer captures a handler's response for the Lambda reply.
type responseBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}, status: http.StatusOK}
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) Write(p []byte) (int, error) { return b.body.Write(p) }

func (b *responseBuffer) WriteHeader(status int) { b.status = status }

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

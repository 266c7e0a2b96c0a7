package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/wolfman30/honeypot-agent/cmd/mainconfig"
	"github.com/wolfman30/honeypot-agent/internal/agent"
	"github.com/wolfman30/honeypot-agent/internal/app/bootstrap"
	appconfig "github.com/wolfman30/honeypot-agent/internal/config"
	"github.com/wolfman30/honeypot-agent/internal/llm"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// llmtest prints the resolved provider chain and runs one persona reply
// through it, so credentials can be checked without starting the server.
func main() {
	message := flag.String("message", "Your bank account will be blocked today. Share the OTP sent to your phone to verify.", "scammer message to reply to")
	timeout := flag.Duration("timeout", 60*time.Second, "overall timeout")
	flag.Parse()

	if err := appconfig.LoadDotEnv(); err != nil {
		fmt.Printf("failed to load .env: %v\n", err)
	}
	cfg := appconfig.Load()
	settings := cfg.LLMSettings()

	descriptors := llm.Resolve(settings)
	fmt.Printf("Resolved %d provider descriptor(s):\n", len(descriptors))
	for i, d := range descriptors {
		fmt.Printf("  %d. %s key=%s\n", i+1, d, d.MaskedKey())
	}
	if len(descriptors) == 0 {
		fmt.Println("Set OLLAMA_BASE_URL or a provider key (e.g. GROQ_API_KEYS) and retry.")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger := logging.New(cfg.LogLevel)
	var awsCfg *aws.Config
	if loaded, err := mainconfig.LoadAWSConfig(ctx, cfg); err == nil {
		awsCfg = &loaded
	} else {
		fmt.Printf("AWS config unavailable, bedrock disabled: %v\n", err)
	}
	ag := agent.New(bootstrap.BuildDispatcher(cfg, awsCfg, nil, logger), nil, logger)

	start := time.Now()
	reply, err := ag.Reply(ctx, settings, agent.Turn{Sender: agent.SenderScammer, Text: *message}, nil)
	if err != nil {
		fmt.Printf("Reply failed after %v: %v\n", time.Since(start).Round(time.Millisecond), err)
		os.Exit(1)
	}
	fmt.Printf("Reply (%v):\n  %s\n", time.Since(start).Round(time.Millisecond), reply)
}

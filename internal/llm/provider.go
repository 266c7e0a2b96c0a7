package llm

import "strings"

// Provider identifies a generation backend.
type Provider string

const (
	ProviderOllama     Provider = "ollama"
	ProviderGroq       Provider = "groq"
	ProviderOpenRouter Provider = "openrouter"
	ProviderGitHub     Provider = "github"
	ProviderOpenAI     Provider = "openai"
	ProviderClaude     Provider = "claude"
	ProviderGemini     Provider = "gemini"
	ProviderGrok       Provider = "grok"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderGoogle     Provider = "google"
	ProviderBedrock    Provider = "bedrock"
)

// Wire is the protocol a provider speaks.
type Wire int

const (
	WireOpenAI Wire = iota
	WireGemini
	WireBedrock
)

type providerSpec struct {
	baseURL       string
	model         string
	credentialKey string
	wire          Wire
}

// priority is the global fallback order. Ollama is listed for completeness;
// Resolve always places it first when configured.
var priority = []Provider{
	ProviderOllama,
	ProviderGroq,
	ProviderOpenRouter,
	ProviderGitHub,
	ProviderOpenAI,
	ProviderClaude,
	ProviderGemini,
	ProviderGrok,
	ProviderDeepSeek,
	ProviderGoogle,
	ProviderBedrock,
}

var providerTable = map[Provider]providerSpec{
	ProviderOllama:     {baseURL: "http://localhost:11434/v1", model: "deepseek-r1:8b", wire: WireOpenAI},
	ProviderGroq:       {baseURL: "https://api.groq.com/openai/v1", model: "llama-3.3-70b-versatile", credentialKey: "GROQ_API_KEYS", wire: WireOpenAI},
	ProviderOpenRouter: {baseURL: "https://openrouter.ai/api/v1", model: "meta-llama/llama-3.3-70b-instruct:free", credentialKey: "OPENROUTER_API_KEYS", wire: WireOpenAI},
	ProviderGitHub:     {baseURL: "https://models.github.ai/inference", model: "openai/gpt-4o", credentialKey: "GITHUB_API_KEYS", wire: WireOpenAI},
	ProviderOpenAI:     {baseURL: "https://api.openai.com/v1", model: "gpt-4o-mini", credentialKey: "OPENAI_API_KEYS", wire: WireOpenAI},
	ProviderClaude:     {baseURL: "https://openrouter.ai/api/v1", model: "meta-llama/llama-3.3-70b-instruct:free", credentialKey: "OPENROUTER_API_KEYS", wire: WireOpenAI},
	ProviderGemini:     {baseURL: "https://openrouter.ai/api/v1", model: "google/gemini-2.0-flash-exp:free", credentialKey: "OPENROUTER_API_KEYS", wire: WireOpenAI},
	ProviderGrok:       {baseURL: "https://api.x.ai/v1", model: "grok-2-latest", credentialKey: "XAI_API_KEYS", wire: WireOpenAI},
	ProviderDeepSeek:   {baseURL: "https://api.deepseek.com/v1", model: "deepseek-chat", credentialKey: "DEEPSEEK_API_KEYS", wire: WireOpenAI},
	ProviderGoogle:     {model: "gemini-2.5-flash", credentialKey: "GOOGLE_API_KEYS", wire: WireGemini},
	ProviderBedrock:    {wire: WireBedrock},
}

// Providers returns every known provider in global priority order.
func Providers() []Provider {
	out := make([]Provider, len(priority))
	copy(out, priority)
	return out
}

// CredentialKeys returns the distinct env keys that hold provider credentials.
func CredentialKeys() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, p := range priority {
		key := providerTable[p].credentialKey
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// ModelOverrideKey is the env var that pins this provider's model, e.g. GROQ_MODEL.
func (p Provider) ModelOverrideKey() string {
	return strings.ToUpper(string(p)) + "_MODEL"
}

// Wire reports the protocol used to reach the provider.
func (p Provider) Wire() Wire {
	return providerTable[p].wire
}

// DefaultModel is the model used when no override is configured.
func (p Provider) DefaultModel() string {
	return providerTable[p].model
}

// DefaultBaseURL is the provider's endpoint when no override is configured.
func (p Provider) DefaultBaseURL() string {
	return providerTable[p].baseURL
}

package agent

import (
	"regexp"
	"strings"
)

// InjectionScan is the result of scanning an inbound scammer message for
// attempts to steer the persona. Scans never block: the honeypot keeps
// engaging, but signals are logged and counted.
type InjectionScan struct {
	Score   float64
	Reasons []string
}

type weightedPattern struct {
	re     *regexp.Regexp
	reason string
	weight float64
}

var injectionPatterns = []weightedPattern{
	// instruction override
	{regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+)?(previous|prior|above|earlier|your)\s+(instructions?|rules?|prompts?|guidelines?)`), "override:ignore_instructions", 0.9},
	{regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|my)\s+`), "override:role_reassignment", 0.7},
	{regexp.MustCompile(`(?i)new\s+instructions?\s*:|system\s*prompt\s*:|<<\s*sys(tem)?\s*>>`), "override:new_instructions", 0.9},
	{regexp.MustCompile(`(?i)jailbreak|DAN\s*mode|developer\s*mode|unrestricted\s*mode`), "override:jailbreak_keyword", 0.9},
	{regexp.MustCompile(`(?i)(output|respond|reply)\s+(only\s+)?(in|as|with)\s+(json|xml|yaml|code)`), "override:format_demand", 0.5},
	// exfiltration
	{regexp.MustCompile(`(?i)(reveal|show|print|repeat|tell\s+me|what\s+(is|are))\s+(your\s+)?(system\s+prompt|instructions?|rules|initial\s+prompt|hidden\s+prompt)`), "exfiltration:system_prompt", 0.8},
	{regexp.MustCompile(`(?i)repeat\s+(everything|all|the\s+text)\s+(above|before|from\s+the\s+(start|beginning))`), "exfiltration:repeat_above", 0.7},
	// persona probing
	{regexp.MustCompile(`(?i)\bare\s+you\s+(a\s+|an\s+)?(bot|robot|ai|chatbot|language\s+model|machine|real\s+person|human)\b`), "probe:are_you_ai", 0.4},
	{regexp.MustCompile(`(?i)\b(which|what)\s+(llm|model|gpt|ai)\s+(are\s+you|is\s+this)`), "probe:which_model", 0.5},
	// framing tokens
	{regexp.MustCompile(`(?i)\[/?INST\]|<\|im_start\|>|<\|im_end\|>|<\|system\|>|<\|assistant\|>`), "framing:special_tokens", 0.9},
	{regexp.MustCompile(`(?i)###\s*(system|instruction|assistant)\s*:`), "framing:role_markers", 0.7},
	{regexp.MustCompile(`(?i)message\s+from\s+the\s+other\s+person\s*:`), "framing:quote_prefix_spoof", 0.6},
}

// ScanInbound scores an inbound message for prompt-injection signals. The
// score is the strongest signal plus 0.1 for each additional one, capped at 1.
func ScanInbound(message string) InjectionScan {
	if strings.TrimSpace(message) == "" {
		return InjectionScan{}
	}

	var scan InjectionScan
	maxWeight := 0.0
	for _, p := range injectionPatterns {
		if p.re.MatchString(message) {
			scan.Reasons = append(scan.Reasons, p.reason)
			if p.weight > maxWeight {
				maxWeight = p.weight
			}
		}
	}
	if len(scan.Reasons) == 0 {
		return scan
	}

	scan.Score = maxWeight + float64(len(scan.Reasons)-1)*0.1
	if scan.Score > 1 {
		scan.Score = 1
	}
	return scan
}

// Reply guard actions.
const (
	GuardPass      = "pass"
	GuardScrubbed  = "scrubbed"
	GuardDeflected = "deflected"
)

// deflection replaces a reply that cannot be salvaged. It stays in persona.
const deflection = "Sorry, I didn't quite get that. What do you mean?"

// ReplyGuardResult describes what the outbound guard did to a reply.
type ReplyGuardResult struct {
	Action  string
	Reasons []string
	Reply   string
}

type leakPattern struct {
	re     *regexp.Regexp
	reason string
	// scrub marks leaks that can be cut out; everything else replaces the reply.
	scrub bool
}

var leakPatterns = []leakPattern{
	// instruction leaks
	{regexp.MustCompile(`(?i)my (system\s+)?prompt\s+(is|says|tells|instructs)`), "leak:system_prompt", false},
	{regexp.MustCompile(`(?i)my instructions?\s+(are|say|tell|include|require)`), "leak:instructions", false},
	{regexp.MustCompile(`(?i)i('m| am) (programmed|instructed|told|designed|configured) to`), "leak:programming", false},
	{regexp.MustCompile(`(?i)(here are|these are|the following are)\s+(my )?(system )?(instructions|rules|guidelines)`), "leak:rules_listing", false},
	{regexp.MustCompile(`(?i)message\s+from\s+the\s+other\s+person\s*:`), "leak:quote_prefix", false},
	{regexp.MustCompile(`(?i)strict rules \(never break these\)`), "leak:prompt_echo", false},
	// identity
	{regexp.MustCompile(`(?i)\b(i('m| am)|as) (a|an) (AI|artificial intelligence|language model|LLM|chatbot|chat bot|bot|virtual assistant)\b`), "leak:ai_identity", true},
	{regexp.MustCompile(`(?i)(powered by|built on|running on)\s+(Claude|GPT|OpenAI|Anthropic|Llama|Gemini|Groq|Bedrock)`), "leak:tech_stack", false},
	// credentials
	{regexp.MustCompile(`(?i)(api[_\s]?key|secret[_\s]?key|access[_\s]?token|bearer\s+token)\s*[:=]\s*\S+`), "leak:credential", false},
	{regexp.MustCompile(`\b(sk-[A-Za-z0-9_\-]{20,}|gsk_[A-Za-z0-9]{20,}|xai-[A-Za-z0-9]{20,})`), "leak:provider_key", false},
	{regexp.MustCompile(`AKIA[A-Z0-9]{16}`), "leak:aws_key", false},
}

var aiIdentitySentence = regexp.MustCompile(`(?i)[^.!?]*\b(i('m| am)|as) (a|an) (AI|artificial intelligence|language model|LLM|chatbot|chat bot|bot|virtual assistant)\b[^.!?]*[.!?]?\s*`)

// GuardReply checks a sanitized reply before it leaves the service. AI-identity
// sentences are cut out; instruction or credential leaks replace the whole
// reply with an in-persona deflection.
func GuardReply(reply string) ReplyGuardResult {
	if strings.TrimSpace(reply) == "" {
		return ReplyGuardResult{Action: GuardPass, Reply: reply}
	}

	var reasons []string
	replace := false
	for _, p := range leakPatterns {
		if p.re.MatchString(reply) {
			reasons = append(reasons, p.reason)
			if !p.scrub {
				replace = true
			}
		}
	}
	if len(reasons) == 0 {
		return ReplyGuardResult{Action: GuardPass, Reply: reply}
	}

	if !replace {
		if scrubbed := strings.TrimSpace(aiIdentitySentence.ReplaceAllString(reply, "")); scrubbed != "" {
			return ReplyGuardResult{Action: GuardScrubbed, Reasons: reasons, Reply: scrubbed}
		}
	}
	return ReplyGuardResult{Action: GuardDeflected, Reasons: reasons, Reply: deflection}
}

// Package intel extracts actionable artifacts (accounts, payment handles,
// phone numbers, links, flagged terms) from scammer conversation text.
package intel

import (
	"encoding/json"
	"regexp"
	"strings"
)

// maxFallbackPaymentIDs caps broad local@domain matches, which also catch ordinary email addresses.
const maxFallbackPaymentIDs = 5

var (
	bankAccountPattern = regexp.MustCompile(`\b\d{4}[\s-]*\d{4}[\s-]*\d{4}\b`)
	paymentIDPattern   = regexp.MustCompile(`(?i)[\w.\-]+@(?:paytm|phonepe|gpay|okaxis|okicici|okhdfcbank|oksbi|ybl|axl|ibl|upi|apl)\b`)
	paymentIDFallback  = regexp.MustCompile(`\b[\w.\-]+@[\w.]+\b`)
	phonePattern       = regexp.MustCompile(`(?:\+91|91|0)?[6-9]\d{9}\b`)
	linkPattern        = regexp.MustCompile(`(?i)https?://[^\s<>"']+`)
	separatorReplacer  = strings.NewReplacer(" ", "", "-", "", "\t", "", "\n", "", "\r", "")
)

// Keywords is the fixed vocabulary reported in canonical spelling.
var Keywords = []string{
	"urgent", "verify", "blocked", "suspend", "OTP", "UPI", "bank account",
	"click here", "winner", "prize", "refund", "immediately", "asap",
}

// Intelligence is the set of artifacts found in a conversation. Each list is
// duplicate-free and keeps first-seen order.
type Intelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// MarshalJSON renders absent categories as empty arrays rather than null.
func (i Intelligence) MarshalJSON() ([]byte, error) {
	type wire Intelligence
	return json.Marshal(wire(i.normalized()))
}

// IsEmpty reports whether no category has any entry.
func (i Intelligence) IsEmpty() bool {
	return len(i.BankAccounts) == 0 &&
		len(i.UPIIDs) == 0 &&
		len(i.PhishingLinks) == 0 &&
		len(i.PhoneNumbers) == 0 &&
		len(i.SuspiciousKeywords) == 0
}

// LogAttrs returns per-category counts suitable for structured logging.
func (i Intelligence) LogAttrs() []any {
	return []any{
		"bank_count", len(i.BankAccounts),
		"upi_count", len(i.UPIIDs),
		"links_count", len(i.PhishingLinks),
		"phones_count", len(i.PhoneNumbers),
		"keywords_count", len(i.SuspiciousKeywords),
	}
}

func (i Intelligence) normalized() Intelligence {
	return Intelligence{
		BankAccounts:       nonNil(i.BankAccounts),
		UPIIDs:             nonNil(i.UPIIDs),
		PhishingLinks:      nonNil(i.PhishingLinks),
		PhoneNumbers:       nonNil(i.PhoneNumbers),
		SuspiciousKeywords: nonNil(i.SuspiciousKeywords),
	}
}

// Extract scans text for every category independently; a span may feed
// several categories.
func Extract(text string) Intelligence {
	var banks []string
	for _, m := range bankAccountPattern.FindAllString(text, -1) {
		banks = append(banks, separatorReplacer.Replace(m))
	}

	upi := dedupe(paymentIDPattern.FindAllString(text, -1), false)
	if len(upi) == 0 {
		upi = dedupe(paymentIDFallback.FindAllString(text, -1), false)
		if len(upi) > maxFallbackPaymentIDs {
			upi = upi[:maxFallbackPaymentIDs]
		}
	}

	var links []string
	for _, m := range linkPattern.FindAllString(text, -1) {
		if link := strings.TrimRight(m, ".,;:!?)]}"); link != "" {
			links = append(links, link)
		}
	}

	lower := strings.ToLower(text)
	var words []string
	for _, kw := range Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			words = append(words, kw)
		}
	}

	return Intelligence{
		BankAccounts:       dedupe(banks, false),
		UPIIDs:             upi,
		PhishingLinks:      dedupe(links, false),
		PhoneNumbers:       dedupe(phonePattern.FindAllString(text, -1), false),
		SuspiciousKeywords: nonNil(words),
	}
}

// Merge returns the per-category union of existing and next. Entries of
// existing come first; keyword comparison ignores case and keeps the first spelling.
func Merge(existing, next Intelligence) Intelligence {
	return Intelligence{
		BankAccounts:       dedupe(concat(existing.BankAccounts, next.BankAccounts), false),
		UPIIDs:             dedupe(concat(existing.UPIIDs, next.UPIIDs), false),
		PhishingLinks:      dedupe(concat(existing.PhishingLinks, next.PhishingLinks), false),
		PhoneNumbers:       dedupe(concat(existing.PhoneNumbers, next.PhoneNumbers), false),
		SuspiciousKeywords: dedupe(concat(existing.SuspiciousKeywords, next.SuspiciousKeywords), true),
	}
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func dedupe(values []string, foldCase bool) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := v
		if foldCase {
			key = strings.ToLower(v)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

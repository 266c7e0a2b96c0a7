package detection

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
)

const (
	// DefaultThreshold is the score at or above which a message is treated as a scam.
	DefaultThreshold = 0.33
	// DefaultSaturationHits is the number of distinct signals that saturates the score at 1.
	DefaultSaturationHits = 3
	// maxKeywordHits caps the external word list so the pattern catalogue still matters.
	maxKeywordHits = 2
)

// Policy holds the tunable parts of the decision procedure.
type Policy struct {
	Threshold      float64
	SaturationHits int
	ConfirmEnabled bool
}

// DefaultPolicy returns the stock threshold and saturation with confirmation on.
func DefaultPolicy() Policy {
	return Policy{
		Threshold:      DefaultThreshold,
		SaturationHits: DefaultSaturationHits,
		ConfirmEnabled: true,
	}
}

// Score maps a signal count into [0,1].
func (p Policy) Score(hits int) float64 {
	saturation := p.SaturationHits
	if saturation <= 0 {
		saturation = DefaultSaturationHits
	}
	return math.Min(1, float64(hits)/float64(saturation))
}

// IsScam reports whether score crosses the threshold.
func (p Policy) IsScam(score float64) bool {
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return score >= threshold
}

type scamPattern struct {
	re    *regexp.Regexp
	theme string
}

// scamPatterns is the training-free catalogue. Each entry counts at most once per text.
var scamPatterns = []scamPattern{
	// account status
	{regexp.MustCompile(`(?i)\b(blocked|suspend|suspended|freeze|frozen|deactivat(e|ed)|reactivat(e|ion))\b`), "account_status"},
	{regexp.MustCompile(`(?i)\b(account\s*(block|lock|suspend|freeze)|lock(ed)?\s*account)\b`), "account_lock"},
	{regexp.MustCompile(`(?i)\b(verify|verification|confirm|kyc|know\s*your\s*customer)\s*(now|immediately|urgent|mandatory)?\b`), "verification"},
	// OTP / UPI / banking
	{regexp.MustCompile(`(?i)\b(otp|one[\s.]*time[\s.]*password|one[\s.]*time[\s.]*pin)\b`), "otp"},
	{regexp.MustCompile(`(?i)\bupi\s*(id|link|pin|number)?\b`), "upi"},
	{regexp.MustCompile(`(?i)\b(bank\s*account|account\s*block|branch\s*name|ifsc|aadhaar|pan\s*card)\b`), "banking"},
	{regexp.MustCompile(`(?i)\b(card\s*number|cvv|pin\s*code|atm\s*pin)\b`), "card_data"},
	{regexp.MustCompile(`(?i)\b(transfer\s*(money|funds)|send\s*money|pay\s*now)\b`), "money_transfer"},
	// urgency
	{regexp.MustCompile(`(?i)\b(urgent|immediately|asap|right\s*now|within\s*\d+\s*(min|hour|day)|expir(e|es|ing))\b`), "urgency"},
	{regexp.MustCompile(`(?i)\b(act\s*now|don't\s*delay|last\s*chance|limited\s*time)\b`), "fomo"},
	// phishing
	{regexp.MustCompile(`(?i)\b(click\s*(here|link|now)|link\s*below|open\s*link|secure\s*link)\b`), "link_cue"},
	{regexp.MustCompile(`(?i)\b(https?://|bit\.ly|tinyurl|short\s*link)`), "link"},
	{regexp.MustCompile(`(?i)\b(phish|malicious|fraud|scam|fake)\b`), "fraud_word"},
	// lottery
	{regexp.MustCompile(`(?i)\b(winner|won|prize|reward|lottery|jackpot)\s*(claim|click|collect)\b`), "prize"},
	{regexp.MustCompile(`(?i)\b(congratulations\s*you\s*won|you\s*have\s*won)\b`), "you_won"},
	// refund / too good to be true
	{regexp.MustCompile(`(?i)\b(refund|cashback|reward)\s*(link|click|claim|avail)\b`), "refund"},
	{regexp.MustCompile(`(?i)\b(free\s*gift|free\s*money|double\s*your\s*money)\b`), "free_money"},
	// impersonation
	{regexp.MustCompile(`(?i)\b(income\s*tax|tax\s*department|reserve\s*bank|rbi|police\s*complaint)\b`), "authority"},
	{regexp.MustCompile(`(?i)\b(customer\s*care\s*number|helpline\s*number|call\s*this\s*number)\b`), "call_number"},
}

// Scorer counts scam signals in free text.
type Scorer struct {
	keywords []string
}

// NewScorer builds a scorer with an optional extra keyword list. Keywords are
// matched as case-insensitive substrings.
func NewScorer(keywords []string) *Scorer {
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	return &Scorer{keywords: cleaned}
}

// LoadKeywords reads a line-delimited keyword file, skipping blank lines.
func LoadKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("detection: open keywords file: %w", err)
	}
	defer f.Close()

	var keywords []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			keywords = append(keywords, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("detection: read keywords file: %w", err)
	}
	return keywords, nil
}

// Signals returns the themes of every catalogue pattern that fired, in catalogue order.
func (s *Scorer) Signals(text string) []string {
	var themes []string
	for _, p := range scamPatterns {
		if p.re.MatchString(text) {
			themes = append(themes, p.theme)
		}
	}
	return themes
}

// Hits counts distinct pattern matches plus capped keyword-list matches.
func (s *Scorer) Hits(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	hits := len(s.Signals(text))

	lower := strings.ToLower(text)
	keywordHits := 0
	for _, kw := range s.keywords {
		if strings.Contains(lower, kw) {
			keywordHits++
			if keywordHits == maxKeywordHits {
				break
			}
		}
	}
	return hits + keywordHits
}

// Score returns the default-policy score for text.
func (s *Scorer) Score(text string) float64 {
	return DefaultPolicy().Score(s.Hits(text))
}

package intel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScam = "Pay to 1234 5678 9012 via scammer@paytm, call +919876543210, click http://evil.example.com. Urgent!"

func TestExtract_Sample(t *testing.T) {
	got := Extract(sampleScam)

	assert.Contains(t, got.BankAccounts, "123456789012")
	assert.Equal(t, []string{"scammer@paytm"}, got.UPIIDs)
	assert.Contains(t, got.PhoneNumbers, "+919876543210")
	assert.Equal(t, []string{"http://evil.example.com"}, got.PhishingLinks)
	assert.Equal(t, []string{"urgent"}, got.SuspiciousKeywords)
}

func TestExtract_Empty(t *testing.T) {
	got := Extract("")
	assert.True(t, got.IsEmpty())

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bankAccounts":[],"upiIds":[],"phishingLinks":[],"phoneNumbers":[],"suspiciousKeywords":[]}`, string(raw))
}

func TestExtract_BankAccountSeparators(t *testing.T) {
	got := Extract("acct 1111-2222-3333 or 111122223333 or 1111 2222 3333")
	assert.Equal(t, []string{"111122223333"}, got.BankAccounts)
}

func TestExtract_PaymentIDs(t *testing.T) {
	t.Run("allowlist wins over fallback", func(t *testing.T) {
		got := Extract("send to ravi.k@okhdfcbank or mail support@example.com")
		assert.Equal(t, []string{"ravi.k@okhdfcbank"}, got.UPIIDs)
	})

	t.Run("allowlist is case insensitive", func(t *testing.T) {
		got := Extract("pay RAVI@YBL now")
		assert.Equal(t, []string{"RAVI@YBL"}, got.UPIIDs)
	})

	t.Run("fallback capped", func(t *testing.T) {
		got := Extract("a@x b@x c@x d@x e@x f@x g@x")
		assert.Equal(t, []string{"a@x", "b@x", "c@x", "d@x", "e@x"}, got.UPIIDs)
	})
}

func TestExtract_Phones(t *testing.T) {
	got := Extract("call 9876543210 or 09876543211, not 5876543210")
	assert.Equal(t, []string{"9876543210", "09876543211"}, got.PhoneNumbers)
}

func TestExtract_KeywordsCanonicalCatalogueOrder(t *testing.T) {
	got := Extract("IMMEDIATELY share otp, account BLOCKED, otp again")
	assert.Equal(t, []string{"blocked", "OTP", "immediately"}, got.SuspiciousKeywords)
}

func TestExtract_LinksDeduped(t *testing.T) {
	got := Extract(`visit https://a.example/x, then "https://a.example/x" and (http://b.example)`)
	assert.Equal(t, []string{"https://a.example/x", "http://b.example"}, got.PhishingLinks)
}

func TestMerge_IdempotentOnSelf(t *testing.T) {
	x := Extract(sampleScam)
	assert.Equal(t, x, Merge(x, x))
}

func TestMerge_UnionPreservesOrder(t *testing.T) {
	a := Intelligence{
		BankAccounts:       []string{"111122223333"},
		PhoneNumbers:       []string{"9876543210"},
		SuspiciousKeywords: []string{"urgent", "OTP"},
	}
	b := Intelligence{
		BankAccounts:       []string{"444455556666", "111122223333"},
		UPIIDs:             []string{"x@ybl"},
		SuspiciousKeywords: []string{"otp", "prize"},
	}

	got := Merge(a, b)
	assert.Equal(t, []string{"111122223333", "444455556666"}, got.BankAccounts)
	assert.Equal(t, []string{"x@ybl"}, got.UPIIDs)
	assert.Equal(t, []string{"9876543210"}, got.PhoneNumbers)
	assert.Equal(t, []string{"urgent", "OTP", "prize"}, got.SuspiciousKeywords)
	assert.Empty(t, got.PhishingLinks)

	reversed := Merge(b, a)
	assert.ElementsMatch(t, got.BankAccounts, reversed.BankAccounts)
	assert.Len(t, reversed.SuspiciousKeywords, 3)
}

func TestMarshalUsesExternalFieldNames(t *testing.T) {
	raw, err := json.Marshal(Intelligence{UPIIDs: []string{"a@upi"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"bankAccounts":[],"upiIds":["a@upi"],"phishingLinks":[],"phoneNumbers":[],"suspiciousKeywords":[]}`, string(raw))
}

package payfast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceNotification() Notification {
	return Notification{
		"merchant_id":    "10000100",
		"m_payment_id":   "PMT1",
		"pf_payment_id":  "PF1",
		"payment_status": "COMPLETE",
		"item_name":      "Course A",
		"amount_gross":   "100.00",
		"amount_fee":     "3.30",
		"amount_net":     "96.70",
	}
}

const referenceParamString = "amount_fee=3.30&amount_gross=100.00&amount_net=96.70&item_name=Course+A&m_payment_id=PMT1&merchant_id=10000100&payment_status=COMPLETE&pf_payment_id=PF1"

func TestSigner_ParamStringIsSortedAndEncoded(t *testing.T) {
	signer := NewSigner("")

	assert.Equal(t, referenceParamString, signer.ParamString(referenceNotification()))
	assert.Equal(t, "5774ab902b6e3bada3c275a3078a3044", signer.Sign(referenceNotification()))
}

func TestSigner_ExcludesSignatureAndEmptyFields(t *testing.T) {
	signer := NewSigner("")

	n := referenceNotification()
	n["signature"] = "deadbeef"
	n["custom_str3"] = ""
	n["name_first"] = ""

	assert.Equal(t, referenceParamString, signer.ParamString(n))
}

func TestSigner_AppendsEncodedPassphrase(t *testing.T) {
	signer := NewSigner("my secret phrase")

	assert.Equal(t, referenceParamString+"&passphrase=my+secret+phrase", signer.ParamString(referenceNotification()))
	assert.Equal(t, "e75fc5b4ea159500ba36c75e06737759", signer.Sign(referenceNotification()))
}

func TestSigner_IsDeterministic(t *testing.T) {
	signer := NewSigner("jt7NOE43FZPn")

	first := signer.Sign(referenceNotification())
	for i := 0; i < 50; i++ {
		// Map iteration order differs run to run; the digest must not.
		require.Equal(t, first, signer.Sign(referenceNotification()))
	}
	assert.Equal(t, "52c6efc18c2e074501f56ee919a8d84d", first)
}

func TestSigner_AnyFieldChangeChangesDigest(t *testing.T) {
	signer := NewSigner("")
	base := signer.Sign(referenceNotification())

	for key := range referenceNotification() {
		n := referenceNotification()
		n[key] = n[key] + "x"
		assert.NotEqual(t, base, signer.Sign(n), "changing %s must change the digest", key)
	}
}

func TestSigner_Verify(t *testing.T) {
	signer := NewSigner("passphrase")

	n := referenceNotification()
	n["signature"] = signer.Sign(n)
	assert.True(t, signer.Verify(n))

	n["amount_gross"] = "1.00"
	assert.False(t, signer.Verify(n))

	other := referenceNotification()
	other["signature"] = NewSigner("").Sign(other)
	assert.False(t, signer.Verify(other), "signature made without the passphrase must not verify")
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Course A", "Course+A"},
		{"a&b=c", "a%26b%3Dc"},
		{"john.doe@example.com", "john.doe%40example.com"},
		{"keep-_.!~*'()", "keep-_.!~*'()"},
		{"100%", "100%25"},
		{"a+b", "a%2Bb"},
		{"café", "caf%C3%A9"},
		{"/path?q", "%2Fpath%3Fq"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeValue(tt.in))
		})
	}
}

package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Signer computes and verifies ITN signatures.
type Signer struct {
	passphrase string
}

// NewSigner creates a Signer. An empty passphrase is omitted from the signed string.
func NewSigner(passphrase string) *Signer {
	return &Signer{passphrase: passphrase}
}

// ParamString builds the string that is hashed: non-empty fields other than the
// signature, sorted by name, value-encoded and joined with '&', followed by the
// passphrase when one is configured.
func (s *Signer) ParamString(n Notification) string {
	keys := make([]string, 0, len(n))
	for key, value := range n {
		if key == FieldSignature || value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(encodeValue(n[key]))
	}

	if s.passphrase != "" {
		b.WriteString("&passphrase=")
		b.WriteString(encodeValue(s.passphrase))
	}

	return b.String()
}

// Sign returns the lowercase hex MD5 of the parameter string.
func (s *Signer) Sign(n Notification) string {
	sum := md5.Sum([]byte(s.ParamString(n)))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the notification's signature field matches a freshly computed one.
// TODO: compare with subtle.ConstantTimeCompare.
func (s *Signer) Verify(n Notification) bool {
	return n.Signature() == s.Sign(n)
}

const upperhex = "0123456789ABCDEF"

// encodeValue percent-encodes everything outside the URI-component unreserved set
// (A-Z a-z 0-9 - _ . ! ~ * ' ( )) and then writes spaces as '+'.
func encodeValue(value string) string {
	var b strings.Builder
	b.Grow(len(value) * 3)
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case isUnreserved(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

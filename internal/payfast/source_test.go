package payfast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceAuthenticator_TrustsEverythingOutsideProduction(t *testing.T) {
	for _, auth := range []*SourceAuthenticator{
		NewSourceAuthenticator(true, false),
		NewSourceAuthenticator(false, true),
	} {
		for _, addr := range []string{"8.8.8.8", "", "not-an-ip", "10.0.0.1"} {
			assert.True(t, auth.Allowed(addr), addr)
		}
	}
}

func TestSourceAuthenticator_Production(t *testing.T) {
	auth := NewSourceAuthenticator(false, false)

	tests := []struct {
		addr string
		want bool
	}{
		{"197.97.145.144", true},
		{"197.97.145.159", true},
		{"197.97.145.160", false},
		{"41.74.179.192", true},
		{"41.74.179.223", true},
		{"41.74.179.224", false},
		{"196.11.240.1", true},
		{"196.11.243.255", true},
		{"196.11.244.0", false},
		{"127.0.0.1", true},
		{"::1", true},
		{"::ffff:127.0.0.1", true},
		{"::ffff:196.11.241.10", true},
		{"196.11.241.10:443", true},
		{" 41.74.179.200 ", true},
		{"8.8.8.8", false},
		// Substring matching on the range text would have accepted these.
		{"1197.97.145.144", false},
		{"41.74.179.1920", false},
		{"", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.Allowed(tt.addr))
		})
	}
}

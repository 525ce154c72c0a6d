package payfast

import (
	"net/netip"
	"strings"
)

// notifierRanges are the networks PayFast sends production notifications from.
var notifierRanges = []netip.Prefix{
	netip.MustParsePrefix("197.97.145.144/28"),
	netip.MustParsePrefix("41.74.179.192/27"),
	netip.MustParsePrefix("196.11.240.0/22"),
}

// SourceAuthenticator decides whether a claimed origin address is an accepted notifier.
type SourceAuthenticator struct {
	trustAll bool
	ranges   []netip.Prefix
}

// NewSourceAuthenticator creates a SourceAuthenticator. In sandbox or development
// mode every address is accepted.
func NewSourceAuthenticator(sandbox, development bool) *SourceAuthenticator {
	return &SourceAuthenticator{
		trustAll: sandbox || development,
		ranges:   notifierRanges,
	}
}

// Allowed reports whether the address may deliver notifications.
func (a *SourceAuthenticator) Allowed(address string) bool {
	if a.trustAll {
		return true
	}

	addr, ok := parseAddr(address)
	if !ok {
		return false
	}
	if addr.IsLoopback() {
		return true
	}
	for _, prefix := range a.ranges {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// parseAddr accepts a bare address or host:port and unmaps IPv4-in-IPv6 forms.
func parseAddr(address string) (netip.Addr, bool) {
	address = strings.TrimSpace(address)
	if address == "" {
		return netip.Addr{}, false
	}
	if addr, err := netip.ParseAddr(address); err == nil {
		return addr.Unmap(), true
	}
	if addrPort, err := netip.ParseAddrPort(address); err == nil {
		return addrPort.Addr().Unmap(), true
	}
	return netip.Addr{}, false
}

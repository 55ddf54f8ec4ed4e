// Package network decides whether a caller's address belongs to the trusted
// hospital subnet. Malformed input is treated as untrusted, never as an error:
// the check must fail closed.
package network

import (
	"fmt"
	"net/netip"
)

// Classifier checks membership in the trusted subnet configured at startup.
type Classifier struct {
	trusted netip.Prefix
}

// NewClassifier parses the trusted CIDR range. The CIDR is operator-supplied
// configuration, so a parse failure here is a startup error.
func NewClassifier(cidr string) (*Classifier, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("parse trusted CIDR %q: %w", cidr, err)
	}
	return &Classifier{trusted: prefix.Masked()}, nil
}

// IsTrusted reports whether ip falls inside the trusted subnet.
// Malformed addresses are untrusted.
func (c *Classifier) IsTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return c.trusted.Contains(addr.Unmap())
}

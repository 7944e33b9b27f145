package gateway

import (
	"fmt"
	"net/netip"

	"github.com/naviai/smsgate/internal/domain"
)

// Authorized reports whether source is contained in at least one of the
// profile's allowed CIDR ranges. An empty range set authorizes nothing. A
// range that does not parse is an error (malformed stored data), not a
// silent deny: the profile is trusted operator input and a bad entry means
// something upstream is broken.
func Authorized(source netip.Addr, allowedCIDRs []string) (bool, error) {
	// Normalize 4-in-6 addresses so "::ffff:203.0.113.5" matches an
	// IPv4 range.
	source = source.Unmap()

	for _, cidr := range allowedCIDRs {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return false, fmt.Errorf("gateway: cidr %q: %w", cidr, domain.ErrBadAllowList)
		}
		if prefix.Contains(source) {
			return true, nil
		}
	}
	return false, nil
}

// parseSourceIP parses the trigger-supplied source address. A failure is an
// internal fault: the address comes from trusted trigger metadata, so an
// unparseable value indicates upstream misconfiguration rather than a
// hostile caller.
func parseSourceIP(raw string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("gateway: source ip %q: %w", raw, domain.ErrBadSourceIP)
	}
	return addr, nil
}

package validators

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

// reserved names (RFC 2606 / 6761) never receive mail
var reservedSuffixes = []string{".invalid", ".test", ".example", ".localhost", ".local"}

// EmailDomain returns the lowercased domain of a parseable address.
func EmailDomain(email string) (string, bool) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", false
	}

	at := strings.LastIndex(addr.Address, "@")
	if at < 0 || at == len(addr.Address)-1 {
		return "", false
	}
	return strings.ToLower(strings.TrimSuffix(addr.Address[at+1:], ".")), true
}

// IsEmailDomainValid is used before giving a barber panel access: the
// address must belong to a domain that can actually receive the login mail.
func IsEmailDomainValid(email string) bool {
	domain, ok := EmailDomain(email)
	if !ok || !strings.Contains(domain, ".") {
		return false
	}
	for _, s := range reservedSuffixes {
		if strings.HasSuffix("."+domain, s) {
			return false
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	var r net.Resolver
	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	// sem MX, vale o registro A/AAAA (RFC 5321 §5.1)
	if ips, err := r.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}

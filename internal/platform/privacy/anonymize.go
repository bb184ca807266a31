// Package privacy reduces personal data before it reaches operational logs.
// Audit records keep the full values; log lines use these forms.
package privacy

import (
	"net/netip"
	"strings"
)

// AnonymizeIP masks an address to its network: /24 for IPv4, /48 for IPv6.
// Returns "unknown" for empty input and "invalid" for unparseable input.
func AnonymizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(strings.Trim(ip, "[]"))
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// MaskEmail keeps the first character of the local part and the domain,
// e.g. "owner@shop.test" becomes "o***@shop.test".
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return "***"
	}
	return local[:1] + "***@" + strings.ToLower(domain)
}

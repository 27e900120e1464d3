// Package weburl fetches web pages as corpus text. URL validation blocks
// SSRF targets (localhost, private and reserved IP ranges, local domains)
// before any request is made, and the fetcher re-validates resolved IPs to
// defeat DNS rebinding.
package weburl

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// Pre-compiled CIDR networks for reserved ranges not covered by the
// net.IP helpers.
var (
	cgnat    *net.IPNet // 100.64.0.0/10 carrier-grade NAT
	v6unique *net.IPNet // fc00::/7 IPv6 unique local
	v6link   *net.IPNet // fe80::/10 IPv6 link-local
)

// sourceIDPattern validates web source IDs.
var sourceIDPattern = regexp.MustCompile(`^corpus\.web\.[0-9a-f]{12}$`)

func init() {
	for _, c := range []struct {
		cidr string
		out  **net.IPNet
	}{
		{"100.64.0.0/10", &cgnat},
		{"fc00::/7", &v6unique},
		{"fe80::/10", &v6link},
	} {
		_, parsed, err := net.ParseCIDR(c.cidr)
		if err != nil {
			panic("invalid reserved CIDR " + c.cidr + ": " + err.Error())
		}
		*c.out = parsed
	}
}

// ValidateURL checks a URL against the fetch policy: HTTPS only, no
// localhost, no private or reserved IPs, no .local/.internal domains.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed")
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return fmt.Errorf("localhost URLs are not allowed")
	}
	if strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("local domain URLs are not allowed")
	}

	if ip := net.ParseIP(host); ip != nil && IsPrivateIP(ip) {
		return fmt.Errorf("private IP addresses are not allowed")
	}

	return nil
}

// IsPrivateIP reports whether an IP falls in a private or reserved range.
// Handles IPv4, IPv6, and IPv6-mapped IPv4 addresses.
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	// Unmap ::ffff:x.x.x.x and re-check as IPv4.
	if v4 := ip.To4(); v4 != nil {
		ip = v4
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			return true
		}
	}

	return cgnat.Contains(ip) || v6unique.Contains(ip) || v6link.Contains(ip)
}

// SourceID derives a stable corpus source ID from a URL. The same URL
// always yields the same ID.
func SourceID(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return "corpus.web." + hex.EncodeToString(sum[:6])
}

// ValidSourceID reports whether an ID has the corpus.web.<hash> form.
func ValidSourceID(id string) bool {
	return sourceIDPattern.MatchString(id)
}

// Domain extracts the hostname from a URL, or "" if the URL is invalid.
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

package http

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ClientIPResolver identifies the client behind a request. X-Forwarded-For
// is only consulted when the direct peer is a configured trusted proxy.
type ClientIPResolver struct {
	trusted []*net.IPNet
}

// NewClientIPResolver accepts CIDRs or bare addresses. An empty list trusts
// no proxy, so the connection address is always used.
func NewClientIPResolver(trustedProxies []string) (*ClientIPResolver, error) {
	res := &ClientIPResolver{}
	for _, entry := range trustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				bits = 8 * net.IPv4len
			}
			res.trusted = append(res.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		res.trusted = append(res.trusted, network)
	}
	return res, nil
}

func (c *ClientIPResolver) isTrusted(ip net.IP) bool {
	for _, network := range c.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the connection address unless it belongs to a trusted
// proxy, in which case it walks X-Forwarded-For from the right and returns
// the first hop that is not itself trusted. A nil resolver trusts nobody.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	direct := remoteHost(r)
	if c == nil || len(c.trusted) == 0 {
		return direct
	}

	ip := net.ParseIP(direct)
	if ip == nil || !c.isTrusted(ip) {
		return direct
	}

	hops := strings.Split(strings.Join(r.Header.Values(headerForwardedFor), ","), ",")
	client := direct
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		hopIP := net.ParseIP(hop)
		if hopIP == nil {
			// Garbage left of a trusted hop was written by the client.
			return client
		}
		client = hopIP.String()
		if !c.isTrusted(hopIP) {
			return client
		}
	}
	return client
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

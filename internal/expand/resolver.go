package expand

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
	"github.com/pstansell/netgrep/internal/log"
)

const (
	resolvConfPath = "/etc/resolv.conf"
	defaultDNSPort = "53"

	dnsClientTimeout = 3 * time.Second
)

// Resolver resolves alias hostnames to their IPv4 addresses.
type Resolver interface {
	LookupIPv4(ctx context.Context, host string) ([]netip.Addr, error)
}

// DNSResolver implements Resolver using plain UDP DNS against the
// servers from resolv.conf, with an optional configured fallback.
type DNSResolver struct {
	client  *dns.Client
	servers []string
}

func NewDNSResolver(fallbackDNS string) *DNSResolver {
	var servers []string

	if cc, err := dns.ClientConfigFromFile(resolvConfPath); err != nil {
		log.Debugf("Failed to read %s: %v", resolvConfPath, err)
	} else {
		for _, server := range cc.Servers {
			servers = append(servers, net.JoinHostPort(server, cc.Port))
		}
	}

	if fallbackDNS != "" {
		servers = append(servers, net.JoinHostPort(fallbackDNS, defaultDNSPort))
	}

	return &DNSResolver{
		client: &dns.Client{
			Net:     "udp",
			Timeout: dnsClientTimeout,
		},
		servers: servers,
	}
}

// LookupIPv4 queries the servers in order and returns the A records of
// the first one that answers.
func (r *DNSResolver) LookupIPv4(ctx context.Context, host string) ([]netip.Addr, error) {
	if len(r.servers) == 0 {
		return nil, fmt.Errorf("no DNS servers available to resolve \"%s\" (set fallback_dns in the configuration)", host)
	}

	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(host), dns.TypeA)

	var lastErr error
	for _, server := range r.servers {
		log.Debugf("Resolving %s via %s", host, server)

		resp, _, err := r.client.ExchangeContext(ctx, req, server)
		if err != nil {
			log.Debugf("Upstream %s failed for %s: %v", server, host, err)
			lastErr = err
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("upstream %s returned %s for \"%s\"", server, dns.RcodeToString[resp.Rcode], host)
			continue
		}

		var addrs []netip.Addr
		for _, rr := range resp.Answer {
			if a, ok := rr.(*dns.A); ok {
				if addr, ok := netip.AddrFromSlice(a.A.To4()); ok {
					addrs = append(addrs, addr)
				}
			}
		}
		if len(addrs) == 0 {
			return nil, fmt.Errorf("hostname \"%s\" has no A records", host)
		}
		return addrs, nil
	}

	return nil, fmt.Errorf("failed to resolve \"%s\": %v", host, lastErr)
}

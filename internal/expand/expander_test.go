package expand

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/pstansell/netgrep/internal/config"
)

type stubResolver struct {
	addrs map[string][]netip.Addr
	err   error
}

func (r *stubResolver) LookupIPv4(_ context.Context, host string) ([]netip.Addr, error) {
	if r.err != nil {
		return nil, r.err
	}
	addrs, ok := r.addrs[host]
	if !ok {
		return nil, fmt.Errorf("unexpected lookup: %s", host)
	}
	return addrs, nil
}

func testConfig(aliases ...*config.AliasConfig) *config.Config {
	return &config.Config{
		General: &config.GeneralConfig{
			FilePattern: "*",
			MaxExpand:   65536,
		},
		Aliases: aliases,
	}
}

func newTestExpander(cfg *config.Config) *Expander {
	return NewExpanderWithResolver(cfg, &stubResolver{})
}

func TestExpand_CIDRCounts(t *testing.T) {
	tests := []struct {
		name  string
		token string
		count int
		first string
		last  string
	}{
		{
			name:  "Host route",
			token: "192.0.2.1/32",
			count: 1,
			first: "192.0.2.1",
			last:  "192.0.2.1",
		},
		{
			name:  "Point to point",
			token: "10.0.0.0/30",
			count: 4,
			first: "10.0.0.0",
			last:  "10.0.0.3",
		},
		{
			name:  "Small subnet",
			token: "10.0.0.8/29",
			count: 8,
			first: "10.0.0.8",
			last:  "10.0.0.15",
		},
		{
			name:  "Unmasked base address",
			token: "10.0.0.5/30",
			count: 4,
			first: "10.0.0.4",
			last:  "10.0.0.7",
		},
		{
			name:  "Class C",
			token: "198.51.100.0/24",
			count: 256,
			first: "198.51.100.0",
			last:  "198.51.100.255",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addrs, err := newTestExpander(testConfig()).Expand(context.Background(), []string{tt.token})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if len(addrs) != tt.count {
				t.Fatalf("Expected %d addresses, got %d", tt.count, len(addrs))
			}
			if got := addrs[0].String(); got != tt.first {
				t.Errorf("Expected first address %s, got %s", tt.first, got)
			}
			if got := addrs[len(addrs)-1].String(); got != tt.last {
				t.Errorf("Expected last address %s, got %s", tt.last, got)
			}
		})
	}
}

func TestExpand_NumericSort(t *testing.T) {
	addrs, err := newTestExpander(testConfig()).Expand(context.Background(),
		[]string{"10.0.0.10", "10.0.0.2", "9.255.255.255"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{"9.255.255.255", "10.0.0.2", "10.0.0.10"}
	if len(addrs) != len(expected) {
		t.Fatalf("Expected %d addresses, got %d", len(expected), len(addrs))
	}
	for i, want := range expected {
		if got := addrs[i].String(); got != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestExpand_Deduplication(t *testing.T) {
	// 10.0.0.1 is contained in the /30 and repeated as a bare address
	addrs, err := newTestExpander(testConfig()).Expand(context.Background(),
		[]string{"10.0.0.1", "10.0.0.0/30", "10.0.0.1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(addrs) != 4 {
		t.Fatalf("Expected 4 addresses after dedup, got %d: %v", len(addrs), addrs)
	}

	seen := make(map[netip.Addr]bool)
	for _, addr := range addrs {
		if seen[addr] {
			t.Errorf("Duplicate address in result: %s", addr)
		}
		seen[addr] = true
	}
}

func TestExpand_InvalidTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"Garbage", "not-a-network"},
		{"Unknown alias", "tokyo9"},
		{"IPv6 address", "2001:db8::1"},
		{"IPv6 CIDR", "2001:db8::/126"},
		{"Bad prefix length", "10.0.0.0/33"},
		{"Octet out of range", "10.0.0.256"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestExpander(testConfig()).Expand(context.Background(), []string{tt.token})
			if err == nil {
				t.Errorf("Expected error for token %q", tt.token)
			}
		})
	}
}

func TestExpand_AliasHosts(t *testing.T) {
	cfg := testConfig(&config.AliasConfig{
		Name:  "ams1",
		Hosts: []string{"192.0.2.0/30", "192.0.2.10", "# a comment", ""},
	})

	addrs, err := newTestExpander(cfg).Expand(context.Background(), []string{"ams1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{"192.0.2.0", "192.0.2.1", "192.0.2.2", "192.0.2.3", "192.0.2.10"}
	if len(addrs) != len(expected) {
		t.Fatalf("Expected %d addresses, got %d: %v", len(expected), len(addrs), addrs)
	}
	for i, want := range expected {
		if got := addrs[i].String(); got != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestExpand_AliasFile(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "nyc1-networks.txt")
	content := "# edge routers\n192.0.2.4/31\n\n192.0.2.20\n"
	if err := os.WriteFile(listPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	cfg := testConfig(&config.AliasConfig{Name: "nyc1", File: listPath})

	addrs, err := newTestExpander(cfg).Expand(context.Background(), []string{"nyc1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{"192.0.2.4", "192.0.2.5", "192.0.2.20"}
	if len(addrs) != len(expected) {
		t.Fatalf("Expected %d addresses, got %d: %v", len(expected), len(addrs), addrs)
	}
	for i, want := range expected {
		if got := addrs[i].String(); got != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestExpand_AliasFileMissing(t *testing.T) {
	cfg := testConfig(&config.AliasConfig{Name: "nyc1", File: filepath.Join(t.TempDir(), "absent.txt")})

	if _, err := newTestExpander(cfg).Expand(context.Background(), []string{"nyc1"}); err == nil {
		t.Error("Expected error for missing alias list file")
	}
}

func TestExpand_AliasHostname(t *testing.T) {
	cfg := testConfig(&config.AliasConfig{
		Name:  "fra1",
		Hosts: []string{"gw.fra1.example.com"},
	})
	resolver := &stubResolver{addrs: map[string][]netip.Addr{
		"gw.fra1.example.com": {
			netip.MustParseAddr("203.0.113.7"),
			netip.MustParseAddr("203.0.113.8"),
		},
	}}

	addrs, err := NewExpanderWithResolver(cfg, resolver).Expand(context.Background(), []string{"fra1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(addrs) != 2 {
		t.Fatalf("Expected 2 addresses, got %d: %v", len(addrs), addrs)
	}
	if addrs[0].String() != "203.0.113.7" || addrs[1].String() != "203.0.113.8" {
		t.Errorf("Unexpected addresses: %v", addrs)
	}
}

func TestExpand_AliasHostnameResolveFailure(t *testing.T) {
	cfg := testConfig(&config.AliasConfig{
		Name:  "fra1",
		Hosts: []string{"gw.fra1.example.com"},
	})
	resolver := &stubResolver{err: fmt.Errorf("SERVFAIL")}

	if _, err := NewExpanderWithResolver(cfg, resolver).Expand(context.Background(), []string{"fra1"}); err == nil {
		t.Error("Expected resolver failure to propagate")
	}
}

func TestExpand_MaxExpandEnforced(t *testing.T) {
	cfg := testConfig()
	cfg.General.MaxExpand = 4

	if _, err := newTestExpander(cfg).Expand(context.Background(), []string{"10.0.0.0/29"}); err == nil {
		t.Error("Expected error when expansion exceeds max_expand")
	}

	// Exactly at the cap is fine
	if _, err := newTestExpander(cfg).Expand(context.Background(), []string{"10.0.0.0/30"}); err != nil {
		t.Errorf("Unexpected error at the cap: %v", err)
	}
}

func TestExpand_EmptyTokenList(t *testing.T) {
	addrs, err := newTestExpander(testConfig()).Expand(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(addrs) != 0 {
		t.Errorf("Expected empty result, got %v", addrs)
	}
}

package expand

import (
	"bufio"
	"context"
	"fmt"
	"net/netip"
	"os"
	"slices"
	"strings"

	"github.com/pstansell/netgrep/internal/config"
	"github.com/pstansell/netgrep/internal/log"
	"github.com/pstansell/netgrep/internal/utils"
)

// Expander turns network tokens (bare IPv4 addresses, CIDR blocks or
// configured region aliases) into a flat list of host addresses.
type Expander struct {
	cfg      *config.Config
	resolver Resolver
}

func NewExpander(cfg *config.Config) *Expander {
	return &Expander{
		cfg:      cfg,
		resolver: NewDNSResolver(cfg.General.FallbackDNS),
	}
}

// NewExpanderWithResolver is like NewExpander but with an explicit
// hostname resolver.
func NewExpanderWithResolver(cfg *config.Config, resolver Resolver) *Expander {
	return &Expander{cfg: cfg, resolver: resolver}
}

// Expand expands every token, removes exact duplicates and returns the
// addresses in numeric (octet-aware) order. Any token that is neither a
// valid IPv4 address, an IPv4 CIDR block nor a configured alias name is
// an error; a partial result is never returned.
func (e *Expander) Expand(ctx context.Context, tokens []string) ([]netip.Addr, error) {
	acc := &accumulator{
		seen:  make(map[netip.Addr]struct{}),
		limit: e.cfg.General.MaxExpand,
	}

	for _, token := range tokens {
		if err := e.expandToken(ctx, token, acc); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(acc.addrs, netip.Addr.Compare)
	return acc.addrs, nil
}

// accumulator collects expanded addresses, deduplicating as it goes and
// enforcing the configured expansion cap.
type accumulator struct {
	addrs []netip.Addr
	seen  map[netip.Addr]struct{}
	limit int
}

func (a *accumulator) add(addr netip.Addr) error {
	if _, ok := a.seen[addr]; ok {
		return nil
	}
	if len(a.addrs) >= a.limit {
		return fmt.Errorf("expansion exceeds max_expand (%d addresses), refusing to continue", a.limit)
	}
	a.seen[addr] = struct{}{}
	a.addrs = append(a.addrs, addr)
	return nil
}

func (e *Expander) expandToken(ctx context.Context, token string, acc *accumulator) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	if utils.IsIPv4(token) {
		addr, _ := netip.ParseAddr(token)
		return acc.add(addr)
	}

	if strings.Contains(token, "/") {
		return e.expandPrefix(token, acc)
	}

	if alias := e.cfg.GetAliasByName(token); alias != nil {
		return e.expandAlias(ctx, alias, acc)
	}

	return fmt.Errorf("\"%s\" is not a valid IPv4 address, CIDR block or configured alias", token)
}

// expandPrefix appends every address contained in an IPv4 CIDR block,
// network and broadcast addresses included (a /30 yields 4 addresses).
func (e *Expander) expandPrefix(token string, acc *accumulator) error {
	prefix, err := netip.ParsePrefix(token)
	if err != nil {
		return fmt.Errorf("failed to parse CIDR block \"%s\": %v", token, err)
	}
	if !prefix.Addr().Is4() {
		return fmt.Errorf("\"%s\": only IPv4 ranges are supported", token)
	}

	prefix = prefix.Masked()
	for addr := prefix.Addr(); prefix.Contains(addr); addr = addr.Next() {
		if err := acc.add(addr); err != nil {
			return fmt.Errorf("while expanding \"%s\": %v", token, err)
		}
	}
	return nil
}

// expandAlias appends the expansion of every entry of a region alias.
// Entries may be IPv4 addresses, CIDR blocks or DNS hostnames; aliases
// do not nest.
func (e *Expander) expandAlias(ctx context.Context, alias *config.AliasConfig, acc *accumulator) error {
	log.Debugf("Expanding alias \"%s\" (type=%s)...", alias.Name, alias.Type())

	return e.iterateOverAlias(alias, func(entry string) error {
		entry = strings.TrimSpace(entry)
		if entry == "" || strings.HasPrefix(entry, "#") {
			return nil
		}

		if utils.IsIPv4(entry) {
			addr, _ := netip.ParseAddr(entry)
			return acc.add(addr)
		}
		if strings.Contains(entry, "/") {
			return e.expandPrefix(entry, acc)
		}
		if utils.IsDNSName(entry) {
			addrs, err := e.resolver.LookupIPv4(ctx, entry)
			if err != nil {
				return fmt.Errorf("alias %s: %v", alias.Name, err)
			}
			for _, addr := range addrs {
				if err := acc.add(addr); err != nil {
					return err
				}
			}
			return nil
		}

		return fmt.Errorf("alias %s contains unparseable entry \"%s\", check your configuration", alias.Name, entry)
	})
}

func (e *Expander) iterateOverAlias(alias *config.AliasConfig, iterateFn func(string) error) error {
	if alias.File != "" {
		listPath, err := e.cfg.GetAbsAliasFilePath(alias)
		if err != nil {
			return err
		}

		listFile, err := os.Open(listPath)
		if err != nil {
			return fmt.Errorf("failed to read alias list file '%s': %v", listPath, err)
		}
		defer utils.CloseOrPanic(listFile)

		scanner := bufio.NewScanner(listFile)
		for scanner.Scan() {
			if err := iterateFn(scanner.Text()); err != nil {
				return err
			}
		}
		return scanner.Err()
	}

	for _, host := range alias.Hosts {
		if err := iterateFn(host); err != nil {
			return err
		}
	}
	return nil
}

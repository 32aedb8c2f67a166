// Package expand converts network tokens into flat host-address lists.
//
// A token is one of:
//
//   - a bare IPv4 address, which passes through unchanged
//   - an IPv4 CIDR block, which expands to every contained address,
//     network and broadcast included (10.0.0.0/30 yields 4 addresses)
//   - a region alias from the configuration, whose entries are expanded
//     by the same rules; entries may also be DNS hostnames, resolved to
//     their A records
//
// The result is deduplicated and sorted in numeric, octet-aware order,
// so 10.0.0.2 comes before 10.0.0.10. Any unparseable token fails the
// whole expansion; a partial address list is never returned.
package expand

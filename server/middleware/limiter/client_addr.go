// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog/log"
)

// Proxy headers, only read from trusted peers.
const (
	headerRealIP       = "X-Real-IP"
	headerForwardedFor = "X-Forwarded-For"
)

// clientAddr returns the address of the admin behind r.
//
// The peer address is used unless the peer is a loopback or private address,
// in which case it is taken to be a reverse proxy: X-Real-IP wins, then the
// last hop of X-Forwarded-For.
func clientAddr(r *http.Request) (netip.Addr, bool) {
	peer, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, as some test servers set it.
		addr, err := netip.ParseAddr(r.RemoteAddr)
		if err != nil {
			return netip.Addr{}, false
		}

		peer = netip.AddrPortFrom(addr, 0)
	}

	addr := peer.Addr().Unmap()

	proxied := r.Header.Get(headerRealIP) != "" || r.Header.Get(headerForwardedFor) != ""
	if !proxied {
		return addr, true
	}

	if !addr.IsLoopback() && !addr.IsPrivate() {
		log.Debug().
			Str("remote_ip", addr.String()).
			Msg("Ignoring proxy headers from an untrusted peer")

		return addr, true
	}

	if forwarded, ok := forwardedAddr(r.Header); ok {
		return forwarded, true
	}

	return addr, true
}

// forwardedAddr reads the client address set by a reverse proxy.
func forwardedAddr(h http.Header) (netip.Addr, bool) {
	if v := strings.TrimSpace(h.Get(headerRealIP)); v != "" {
		if addr, err := netip.ParseAddr(v); err == nil {
			return addr.Unmap(), true
		}
	}

	if v := h.Get(headerForwardedFor); v != "" {
		hops := strings.Split(v, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(hops[len(hops)-1])); err == nil {
			return addr.Unmap(), true
		}
	}

	return netip.Addr{}, false
}

// inPassList reports whether addr equals an address of list or falls within
// one of its CIDR prefixes. Entries that parse as neither are ignored.
func inPassList(addr netip.Addr, list []string) bool {
	for _, entry := range list {
		if strings.Contains(entry, "/") {
			if prefix, err := netip.ParsePrefix(entry); err == nil && prefix.Contains(addr) {
				return true
			}

			continue
		}

		if other, err := netip.ParseAddr(entry); err == nil && other.Unmap() == addr {
			return true
		}
	}

	return false
}

// networkOf returns the network addr is limited as part of.
func networkOf(addr netip.Addr, ipv4Prefix, ipv6Prefix int) netip.Prefix {
	bits := ipv6Prefix
	if addr.Is4() {
		bits = ipv4Prefix
	}

	prefix, err := addr.Prefix(bits)
	if err != nil {
		// Out of range prefix lengths are rejected by the configuration.
		return netip.PrefixFrom(addr, addr.BitLen())
	}

	return prefix
}

// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	IPv4Prefix            = 24              // Prefix length grouping IPv4 clients into one network.
	IPv6Prefix            = 64              // Prefix length grouping IPv6 clients into one network.
	LimiterExpiryDuration = time.Hour       // How long to keep idle limiters in memory.
	CleanupInterval       = 5 * time.Minute // Interval between limiter cleanup runs.
)

// limiterWrapper holds the token bucket of one IP network.
type limiterWrapper struct {
	limiter    *rate.Limiter
	lastAccess time.Time  // Last time the limiter was accessed
	mu         sync.Mutex // mutex for operations on this limiter
}

// Limiter rate limits requests per client network.
type Limiter struct {
	rate   rate.Limit
	burst  int
	exempt []netip.Prefix // networks that are never limited

	limiters sync.Map // network string -> *limiterWrapper

	cleanupMu     sync.Mutex
	lastCleanupAt time.Time

	now func() time.Time // time.Now, replaceable in tests
}

// New returns a Limiter allowing perSecond requests per second per network
// with bursts of up to burst requests. Clients matching an entry of exempt,
// an IP or a CIDR, are not limited. Malformed entries are logged and skipped.
func New(perSecond, burst int, exempt []string) *Limiter {
	if burst < perSecond {
		burst = perSecond
	}

	return &Limiter{
		rate:   rate.Limit(perSecond),
		burst:  burst,
		exempt: parseExempt(exempt),
		now:    time.Now,
	}
}

func parseExempt(entries []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))

	for _, entry := range entries {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix.Masked())

			continue
		}

		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))

			continue
		}

		log.Warn().
			Str("sys", "limiter").
			Str("entry", entry).
			Msg("Ignoring malformed rate limit exemption")
	}

	return prefixes
}

func (l *Limiter) exempted(addr netip.Addr) bool {
	for _, prefix := range l.exempt {
		if prefix.Contains(addr) {
			return true
		}
	}

	return false
}

// clientAddr returns the address a request is rate limited by.
//
// X-Real-IP, then the last hop of X-Forwarded-For, are trusted only when the
// connection comes from a private or loopback address, which is where a
// reverse proxy sits. The second result is false when the connection has no
// IP address, as with unix sockets.
func clientAddr(r *http.Request) (netip.Addr, bool) {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	remote, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}

	remote = remote.Unmap()

	if !remote.IsPrivate() && !remote.IsLoopback() {
		if r.Header.Get("X-Real-IP") != "" || r.Header.Get("X-Forwarded-For") != "" {
			log.Debug().
				Str("remote_ip", remote.String()).
				Msg("Request from untrusted source, ignoring proxy headers")
		}

		return remote, true
	}

	if forwarded, ok := forwardedAddr(r.Header); ok {
		return forwarded, true
	}

	return remote, true
}

func forwardedAddr(h http.Header) (netip.Addr, bool) {
	candidate := strings.TrimSpace(h.Get("X-Real-IP"))

	if candidate == "" {
		if xff := h.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			candidate = strings.TrimSpace(hops[len(hops)-1])
		}
	}

	addr, err := netip.ParseAddr(candidate)
	if err != nil {
		return netip.Addr{}, false
	}

	return addr.Unmap(), true
}

// allow takes a token from the bucket of network and returns the state of
// the bucket afterwards.
func (l *Limiter) allow(network string) (allowed bool, remaining float64) {
	now := l.now()

	value, _ := l.limiters.LoadOrStore(network, &limiterWrapper{
		limiter: rate.NewLimiter(l.rate, l.burst),
	})

	lw, ok := value.(*limiterWrapper)
	if !ok {
		return true, float64(l.burst)
	}

	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.lastAccess = now
	allowed = lw.limiter.AllowN(now, 1)

	return allowed, lw.limiter.TokensAt(now)
}

// networkOf returns the network that shares a bucket with addr: its /24
// for IPv4 and its /64 for IPv6.
func networkOf(addr netip.Addr) string {
	bits := IPv6Prefix
	if addr.Is4() {
		bits = IPv4Prefix
	}

	prefix, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return addr.String()
	}

	return prefix.String()
}

// Len returns the number of networks currently tracked.
func (l *Limiter) Len() int {
	n := 0

	l.limiters.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

func (l *Limiter) cleanupExpiredLimiters(now time.Time) int {
	var keysToDelete []any

	// Collect keys to delete in a slice to avoid deleting during Range()
	l.limiters.Range(func(key, value any) bool {
		lw, ok := value.(*limiterWrapper)
		if !ok {
			log.Warn().Any("key", key).
				Msg("Found invalid limiter type in map")

			keysToDelete = append(keysToDelete, key)

			return true
		}

		lw.mu.Lock()
		lastAccess := lw.lastAccess
		lw.mu.Unlock()

		if now.Sub(lastAccess) > LimiterExpiryDuration {
			keysToDelete = append(keysToDelete, key)
		}

		return true
	})

	for _, key := range keysToDelete {
		l.limiters.Delete(key)
	}

	return len(keysToDelete)
}

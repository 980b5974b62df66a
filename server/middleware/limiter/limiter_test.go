// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/tagtr/tagtr/server/middleware"
)

// newTestLimiter returns a limiter whose clock only moves when the test
// moves it.
func newTestLimiter(perSecond, burst int, exempt ...string) (*Limiter, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	l := New(perSecond, burst, exempt)
	l.now = func() time.Time { return now }

	return l, &now
}

func serve(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/catalogs", nil)
	req.RemoteAddr = remoteAddr

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestEvaluateBurstThenReject(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(1, 3)
	h := middleware.Wrap(l.Evaluate, okHandler)

	for i := range 3 {
		rr := serve(h, "1.1.1.1:1000")
		require.Equal(t, http.StatusOK, rr.Code, "request %d", i)
		assert.Equal(t, "3", rr.Header().Get(HeaderRateLimitLimit))
	}

	rr := serve(h, "1.1.1.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "0", rr.Header().Get(HeaderRateLimitRemaining))
	assert.Equal(t, "3", rr.Header().Get(HeaderRateLimitReset))
	assert.Equal(t, "3", rr.Header().Get("Retry-After"))
}

func TestEvaluateRefills(t *testing.T) {
	t.Parallel()

	l, now := newTestLimiter(1, 1)
	h := middleware.Wrap(l.Evaluate, okHandler)

	require.Equal(t, http.StatusOK, serve(h, "1.1.1.1:1000").Code)
	require.Equal(t, http.StatusTooManyRequests, serve(h, "1.1.1.1:1000").Code)

	*now = now.Add(time.Second)

	assert.Equal(t, http.StatusOK, serve(h, "1.1.1.1:1000").Code)
}

func TestEvaluateGroupsByNetwork(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(1, 1)
	h := middleware.Wrap(l.Evaluate, okHandler)

	require.Equal(t, http.StatusOK, serve(h, "1.1.1.1:1000").Code)

	// same /24
	assert.Equal(t, http.StatusTooManyRequests, serve(h, "1.1.1.200:1000").Code)

	// another network has its own bucket
	assert.Equal(t, http.StatusOK, serve(h, "1.1.2.1:1000").Code)
	assert.Equal(t, 2, l.Len())
}

func TestEvaluateExempt(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(1, 1, "10.0.0.0/8")
	h := middleware.Wrap(l.Evaluate, okHandler)

	for range 5 {
		rr := serve(h, "10.1.2.3:1000")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get(HeaderRateLimitLimit))
	}

	assert.Zero(t, l.Len())
}

func TestEvaluateUnknownClient(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(1, 1)
	h := middleware.Wrap(l.Evaluate, okHandler)

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(h, "not an address").Code)
	}
}

func TestCleanupExpiredLimiters(t *testing.T) {
	t.Parallel()

	l, now := newTestLimiter(1, 1)

	l.allow("1.1.1.0/24")

	*now = now.Add(10 * time.Minute)

	l.allow("2.2.2.0/24")

	assert.Zero(t, l.cleanupExpiredLimiters(now.Add(30*time.Minute)))
	assert.Equal(t, 1, l.cleanupExpiredLimiters(now.Add(LimiterExpiryDuration-5*time.Minute)))
	assert.Equal(t, 1, l.Len())
}

func TestNewRaisesBurstToRate(t *testing.T) {
	t.Parallel()

	l := New(10, 2, nil)
	assert.Equal(t, 10, l.burst)
}

func TestClientAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		header     http.Header
		want       string
	}{
		{"X-Real-IP from loopback", "127.0.0.1:12345", http.Header{"X-Real-Ip": {"2.2.2.2"}}, "2.2.2.2"},
		{"last X-Forwarded-For hop from private network", "192.168.1.1:12345", http.Header{"X-Forwarded-For": {"3.3.3.3, 4.4.4.4"}}, "4.4.4.4"},
		{"proxy headers from public address are ignored", "1.1.1.1:12345", http.Header{"X-Real-Ip": {"2.2.2.2"}}, "1.1.1.1"},
		{"malformed forwarded address falls back", "10.0.0.1:80", http.Header{"X-Real-Ip": {"unknown"}}, "10.0.0.1"},
		{"mapped IPv4 is unmapped", "[::ffff:1.2.3.4]:80", nil, "1.2.3.4"},
		{"IPv6 remote", "[2001:db8::1]:80", nil, "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header = tt.header

			addr, ok := clientAddr(req)
			require.True(t, ok)
			assert.Equal(t, tt.want, addr.String())
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "@"

	_, ok := clientAddr(req)
	assert.False(t, ok)
}

func TestNetworkOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "192.168.1.0/24", networkOf(netip.MustParseAddr("192.168.1.77")))
	assert.Equal(t, "2001:db8:0:1::/64", networkOf(netip.MustParseAddr("2001:db8:0:1:aa::1")))
}

func TestExemptions(t *testing.T) {
	t.Parallel()

	l := New(1, 1, []string{"192.168.1.1", "2001:db8::/32", "10.0.0.1/8", "not an entry"})
	require.Len(t, l.exempt, 3)

	assert.True(t, l.exempted(netip.MustParseAddr("192.168.1.1")))
	assert.False(t, l.exempted(netip.MustParseAddr("192.168.1.2")))
	assert.True(t, l.exempted(netip.MustParseAddr("2001:db8::42")))
	assert.True(t, l.exempted(netip.MustParseAddr("10.200.0.1")))
	assert.False(t, l.exempted(netip.MustParseAddr("11.0.0.1")))
}

// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"time"

	"github.com/rs/zerolog/log"
)

// maybeCleanup drops idle limiters in the background at most once per
// CleanupInterval.
func (l *Limiter) maybeCleanup(now time.Time) {
	l.cleanupMu.Lock()
	defer l.cleanupMu.Unlock()

	if l.lastCleanupAt.IsZero() {
		l.lastCleanupAt = now

		return
	}

	if now.Sub(l.lastCleanupAt) < CleanupInterval {
		return
	}

	l.lastCleanupAt = now

	go func() {
		expired := l.cleanupExpiredLimiters(now)

		log.Debug().
			Str("sys", "limiter").
			Time("start", now).
			Dur("dur", time.Since(now)).
			Int("expired", expired).
			Msg("Limiter cleanup")
	}()
}

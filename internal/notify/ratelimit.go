// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package notify

import (
	"sync"
	"time"

	"github.com/toeirei/redtoken/internal/model"
)

// ErrRateLimited is returned when the hourly alert budget is used up.
var ErrRateLimited = &model.Error{Kind: model.KindNotification, Msg: "alert rate limit exceeded"}

// limiter allows at most max events in any window-long span.
type limiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu     sync.Mutex
	events []time.Time
}

func newLimiter(max int, window time.Duration, now func() time.Time) *limiter {
	return &limiter{max: max, window: window, now: now}
}

func (l *limiter) allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.events[:0]
	for _, ts := range l.events {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.events = kept
	if len(l.events) >= l.max {
		return false
	}
	l.events = append(l.events, now)
	return true
}

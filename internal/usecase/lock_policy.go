package usecase

import (
	"time"

	"puremilk/internal/data/entity"
)

const (
	DefaultLockoutThreshold = 5
	DefaultLockoutDuration  = 30 * time.Minute
)

// LockPolicy decides when repeated login failures lock an account.
// An account is locked while LockedUntil is in the future; expiry is
// observed lazily at the next login attempt.
type LockPolicy struct {
	Threshold int
	Duration  time.Duration
}

func NewLockPolicy(threshold int, duration time.Duration) LockPolicy {
	if threshold < 1 {
		threshold = DefaultLockoutThreshold
	}
	if duration <= 0 {
		duration = DefaultLockoutDuration
	}
	return LockPolicy{Threshold: threshold, Duration: duration}
}

// IsLocked reports whether user is locked at now.
func (p LockPolicy) IsLocked(user *entity.User, now time.Time) bool {
	return user.LockedUntil != nil && user.LockedUntil.After(now)
}

// LockUntil is the lock expiry for a lock taken at now.
func (p LockPolicy) LockUntil(now time.Time) time.Time {
	return now.Add(p.Duration)
}

// Locks reports whether a failure that brings the counter to attempts crosses the threshold.
func (p LockPolicy) Locks(attempts int) bool {
	return attempts >= p.Threshold
}

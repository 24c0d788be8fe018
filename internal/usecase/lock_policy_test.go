package usecase

import (
	"testing"
	"time"

	"puremilk/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestLockPolicy_Defaults(t *testing.T) {
	p := NewLockPolicy(0, 0)
	assert.Equal(t, DefaultLockoutThreshold, p.Threshold)
	assert.Equal(t, DefaultLockoutDuration, p.Duration)
}

func TestLockPolicy_IsLocked(t *testing.T) {
	p := NewLockPolicy(5, 30*time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, p.IsLocked(&entity.User{}, now))
	assert.True(t, p.IsLocked(&entity.User{LockedUntil: &future}, now))
	assert.False(t, p.IsLocked(&entity.User{LockedUntil: &past}, now))
	assert.False(t, p.IsLocked(&entity.User{LockedUntil: &now}, now))
}

func TestLockPolicy_Transitions(t *testing.T) {
	p := NewLockPolicy(5, 30*time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(30*time.Minute), p.LockUntil(now))
	assert.False(t, p.Locks(4))
	assert.True(t, p.Locks(5))
	assert.True(t, p.Locks(6))
}

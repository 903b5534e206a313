package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitationUsable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, Invitation{IsValid: true, ExpiresAt: now.Add(time.Hour)}.Usable(now))
	assert.False(t, Invitation{IsValid: false, ExpiresAt: now.Add(time.Hour)}.Usable(now))
	assert.False(t, Invitation{IsValid: true, ExpiresAt: now}.Usable(now))
	assert.False(t, Invitation{IsValid: true, ExpiresAt: now.Add(-time.Minute)}.Usable(now))
}

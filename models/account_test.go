package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdminIsLocked(t *testing.T) {
	admin := Admin{}
	assert.False(t, admin.IsLocked(), "fresh admin is not locked")

	past := time.Now().Add(-time.Minute)
	admin.LockedUntil = &past
	assert.False(t, admin.IsLocked(), "expired lock has no effect")

	future := time.Now().Add(time.Hour)
	admin.LockedUntil = &future
	assert.True(t, admin.IsLocked(), "lock within the cooling-off window holds")
}

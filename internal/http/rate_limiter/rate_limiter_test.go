package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_BurstPerKey(t *testing.T) {
	l := New(0.001, 2)

	assert.True(t, l.Allow("acct-1"))
	assert.True(t, l.Allow("acct-1"))
	assert.False(t, l.Allow("acct-1"))

	assert.True(t, l.Allow("acct-2"))
	assert.Equal(t, 2, l.Len())
}

func TestCleanup_DropsIdleVisitors(t *testing.T) {
	l := New(1, 1)
	l.GetVisitor("old")
	l.GetVisitor("fresh")
	l.visitors["old"].lastSeen = time.Now().Add(-time.Hour)

	l.cleanup(time.Now())

	assert.Equal(t, 1, l.Len())
	_, ok := l.visitors["fresh"]
	assert.True(t, ok)

	l.CleanupAllVisitors()
	assert.Equal(t, 0, l.Len())
}

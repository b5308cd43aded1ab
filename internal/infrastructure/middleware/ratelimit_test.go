package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterStoreAllowsWithinBurst(t *testing.T) {
	s := NewLimiterStore(60, 3, time.Minute)
	defer s.Stop()

	require.True(t, s.Allow("1.2.3.4"))
	require.True(t, s.Allow("1.2.3.4"))
	require.True(t, s.Allow("1.2.3.4"))
	require.False(t, s.Allow("1.2.3.4"))

	// keys are independent buckets
	require.True(t, s.Allow("5.6.7.8"))
}

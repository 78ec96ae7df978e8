package monitoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFeaturedRotator_InvalidCron(t *testing.T) {
	_, err := NewFeaturedRotator(nil, nil, "not a cron expression")
	require.Error(t, err)
}

func TestNewFeaturedRotator_ValidCron(t *testing.T) {
	fr, err := NewFeaturedRotator(nil, nil, "0 0 * * *")
	require.NoError(t, err)
	require.False(t, fr.nextRun.IsZero())
}

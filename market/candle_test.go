package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidInterval(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidInterval("1m"))
	assert.True(t, ValidInterval("1d"))
	assert.False(t, ValidInterval("2w"))
	assert.False(t, ValidInterval(""))
}

func TestIntervals_Durations(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Minute, Intervals[M1])
	assert.Equal(t, 24*time.Hour, Intervals[D1])
}

package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertSameInstant compares timestamps at the microsecond precision
// PostgreSQL stores.
func AssertSameInstant(t *testing.T, want, got time.Time) {
	t.Helper()
	assert.True(t, want.Truncate(time.Microsecond).Equal(got.Truncate(time.Microsecond)),
		"want %s, got %s", want, got)
}

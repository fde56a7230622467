package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "--- EMPTY ---", MaskDSN(""))
	assert.Equal(t, "https://***MASKED***@o1.ingest.sentry.io/42", MaskDSN("https://abc123@o1.ingest.sentry.io/42"))
	assert.Equal(t, "https://sentry.local/7", MaskDSN("https://sentry.local/7"))
	assert.Equal(t, "*** UNKNOWN DSN FORMAT ***", MaskDSN("not a dsn"))
}

package context

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContext_Same(t *testing.T) {
	assert.Equal(t, Context(), Context())
	assert.NoError(t, Context().Err())
}

func TestWithTimeout(t *testing.T) {
	c, cancel := WithTimeout(time.Millisecond)
	defer cancel()
	<-c.Done()
	assert.Error(t, c.Err())
	// the global context is untouched
	assert.NoError(t, Context().Err())

	c, cancel = WithTimeout(0)
	_, ok := c.Deadline()
	assert.False(t, ok)
	cancel()
	assert.Error(t, c.Err())
}

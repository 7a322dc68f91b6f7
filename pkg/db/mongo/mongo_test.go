package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID(NewID()))
	assert.True(t, IsValidID("507f1f77bcf86cd799439011"))
	assert.False(t, IsValidID("not-an-id"))
	assert.False(t, IsValidID(""))
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Second)
	defer cancel()
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)

	parent, parentCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer parentCancel()
	ctx, cancel = WithTimeout(parent, time.Hour)
	defer cancel()
	deadline, _ = ctx.Deadline()
	parentDeadline, _ := parent.Deadline()
	assert.Equal(t, parentDeadline, deadline)
}

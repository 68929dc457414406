package middleware

import (
	"context"
	"testing"

	"hallbook/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWithUserVisibleToLogger(t *testing.T) {
	ctx := ContextWithUser(context.Background(), 7, "hall_owner")

	userID, ok := logger.UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), userID)

	role, ok := RoleFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "hall_owner", role)
}

func TestUserIDFromContextMissing(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)
}

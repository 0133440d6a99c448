package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staydesk/staydesk/pkg/auth"
	"github.com/staydesk/staydesk/pkg/testkit"
)

func TestLogin(t *testing.T) {
	f := setup(t)
	svc := NewAuthService(f.db)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, f.owner.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "ghost@staydesk.test", testkit.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, user, err := svc.Login(ctx, f.owner.Email, testkit.Password)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, user.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, claims.UserID)
}

func TestIssueToken(t *testing.T) {
	f := setup(t)
	svc := NewAuthService(f.db)

	token, err := svc.IssueToken(context.Background(), f.other.Email)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, claims.UserID)

	_, err = svc.IssueToken(context.Background(), "ghost@staydesk.test")
	assert.ErrorIs(t, err, ErrNotFound)
}

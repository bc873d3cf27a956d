package auth

import (
	"context"
	"testing"

	"github.com/locallibrary/locallibrary/internal/testgen"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFirstLibrarian(t *testing.T) {
	t.Parallel()
	svc := NewService(testgen.NewDB(t), "secret")
	ctx := context.Background()

	user, err := svc.CreateFirstLibrarian(ctx, "admin", nil, "password123")
	require.NoError(t, err)
	assert.True(t, user.HasCapability(models.CapabilityMarkReturned))
	assert.True(t, user.HasCapability(models.CapabilityManageUsers))

	_, err = svc.CreateFirstLibrarian(ctx, "second", nil, "password123")
	require.Error(t, err)
	assert.True(t, errcodes.IsCode(err, "forbidden"))

	count, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	svc := NewService(testgen.NewDB(t), "secret")
	ctx := context.Background()

	_, err := svc.CreateFirstLibrarian(ctx, "admin", nil, "password123")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "ADMIN", "password123")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	_, err = svc.Authenticate(ctx, "admin", "wrong-password")
	assert.True(t, errcodes.IsCode(err, "unauthorized"))

	_, err = svc.Authenticate(ctx, "nobody", "password123")
	assert.True(t, errcodes.IsCode(err, "unauthorized"))
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	svc := NewService(nil, "secret")

	token, err := svc.GenerateToken(&models.User{ID: 7, Username: "bob"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "bob", claims.Username)

	_, err = NewService(nil, "other-secret").ValidateToken(token)
	assert.Error(t, err)
}

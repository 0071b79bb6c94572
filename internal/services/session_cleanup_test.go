package services

import (
	"context"
	"testing"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAuth struct{}

func (staticAuth) Login(_ context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	return &models.LoginResponse{AccessToken: "jwt", User: models.User{ID: "u1", Email: creds.Email}}, nil
}

func TestDirectoryRegistry_DroppedWhenSessionExpires(t *testing.T) {
	reg := NewDirectoryRegistry(newFakePeopleAPI(), nil)
	sessions := session.NewManager(session.NewMemoryStore(), staticAuth{}, 30*time.Millisecond, nil)
	sessions.OnDispose(reg.Drop)

	s, err := sessions.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	reg.For(s.ID)
	require.Equal(t, 1, reg.Len())

	time.Sleep(60 * time.Millisecond)

	_, err = sessions.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, models.ErrSessionExpired)
	assert.Equal(t, 0, reg.Len())
}

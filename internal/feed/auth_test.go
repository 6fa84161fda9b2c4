package feed

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, username, password string) (UserRef, string, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(UserRef), args.String(1), args.Error(2)
}

func (m *MockAuthAPI) Signup(ctx context.Context, req SignupRequest) (UserRef, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(UserRef), args.Error(1)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestAuthenticatorLogin(t *testing.T) {
	t.Run("Success begins session", func(t *testing.T) {
		api := new(MockAuthAPI)
		session := NewSession()
		api.On("Login", mock.Anything, "ann", "secret").Return(UserRef{ID: "U1", Username: "ann"}, "jwt", nil).Once()

		user, err := NewAuthenticator(api, nil, session, nil).Login(context.Background(), "ann", "secret")

		require.NoError(t, err)
		assert.Equal(t, "U1", user.ID)
		assert.True(t, session.Active())
		assert.Equal(t, "jwt", session.Token())
		id, ok := session.UserID()
		assert.True(t, ok)
		assert.Equal(t, "U1", id)
	})

	t.Run("Missing fields", func(t *testing.T) {
		api := new(MockAuthAPI)
		a := NewAuthenticator(api, nil, NewSession(), nil)

		_, err := a.Login(context.Background(), "", "secret")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = a.Login(context.Background(), "ann", "")
		assert.ErrorIs(t, err, ErrValidation)
		api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rejected credentials leave session empty", func(t *testing.T) {
		api := new(MockAuthAPI)
		session := NewSession()
		api.On("Login", mock.Anything, "ann", "wrong").Return(UserRef{}, "", errNetwork).Once()

		_, err := NewAuthenticator(api, nil, session, nil).Login(context.Background(), "ann", "wrong")

		assert.Error(t, err)
		assert.False(t, session.Active())
	})

	t.Run("Logout ends session", func(t *testing.T) {
		session := loggedIn("U1")
		NewAuthenticator(new(MockAuthAPI), nil, session, nil).Logout()
		assert.False(t, session.Active())
		assert.Empty(t, session.Token())
	})
}

func TestAuthenticatorSignup(t *testing.T) {
	picture := &Upload{Filename: "me.png", Content: pngHeader}

	t.Run("Uploads picture then registers", func(t *testing.T) {
		api := new(MockAuthAPI)
		assets := new(MockAssets)
		assets.On("Upload", mock.Anything, *picture).Return("https://cdn/me.png", nil).Once()
		api.On("Signup", mock.Anything, SignupRequest{
			Username:       "ann",
			Password:       "secret",
			Bio:            "hi",
			ProfilePicture: "https://cdn/me.png",
		}).Return(UserRef{ID: "U1", Username: "ann"}, nil).Once()

		user, err := NewAuthenticator(api, assets, NewSession(), nil).Signup(context.Background(), SignupInput{
			Username: "ann", Password: "secret", Bio: "hi", ProfilePicture: picture,
		})

		require.NoError(t, err)
		assert.Equal(t, "U1", user.ID)
		api.AssertExpectations(t)
		assets.AssertExpectations(t)
	})

	t.Run("Picture is required", func(t *testing.T) {
		_, err := NewAuthenticator(new(MockAuthAPI), new(MockAssets), NewSession(), nil).
			Signup(context.Background(), SignupInput{Username: "ann", Password: "secret"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Upload failure stops signup", func(t *testing.T) {
		api := new(MockAuthAPI)
		assets := new(MockAssets)
		assets.On("Upload", mock.Anything, *picture).Return("", ErrUpload).Once()

		_, err := NewAuthenticator(api, assets, NewSession(), nil).Signup(context.Background(), SignupInput{
			Username: "ann", Password: "secret", ProfilePicture: picture,
		})

		assert.ErrorIs(t, err, ErrUpload)
		api.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
	})
}

func TestValidateProfilePicture(t *testing.T) {
	assert.NoError(t, ValidateProfilePicture(Upload{Content: pngHeader}))
	assert.ErrorIs(t, ValidateProfilePicture(Upload{}), ErrValidation)
	assert.ErrorIs(t, ValidateProfilePicture(Upload{Content: []byte("just some text")}), ErrValidation)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, MaxProfilePictureSize)...)
	err := ValidateProfilePicture(Upload{Content: big})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "5MB")
}

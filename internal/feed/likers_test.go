package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func users(ids ...string) []UserRef {
	out := make([]UserRef, len(ids))
	for i, id := range ids {
		out[i] = UserRef{ID: id, Username: "user-" + id}
	}
	return out
}

func TestLikersPager(t *testing.T) {
	api := new(MockAPI)
	api.On("Likers", mock.Anything, "P1", 1, DefaultLikersPageSize).
		Return(LikersPage{Users: users("u1", "u2"), TotalPages: 2}, nil).Once()
	api.On("Likers", mock.Anything, "P1", 2, DefaultLikersPageSize).
		Return(LikersPage{Users: users("u2", "u3"), TotalPages: 2}, nil).Once()

	l := NewLikersPager(api, "P1", 0)
	ctx := context.Background()

	added, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.True(t, l.HasMore())

	added, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, users("u3"), added)
	assert.False(t, l.HasMore())
	assert.Equal(t, users("u1", "u2", "u3"), l.Users())

	_, err = l.Load(ctx)
	assert.ErrorIs(t, err, ErrNoMorePages)
	api.AssertExpectations(t)
}

func TestLikersPagerFailureKeepsPage(t *testing.T) {
	api := new(MockAPI)
	api.On("Likers", mock.Anything, "P1", 1, 20).Return(LikersPage{}, errNetwork).Once()
	api.On("Likers", mock.Anything, "P1", 1, 20).Return(LikersPage{Users: users("u1"), TotalPages: 1}, nil).Once()

	l := NewLikersPager(api, "P1", 20)

	_, err := l.Load(context.Background())
	assert.ErrorIs(t, err, errNetwork)
	assert.True(t, l.HasMore())

	added, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, added, 1)
	assert.False(t, l.HasMore())
}

func TestLikersPagerNoLikes(t *testing.T) {
	api := new(MockAPI)
	api.On("Likers", mock.Anything, "P1", 1, 20).Return(LikersPage{TotalPages: 0}, nil).Once()

	l := NewLikersPager(api, "P1", 20)
	added, err := l.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, added)
	assert.False(t, l.HasMore())
}

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecostep_backend/internal/model"
)

func TestCreateFriendshipSymmetric(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t), nil)

	require.NoError(t, repo.CreateFriendship(1, 2))

	ok, err := repo.IsFriend(1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.IsFriend(2, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := repo.GetFriendIDs(1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

func TestDeleteFriendshipBothDirections(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t), nil)

	require.NoError(t, repo.CreateFriendship(1, 2))

	removed, err := repo.DeleteFriendship(2, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err := repo.IsFriend(1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err = repo.DeleteFriendship(2, 1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestGetFriendsJoinsUsers(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewFriendshipRepository(db, nil)

	_, err := users.Register(1, "a", "Анна")
	require.NoError(t, err)
	_, err = users.Register(2, "b", "Борис")
	require.NoError(t, err)
	require.NoError(t, repo.CreateFriendship(1, 2))

	friends, err := repo.GetFriends(1)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, int64(2), friends[0].UserID)
	assert.Equal(t, "Борис", friends[0].FirstName)
}

func TestGetMissingRequestIsNil(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t), nil)

	req, err := repo.GetRequest(999)
	require.NoError(t, err)
	assert.Nil(t, req)

	created := &model.FriendRequest{RequesterID: 1, TargetID: 2, Status: model.FriendRequestPending}
	require.NoError(t, repo.CreateRequest(created))

	req, err = repo.GetRequest(created.ID)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, int64(1), req.RequesterID)
}

func TestPendingRequestQueries(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t), nil)

	req := &model.FriendRequest{RequesterID: 1, TargetID: 2, Status: model.FriendRequestPending}
	require.NoError(t, repo.CreateRequest(req))
	require.NotZero(t, req.ID)

	found, err := repo.GetPendingBetween(1, 2)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, req.ID, found.ID)

	// 反方向没有
	found, err = repo.GetPendingBetween(2, 1)
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.UpdateRequestStatus(req.ID, model.FriendRequestAccepted))
	found, err = repo.GetPendingBetween(1, 2)
	require.NoError(t, err)
	assert.Nil(t, found)

	pending, err := repo.GetPendingRequests(2)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/util"
)

func newFriendshipFixture(t *testing.T) (*FriendshipService, *repository.UserRepository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db, nil)
	challengeRepo := repository.NewChallengeRepository(db)
	catalog := NewCatalogService(repository.NewCustomChallengeRepository(db))
	progress := NewProgressService(challengeRepo, catalog)
	svc := NewFriendshipService(friendRepo, userRepo, progress)

	for _, u := range []struct {
		id       int64
		username string
		name     string
	}{
		{1, "anna", "Анна"},
		{2, "boris", "Борис"},
		{3, "vera", "Вера"},
	} {
		_, err := userRepo.Register(u.id, u.username, u.name)
		require.NoError(t, err)
	}
	return svc, userRepo, db
}

func TestSendRequestValidation(t *testing.T) {
	svc, _, _ := newFriendshipFixture(t)

	_, err := svc.SendRequest(1, "anna")
	assert.ErrorIs(t, err, util.ErrSelfFriendRequest)

	_, err = svc.SendRequest(1, "никого_нет")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	result, err := svc.SendRequest(1, "boris")
	require.NoError(t, err)
	assert.False(t, result.AutoAccepted)
	assert.Equal(t, int64(2), result.Target.UserID)

	_, err = svc.SendRequest(1, "boris")
	assert.ErrorIs(t, err, util.ErrDuplicateRequest)
}

func TestSendRequestCaseInsensitiveUsername(t *testing.T) {
	svc, _, _ := newFriendshipFixture(t)

	result, err := svc.SendRequest(1, "BoRiS")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Target.UserID)
}

// 互发申请等价于互相同意
func TestMutualRequestsAutoAccept(t *testing.T) {
	svc, _, _ := newFriendshipFixture(t)

	first, err := svc.SendRequest(1, "boris")
	require.NoError(t, err)
	require.False(t, first.AutoAccepted)

	second, err := svc.SendRequest(2, "anna")
	require.NoError(t, err)
	assert.True(t, second.AutoAccepted)

	friends, err := svc.Friends(1)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, int64(2), friends[0].UserID)

	// 两边都不再有挂起申请
	pending, err := svc.PendingRequests(1)
	require.NoError(t, err)
	assert.Empty(t, pending)
	pending, err = svc.PendingRequests(2)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestHandleRequestOnlyByTarget(t *testing.T) {
	svc, _, _ := newFriendshipFixture(t)

	result, err := svc.SendRequest(1, "boris")
	require.NoError(t, err)
	requestID := result.Request.ID

	_, err = svc.HandleRequest(requestID, 3, true)
	assert.ErrorIs(t, err, util.ErrWrongRequestTarget)

	req, err := svc.HandleRequest(requestID, 2, true)
	require.NoError(t, err)
	assert.Equal(t, model.FriendRequestAccepted, req.Status)

	ok, err := svc.FriendRepo.IsFriend(1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// 终态不可再变
	_, err = svc.HandleRequest(requestID, 2, false)
	assert.ErrorIs(t, err, util.ErrRequestAlreadyHandled)

	_, err = svc.HandleRequest(9999, 2, true)
	assert.ErrorIs(t, err, util.ErrRequestNotFound)
}

func TestHandleRequestDecline(t *testing.T) {
	svc, _, _ := newFriendshipFixture(t)

	result, err := svc.SendRequest(1, "boris")
	require.NoError(t, err)

	req, err := svc.HandleRequest(result.Request.ID, 2, false)
	require.NoError(t, err)
	assert.Equal(t, model.FriendRequestDeclined, req.Status)

	ok, err := svc.FriendRepo.IsFriend(1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSendRequestToExistingFriend(t *testing.T) {
	svc, _, _ := newFriendshipFixture(t)

	require.NoError(t, svc.FriendRepo.CreateFriendship(1, 2))

	_, err := svc.SendRequest(1, "boris")
	assert.ErrorIs(t, err, util.ErrAlreadyFriends)
	_, err = svc.SendRequest(2, "anna")
	assert.ErrorIs(t, err, util.ErrAlreadyFriends)
}

func TestLeaderboardOrdering(t *testing.T) {
	svc, _, db := newFriendshipFixture(t)
	challengeRepo := repository.NewChallengeRepository(db)

	require.NoError(t, svc.FriendRepo.CreateFriendship(1, 2))
	require.NoError(t, svc.FriendRepo.CreateFriendship(1, 3))

	// Борис 拿 10 分
	_, err := challengeRepo.Accept(2, "task_2")
	require.NoError(t, err)
	_, err = challengeRepo.MarkSubmitted(2, "task_2", "f", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)
	points := 10
	_, err = challengeRepo.UpdateReview(2, "task_2", model.ReviewStatusApproved, nil, &points, nil)
	require.NoError(t, err)

	board, err := svc.Leaderboard(1)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, int64(2), board[0].UserID)
	assert.Equal(t, 10, board[0].Points)
	assert.False(t, board[0].IsSelf)

	var self *LeaderboardEntry
	for i := range board {
		if board[i].IsSelf {
			self = &board[i]
		}
	}
	require.NotNil(t, self)
	assert.Equal(t, int64(1), self.UserID)
	assert.Equal(t, 0, self.Points)
}

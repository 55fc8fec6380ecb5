package service

import (
	"sort"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/util"
)

// FriendshipService 好友申请与排行榜
type FriendshipService struct {
	FriendRepo *repository.FriendshipRepository
	UserRepo   *repository.UserRepository
	Progress   *ProgressService
}

func NewFriendshipService(friendRepo *repository.FriendshipRepository, userRepo *repository.UserRepository, progress *ProgressService) *FriendshipService {
	return &FriendshipService{
		FriendRepo: friendRepo,
		UserRepo:   userRepo,
		Progress:   progress,
	}
}

// RequestResult 发起申请的结果，互相申请时直接建立好友关系
type RequestResult struct {
	Request      *model.FriendRequest
	AutoAccepted bool
	Target       *model.User
}

// SendRequest 按 @username 查找目标并创建申请。
// 双方各有一条待处理申请时视为互相同意，直接互加好友。
func (s *FriendshipService) SendRequest(requesterID int64, targetUsername string) (*RequestResult, error) {
	target, err := s.UserRepo.FindByUsername(targetUsername)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, util.ErrUserNotFound
	}
	if target.UserID == requesterID {
		return nil, util.ErrSelfFriendRequest
	}

	already, err := s.FriendRepo.IsFriend(requesterID, target.UserID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, util.ErrAlreadyFriends
	}

	// 对方先发过申请 → 互相同意
	reverse, err := s.FriendRepo.GetPendingBetween(target.UserID, requesterID)
	if err != nil {
		return nil, err
	}
	if reverse != nil {
		if err := s.FriendRepo.UpdateRequestStatus(reverse.ID, model.FriendRequestAccepted); err != nil {
			return nil, err
		}
		if err := s.FriendRepo.CreateFriendship(requesterID, target.UserID); err != nil {
			return nil, err
		}
		return &RequestResult{Request: reverse, AutoAccepted: true, Target: target}, nil
	}

	existing, err := s.FriendRepo.GetPendingBetween(requesterID, target.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrDuplicateRequest
	}

	req := &model.FriendRequest{
		RequesterID: requesterID,
		TargetID:    target.UserID,
		Status:      model.FriendRequestPending,
	}
	if err := s.FriendRepo.CreateRequest(req); err != nil {
		return nil, err
	}
	return &RequestResult{Request: req, Target: target}, nil
}

// HandleRequest 目标用户接受或拒绝申请。申请一经处理即为终态。
func (s *FriendshipService) HandleRequest(requestID uint, actorID int64, accept bool) (*model.FriendRequest, error) {
	req, err := s.FriendRepo.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, util.ErrRequestNotFound
	}
	if req.TargetID != actorID {
		return nil, util.ErrWrongRequestTarget
	}
	if req.Status != model.FriendRequestPending {
		return nil, util.ErrRequestAlreadyHandled
	}

	status := model.FriendRequestDeclined
	if accept {
		status = model.FriendRequestAccepted
	}
	if err := s.FriendRepo.UpdateRequestStatus(req.ID, status); err != nil {
		return nil, err
	}
	req.Status = status

	if accept {
		if err := s.FriendRepo.CreateFriendship(req.RequesterID, req.TargetID); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (s *FriendshipService) Friends(userID int64) ([]repository.FriendEntry, error) {
	return s.FriendRepo.GetFriends(userID)
}

func (s *FriendshipService) RemoveFriend(userID, friendID int64) (bool, error) {
	return s.FriendRepo.DeleteFriendship(userID, friendID)
}

func (s *FriendshipService) PendingRequests(targetID int64) ([]model.FriendRequest, error) {
	return s.FriendRepo.GetPendingRequests(targetID)
}

// LeaderboardEntry 好友排行榜的一行
type LeaderboardEntry struct {
	UserID    int64   `json:"userId"`
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	Points    int     `json:"points"`
	CO2       float64 `json:"co2"`
	IsSelf    bool    `json:"isSelf"`
}

// Leaderboard 本人加好友按总积分排序，积分相同按 CO₂
func (s *FriendshipService) Leaderboard(userID int64) ([]LeaderboardEntry, error) {
	friendIDs, err := s.FriendRepo.GetFriendIDsCached(userID)
	if err != nil {
		return nil, err
	}

	ids := append([]int64{userID}, friendIDs...)
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		total, _, err := s.Progress.Points(id)
		if err != nil {
			return nil, err
		}
		co2, err := s.Progress.CO2Total(id)
		if err != nil {
			return nil, err
		}
		entry := LeaderboardEntry{
			UserID: id,
			Points: total,
			CO2:    co2,
			IsSelf: id == userID,
		}
		if u, ok := users[id]; ok {
			entry.Username = u.Username
			entry.FirstName = u.FirstName
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].CO2 > entries[j].CO2
	})
	return entries, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ecostep_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type FriendshipRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewFriendshipRepository(db *gorm.DB, rdb *redis.Client) *FriendshipRepository {
	return &FriendshipRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// CreateFriendship 双向写入好友关系
func (r *FriendshipRepository) CreateFriendship(userID, friendID int64) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.Friendship{UserID: userID, FriendID: friendID}).Error; err != nil {
			return err
		}
		return tx.Create(&model.Friendship{UserID: friendID, FriendID: userID}).Error
	})

	if err == nil {
		r.invalidateCache(userID, friendID)
	}
	return err
}

func (r *FriendshipRepository) DeleteFriendship(userID, friendID int64) (bool, error) {
	var deleted int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where(
			"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID,
		).Delete(&model.Friendship{})
		deleted = result.RowsAffected
		return result.Error
	})

	if err == nil && deleted > 0 {
		r.invalidateCache(userID, friendID)
	}
	return deleted > 0, err
}

func (r *FriendshipRepository) IsFriend(userID, friendID int64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

// FriendEntry 好友列表项
type FriendEntry struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	Since     time.Time `json:"since"`
}

func (r *FriendshipRepository) GetFriends(userID int64) ([]FriendEntry, error) {
	var friends []FriendEntry
	err := r.DB.Model(&model.Friendship{}).
		Select("users.user_id, users.username, users.first_name, user_friends.created_at AS since").
		Joins("JOIN users ON users.user_id = user_friends.friend_id").
		Where("user_friends.user_id = ?", userID).
		Order("users.first_name ASC").
		Scan(&friends).Error
	return friends, err
}

func (r *FriendshipRepository) GetFriendIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.DB.Model(&model.Friendship{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	return ids, err
}

// GetFriendIDsCached 获取好友 ID 列表 (带缓存)
func (r *FriendshipRepository) GetFriendIDsCached(userID int64) ([]int64, error) {
	if r.Redis == nil {
		return r.GetFriendIDs(userID)
	}

	key := friendCacheKey(userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		var ids []int64
		for _, s := range cached {
			id, err := strconv.ParseInt(s, 10, 64)
			if err == nil && id > 0 {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	// 缓存失效，回源数据库
	ids, err := r.GetFriendIDs(userID)
	if err == nil && len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else if err == nil {
		// 防止缓存穿透
		r.Redis.SAdd(r.ctx, key, 0)
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, err
}

func (r *FriendshipRepository) invalidateCache(userIDs ...int64) {
	if r.Redis == nil {
		return
	}
	for _, id := range userIDs {
		r.Redis.Del(r.ctx, friendCacheKey(id))
	}
}

func friendCacheKey(userID int64) string {
	return fmt.Sprintf("friends:ids:%d", userID)
}

func (r *FriendshipRepository) CreateRequest(req *model.FriendRequest) error {
	return r.DB.Create(req).Error
}

// GetRequest 按主键查找申请，未找到时返回 (nil, nil)
func (r *FriendshipRepository) GetRequest(id uint) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.DB.First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetPendingBetween 查找 requester → target 方向的待处理申请，没有返回 nil
func (r *FriendshipRepository) GetPendingBetween(requesterID, targetID int64) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.DB.Where(
		"requester_id = ? AND target_id = ? AND status = ?",
		requesterID, targetID, model.FriendRequestPending,
	).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *FriendshipRepository) UpdateRequestStatus(id uint, status string) error {
	return r.DB.Model(&model.FriendRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *FriendshipRepository) GetPendingRequests(targetID int64) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := r.DB.Where("target_id = ? AND status = ?", targetID, model.FriendRequestPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

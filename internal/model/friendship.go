package model

import "time"

// Friendship 好友关系表，成对写入（正反各一行）
type Friendship struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	FriendID  int64     `gorm:"primaryKey;autoIncrement:false" json:"friendId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Friendship) TableName() string {
	return "user_friends"
}

const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestDeclined = "declined"
)

// FriendRequest 好友申请表
type FriendRequest struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RequesterID int64     `gorm:"index;not null" json:"requesterId"`
	TargetID    int64     `gorm:"index;not null" json:"targetId"`
	Status      string    `gorm:"size:16;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

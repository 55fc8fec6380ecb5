package model

import "time"

// AdminLog 管理员操作日志，只追加不修改
type AdminLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AdminID   int64     `gorm:"index" json:"adminId"`
	Action    string    `gorm:"size:64;not null" json:"action"`
	Details   string    `gorm:"size:512" json:"details"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}

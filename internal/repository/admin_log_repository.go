package repository

import (
	"ecostep_backend/internal/model"

	"gorm.io/gorm"
)

type AdminLogRepository struct {
	DB *gorm.DB
}

func NewAdminLogRepository(db *gorm.DB) *AdminLogRepository {
	return &AdminLogRepository{DB: db}
}

func (r *AdminLogRepository) Append(adminID int64, action, details string) error {
	return r.DB.Create(&model.AdminLog{
		AdminID: adminID,
		Action:  action,
		Details: details,
	}).Error
}

// List 最近的操作日志，limit <= 0 时返回全部
func (r *AdminLogRepository) List(limit int) ([]model.AdminLog, error) {
	db := r.DB.Order("created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	var logs []model.AdminLog
	err := db.Find(&logs).Error
	return logs, err
}

package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ecostep_backend/internal/model"

	"gorm.io/gorm"
)

const customIDPrefix = "custom_"

// CustomChallengeID 把内部自增 ID 编码成对外的 custom_<n>
func CustomChallengeID(internalID uint) string {
	return fmt.Sprintf("%s%d", customIDPrefix, internalID)
}

// DecodeCustomID 解析 custom_<n>，非法格式返回 false
func DecodeCustomID(challengeID string) (uint, bool) {
	if !strings.HasPrefix(challengeID, customIDPrefix) {
		return 0, false
	}
	raw := strings.TrimPrefix(challengeID, customIDPrefix)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

type CustomChallengeRepository struct {
	DB *gorm.DB
}

func NewCustomChallengeRepository(db *gorm.DB) *CustomChallengeRepository {
	return &CustomChallengeRepository{DB: db}
}

func (r *CustomChallengeRepository) Fetch(activeOnly bool) ([]model.CustomChallenge, error) {
	db := r.DB.Order("id ASC")
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	var rows []model.CustomChallenge
	err := db.Find(&rows).Error
	return rows, err
}

// GetByExternalID 按 custom_<n> 查找，找不到返回 nil（不是错误）
func (r *CustomChallengeRepository) GetByExternalID(challengeID string) (*model.CustomChallenge, error) {
	internalID, ok := DecodeCustomID(challengeID)
	if !ok {
		return nil, nil
	}
	var row model.CustomChallenge
	err := r.DB.First(&row, internalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create 创建自定义挑战并返回对外 ID
func (r *CustomChallengeRepository) Create(title, description string, points int, co2 string, quantityBased bool) (string, error) {
	row := model.CustomChallenge{
		Title:         title,
		Description:   description,
		Points:        points,
		CO2:           co2,
		QuantityBased: quantityBased,
		Active:        true,
	}
	if err := r.DB.Create(&row).Error; err != nil {
		return "", err
	}
	return CustomChallengeID(row.ID), nil
}

func (r *CustomChallengeRepository) SetActive(challengeID string, active bool) (bool, error) {
	internalID, ok := DecodeCustomID(challengeID)
	if !ok {
		return false, nil
	}
	result := r.DB.Model(&model.CustomChallenge{}).
		Where("id = ?", internalID).
		Update("active", active)
	return result.RowsAffected > 0, result.Error
}

// Delete 彻底删除自定义挑战（区别于 active=false 的软删除）
func (r *CustomChallengeRepository) Delete(challengeID string) (bool, error) {
	internalID, ok := DecodeCustomID(challengeID)
	if !ok {
		return false, nil
	}
	result := r.DB.Delete(&model.CustomChallenge{}, internalID)
	return result.RowsAffected > 0, result.Error
}

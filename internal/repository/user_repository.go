package repository

import (
	"errors"

	"ecostep_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Register 首次交互时写入用户，已存在返回 false
func (r *UserRepository) Register(userID int64, username, firstName string) (bool, error) {
	var existing model.User
	err := r.DB.First(&existing, "user_id = ?", userID).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	user := model.User{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
	}
	if err := r.DB.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}

// FindByID 未找到时返回 (nil, nil)
func (r *UserRepository) FindByID(userID int64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername 按用户名查找，不区分大小写，未找到时返回 (nil, nil)
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) AllIDs() ([]int64, error) {
	var ids []int64
	err := r.DB.Model(&model.User{}).Pluck("user_id", &ids).Error
	return ids, err
}

func (r *UserRepository) FindByIDs(userIDs []int64) (map[int64]model.User, error) {
	if len(userIDs) == 0 {
		return map[int64]model.User{}, nil
	}
	var users []model.User
	if err := r.DB.Where("user_id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	result := make(map[int64]model.User, len(users))
	for _, u := range users {
		result[u.UserID] = u
	}
	return result, nil
}

package repository

import (
	"errors"
	"time"

	"ecostep_backend/internal/model"

	"gorm.io/gorm"
)

// ChallengeRepository 管理 user_challenges 行的生命周期：
// 无记录 → accepted → submitted → reviewed(approved|rejected)，
// 拒绝后 status 清空，行保留，可重新 Accept。
type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

// Get 查找用户的挑战行，未找到时返回 (nil, nil)
func (r *ChallengeRepository) Get(userID int64, challengeID string) (*model.UserChallenge, error) {
	var uc model.UserChallenge
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&uc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

// Accept 记录用户接受挑战。已提交待审的挑战不能再次接受，返回 false。
// 未提交状态下重复接受是幂等的：时间刷新，残留字段清空。
func (r *ChallengeRepository) Accept(userID int64, challengeID string) (bool, error) {
	now := time.Now()
	accepted := model.ChallengeStatusAccepted

	existing, err := r.Get(userID, challengeID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if existing.StatusIs(model.ChallengeStatusSubmitted) {
			return false, nil
		}
		updates := map[string]interface{}{
			"status":          accepted,
			"accepted_at":     now,
			"submitted_at":    nil,
			"file_id":         nil,
			"caption":         nil,
			"review_status":   model.ReviewStatusPending,
			"review_comment":  nil,
			"reviewed_at":     nil,
			"attachment_type": nil,
			"attachment_name": nil,
			"points_awarded":  nil,
			"co2_saved":       nil,
		}
		err = r.DB.Model(&model.UserChallenge{}).
			Where("user_id = ? AND challenge_id = ?", userID, challengeID).
			Updates(updates).Error
		return err == nil, err
	}

	uc := model.UserChallenge{
		UserID:       userID,
		ChallengeID:  challengeID,
		Status:       &accepted,
		AcceptedAt:   &now,
		ReviewStatus: model.ReviewStatusPending,
	}
	if err := r.DB.Create(&uc).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Decline 只删除处于 accepted 状态的行，已提交的挑战不能放弃
func (r *ChallengeRepository) Decline(userID int64, challengeID string) (bool, error) {
	result := r.DB.Where(
		"user_id = ? AND challenge_id = ? AND status = ?",
		userID, challengeID, model.ChallengeStatusAccepted,
	).Delete(&model.UserChallenge{})
	return result.RowsAffected > 0, result.Error
}

// MarkSubmitted 把已接受的挑战标记为待审，保存附件元数据
func (r *ChallengeRepository) MarkSubmitted(
	userID int64,
	challengeID string,
	fileID string,
	caption *string,
	attachmentType string,
	attachmentName *string,
) (bool, error) {
	existing, err := r.Get(userID, challengeID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":          model.ChallengeStatusSubmitted,
		"submitted_at":    now,
		"file_id":         fileID,
		"caption":         caption,
		"review_status":   model.ReviewStatusPending,
		"review_comment":  nil,
		"reviewed_at":     nil,
		"attachment_type": attachmentType,
		"attachment_name": attachmentName,
		"points_awarded":  nil,
		"co2_saved":       nil,
	}
	err = r.DB.Model(&model.UserChallenge{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Updates(updates).Error
	return err == nil, err
}

// UpdateReview 审核提交的报告。过滤条件要求 status='submitted' 且
// review_status='pending'，因此对已处理报告的重复审核会返回 false。
// 拒绝时行保留审核结论，但 status 与附件字段清空，挑战可重新接受。
func (r *ChallengeRepository) UpdateReview(
	userID int64,
	challengeID string,
	reviewStatus string,
	reviewComment *string,
	awardedPoints *int,
	co2Saved *float64,
) (bool, error) {
	now := time.Now()
	var points *int
	var co2 *float64
	if reviewStatus == model.ReviewStatusApproved {
		points = awardedPoints
		co2 = co2Saved
	}

	var matched bool
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.UserChallenge{}).
			Where(
				"user_id = ? AND challenge_id = ? AND status = ? AND review_status = ?",
				userID, challengeID, model.ChallengeStatusSubmitted, model.ReviewStatusPending,
			).
			Updates(map[string]interface{}{
				"review_status":  reviewStatus,
				"review_comment": reviewComment,
				"reviewed_at":    now,
				"points_awarded": points,
				"co2_saved":      co2,
			})
		if result.Error != nil {
			return result.Error
		}
		matched = result.RowsAffected > 0
		if !matched || reviewStatus != model.ReviewStatusRejected {
			return nil
		}
		return tx.Model(&model.UserChallenge{}).
			Where("user_id = ? AND challenge_id = ?", userID, challengeID).
			Updates(map[string]interface{}{
				"status":          nil,
				"accepted_at":     nil,
				"submitted_at":    nil,
				"file_id":         nil,
				"caption":         nil,
				"attachment_type": nil,
				"attachment_name": nil,
				"points_awarded":  nil,
				"co2_saved":       nil,
			}).Error
	})
	return matched, err
}

// StatusMap 用户所有挑战行的状态（status 为空的行也会出现，值为空串）
func (r *ChallengeRepository) StatusMap(userID int64) (map[string]string, error) {
	var rows []model.UserChallenge
	if err := r.DB.Select("challenge_id", "status").
		Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	statuses := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Status != nil {
			statuses[row.ChallengeID] = *row.Status
		} else {
			statuses[row.ChallengeID] = ""
		}
	}
	return statuses, nil
}

func (r *ChallengeRepository) AcceptedIDs(userID int64) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.UserChallenge{}).
		Where("user_id = ? AND status = ?", userID, model.ChallengeStatusAccepted).
		Order("accepted_at ASC").
		Pluck("challenge_id", &ids).Error
	return ids, err
}

// Submitted 用户已提交的报告，pendingOnly 时只取待审的
func (r *ChallengeRepository) Submitted(userID int64, pendingOnly bool) ([]model.UserChallenge, error) {
	db := r.DB.Where("user_id = ? AND status = ?", userID, model.ChallengeStatusSubmitted)
	if pendingOnly {
		db = db.Where("review_status = ?", model.ReviewStatusPending)
	}
	var rows []model.UserChallenge
	err := db.Order("submitted_at ASC").Find(&rows).Error
	return rows, err
}

// PendingReport 待审报告与提交者信息的联查结果
type PendingReport struct {
	UserID         int64      `json:"userId"`
	Username       string     `json:"username"`
	FirstName      string     `json:"firstName"`
	ChallengeID    string     `json:"challengeId"`
	SubmittedAt    *time.Time `json:"submittedAt"`
	FileID         *string    `json:"fileId"`
	Caption        *string    `json:"caption"`
	AttachmentType *string    `json:"attachmentType"`
	AttachmentName *string    `json:"attachmentName"`
}

func (r *ChallengeRepository) PendingReports() ([]PendingReport, error) {
	var reports []PendingReport
	err := r.DB.Model(&model.UserChallenge{}).
		Select(`user_challenges.user_id, users.username, users.first_name,
			user_challenges.challenge_id, user_challenges.submitted_at,
			user_challenges.file_id, user_challenges.caption,
			user_challenges.attachment_type, user_challenges.attachment_name`).
		Joins("LEFT JOIN users ON users.user_id = user_challenges.user_id").
		Where("user_challenges.status = ? AND user_challenges.review_status = ?",
			model.ChallengeStatusSubmitted, model.ReviewStatusPending).
		Order("user_challenges.submitted_at ASC").
		Scan(&reports).Error
	return reports, err
}

// AwardedRow 已批准报告的积分行
type AwardedRow struct {
	ChallengeID   string     `json:"challengeId"`
	PointsAwarded *int       `json:"pointsAwarded"`
	CO2Saved      *float64   `json:"co2Saved"`
	ReviewedAt    *time.Time `json:"reviewedAt"`
}

func (r *ChallengeRepository) AwardedRows(userID int64) ([]AwardedRow, error) {
	var rows []AwardedRow
	err := r.DB.Model(&model.UserChallenge{}).
		Select("challenge_id, points_awarded, co2_saved, reviewed_at").
		Where("user_id = ? AND review_status = ?", userID, model.ReviewStatusApproved).
		Scan(&rows).Error
	return rows, err
}

// ReviewSummary 按审核状态统计：pending 只统计已提交待审的行
func (r *ChallengeRepository) ReviewSummary(userID int64) (map[string]int, error) {
	var rows []model.UserChallenge
	if err := r.DB.Select("status", "review_status").
		Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	summary := make(map[string]int)
	for _, row := range rows {
		switch row.ReviewStatus {
		case model.ReviewStatusPending:
			if row.StatusIs(model.ChallengeStatusSubmitted) {
				summary[model.ReviewStatusPending]++
			}
		case model.ReviewStatusApproved, model.ReviewStatusRejected:
			summary[row.ReviewStatus]++
		}
	}
	return summary, nil
}

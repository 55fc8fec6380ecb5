package model

import "time"

// 挑战行的生命周期状态。拒绝后 status 清空，行保留，允许重新接受。
const (
	ChallengeStatusAccepted  = "accepted"
	ChallengeStatusSubmitted = "submitted"
)

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

const (
	AttachmentPhoto    = "photo"
	AttachmentDocument = "document"
)

// UserChallenge 用户与挑战的关系行，复合主键 (user_id, challenge_id)
type UserChallenge struct {
	UserID         int64      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ChallengeID    string     `gorm:"primaryKey;size:64" json:"challengeId"`
	Status         *string    `gorm:"size:16" json:"status"`
	AcceptedAt     *time.Time `json:"acceptedAt"`
	SubmittedAt    *time.Time `json:"submittedAt"`
	FileID         *string    `gorm:"size:255" json:"fileId"`
	Caption        *string    `gorm:"size:1024" json:"caption"`
	AttachmentType *string    `gorm:"size:16" json:"attachmentType"`
	AttachmentName *string    `gorm:"size:255" json:"attachmentName"`
	ReviewStatus   string     `gorm:"size:16;default:pending" json:"reviewStatus"`
	ReviewComment  *string    `gorm:"size:512" json:"reviewComment"`
	ReviewedAt     *time.Time `json:"reviewedAt"`
	PointsAwarded  *int       `json:"pointsAwarded"`
	CO2Saved       *float64   `json:"co2Saved"`
}

func (UserChallenge) TableName() string {
	return "user_challenges"
}

func (uc *UserChallenge) StatusIs(status string) bool {
	return uc.Status != nil && *uc.Status == status
}

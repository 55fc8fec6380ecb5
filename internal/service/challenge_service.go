package service

import (
	"ecostep_backend/internal/model"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/util"
)

// ChallengeService 挑战生命周期操作，错误映射到 util 中的哨兵错误
type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	Catalog       *CatalogService
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository, catalog *CatalogService) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		Catalog:       catalog,
	}
}

// Accept 接受挑战。目录中不存在的挑战返回 ErrChallengeNotFound，
// 已提交待审的返回 ErrChallengeSubmitted。
func (s *ChallengeService) Accept(userID int64, challengeID string) (*Challenge, error) {
	challenge, err := s.Catalog.Get(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, util.ErrChallengeNotFound
	}

	accepted, err := s.ChallengeRepo.Accept(userID, challengeID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, util.ErrChallengeSubmitted
	}
	return challenge, nil
}

// Decline 放弃已接受的挑战，已提交或不存在时返回 false
func (s *ChallengeService) Decline(userID int64, challengeID string) (bool, error) {
	return s.ChallengeRepo.Decline(userID, challengeID)
}

// Submit 提交报告附件
func (s *ChallengeService) Submit(
	userID int64,
	challengeID string,
	fileID string,
	caption *string,
	attachmentType string,
	attachmentName *string,
) error {
	submitted, err := s.ChallengeRepo.MarkSubmitted(userID, challengeID, fileID, caption, attachmentType, attachmentName)
	if err != nil {
		return err
	}
	if !submitted {
		return util.ErrChallengeNotAccepted
	}
	return nil
}

// ResolveResult 审核结果，供通知使用
type ResolveResult struct {
	ChallengeTitle string
	Decision       string
	Points         *int
	Comment        *string
}

// Resolve 审核报告：approve 时从目录解析积分并可选记录 CO₂，
// 重复审核（行已不处于 submitted）返回 ErrReportNotFound。
func (s *ChallengeService) Resolve(
	userID int64,
	challengeID string,
	decision string,
	comment *string,
	co2Saved *float64,
) (*ResolveResult, error) {
	var points *int
	if decision == model.ReviewStatusApproved {
		value := s.Catalog.PointsValue(challengeID)
		points = &value
	}

	updated, err := s.ChallengeRepo.UpdateReview(userID, challengeID, decision, comment, points, co2Saved)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, util.ErrReportNotFound
	}

	title := challengeID
	if challenge, err := s.Catalog.Get(challengeID); err == nil && challenge != nil {
		title = challenge.Title
	}

	return &ResolveResult{
		ChallengeTitle: title,
		Decision:       decision,
		Points:         points,
		Comment:        comment,
	}, nil
}

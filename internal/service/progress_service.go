package service

import (
	"time"

	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/util"
)

// mskOffset 固定 UTC+3，周积分窗口按莫斯科时间每周一 00:01 重置
const mskOffset = 3 * time.Hour

// ProgressService 积分、CO₂ 与进度汇总。无持久化汇总表，每次请求重新计算。
type ProgressService struct {
	ChallengeRepo *repository.ChallengeRepository
	Catalog       *CatalogService

	// now 可在测试中替换
	now func() time.Time
}

func NewProgressService(challengeRepo *repository.ChallengeRepository, catalog *CatalogService) *ProgressService {
	return &ProgressService{
		ChallengeRepo: challengeRepo,
		Catalog:       catalog,
		now:           time.Now,
	}
}

// WeekStartMSK 最近的周一 00:01（UTC+3），窗口起点之前的审核不计入周积分
func WeekStartMSK(now time.Time) time.Time {
	msk := now.UTC().Add(mskOffset)
	weekday := (int(msk.Weekday()) + 6) % 7 // 周一为 0
	start := time.Date(msk.Year(), msk.Month(), msk.Day(), 0, 1, 0, 0, time.UTC).
		AddDate(0, 0, -weekday)
	if msk.Before(start) {
		start = start.AddDate(0, 0, -7)
	}
	return start
}

// Summary 进度卡片数据
type Summary struct {
	AcceptedCount int      `json:"acceptedCount"`
	PendingCount  int      `json:"pendingCount"`
	PendingTitles []string `json:"pendingTitles"`
	ApprovedCount int      `json:"approvedCount"`
	RejectedCount int      `json:"rejectedCount"`
	TotalPoints   int      `json:"totalPoints"`
	WeeklyPoints  int      `json:"weeklyPoints"`
	TotalCO2      float64  `json:"totalCo2"`
}

// resolvePoints 积分兜底链：行内存储值 → 目录值 → 0
func (s *ProgressService) resolvePoints(row repository.AwardedRow) int {
	if row.PointsAwarded != nil {
		return *row.PointsAwarded
	}
	return s.Catalog.PointsValue(row.ChallengeID)
}

// resolveCO2 CO₂ 兜底链：行内覆盖值 → 目录文案解析 → 0
func (s *ProgressService) resolveCO2(row repository.AwardedRow) float64 {
	if row.CO2Saved != nil {
		return *row.CO2Saved
	}
	challenge, err := s.Catalog.Get(row.ChallengeID)
	if err != nil || challenge == nil {
		return 0
	}
	value, ok := util.ParseCO2Value(challenge.CO2)
	if !ok {
		return 0
	}
	return value
}

// Points 全部与本周积分。周窗口每次请求重算，没有持久化的滚动汇总。
func (s *ProgressService) Points(userID int64) (total, weekly int, err error) {
	rows, err := s.ChallengeRepo.AwardedRows(userID)
	if err != nil {
		return 0, 0, err
	}

	weekStart := WeekStartMSK(s.now())
	for _, row := range rows {
		points := s.resolvePoints(row)
		total += points
		if row.ReviewedAt != nil && !row.ReviewedAt.UTC().Add(mskOffset).Before(weekStart) {
			weekly += points
		}
	}
	return total, weekly, nil
}

// CO2Total 已批准报告的 CO₂ 合计
func (s *ProgressService) CO2Total(userID int64) (float64, error) {
	rows, err := s.ChallengeRepo.AwardedRows(userID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, row := range rows {
		total += s.resolveCO2(row)
	}
	return total, nil
}

func (s *ProgressService) Summary(userID int64) (*Summary, error) {
	accepted, err := s.ChallengeRepo.AcceptedIDs(userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.ChallengeRepo.Submitted(userID, true)
	if err != nil {
		return nil, err
	}
	reviewSummary, err := s.ChallengeRepo.ReviewSummary(userID)
	if err != nil {
		return nil, err
	}
	total, weekly, err := s.Points(userID)
	if err != nil {
		return nil, err
	}
	co2, err := s.CO2Total(userID)
	if err != nil {
		return nil, err
	}

	pendingIDs := make([]string, 0, len(pending))
	for _, row := range pending {
		pendingIDs = append(pendingIDs, row.ChallengeID)
	}
	titlesByID := s.Catalog.Titles(pendingIDs)
	titles := make([]string, 0, len(pendingIDs))
	for _, id := range pendingIDs {
		titles = append(titles, titlesByID[id])
	}

	pendingCount := reviewSummary["pending"]
	if pendingCount == 0 {
		pendingCount = len(pending)
	}

	return &Summary{
		AcceptedCount: len(accepted),
		PendingCount:  pendingCount,
		PendingTitles: titles,
		ApprovedCount: reviewSummary["approved"],
		RejectedCount: reviewSummary["rejected"],
		TotalPoints:   total,
		WeeklyPoints:  weekly,
		TotalCO2:      co2,
	}, nil
}

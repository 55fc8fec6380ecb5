package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/repository"
)

func newProgressFixture(t *testing.T) (*ProgressService, *repository.ChallengeRepository) {
	t.Helper()
	db := newTestDB(t)
	challengeRepo := repository.NewChallengeRepository(db)
	catalog := NewCatalogService(repository.NewCustomChallengeRepository(db))
	return NewProgressService(challengeRepo, catalog), challengeRepo
}

func approve(t *testing.T, repo *repository.ChallengeRepository, userID int64, challengeID string, points *int, co2 *float64) {
	t.Helper()
	_, err := repo.Accept(userID, challengeID)
	require.NoError(t, err)
	_, err = repo.MarkSubmitted(userID, challengeID, "f", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)
	updated, err := repo.UpdateReview(userID, challengeID, model.ReviewStatusApproved, nil, points, co2)
	require.NoError(t, err)
	require.True(t, updated)
}

func TestWeekStartMSK(t *testing.T) {
	// 2026-08-26 среда 12:00 UTC → окно с понедельника 24-го 00:01 MSK
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	start := WeekStartMSK(now)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 1, 0, 0, time.UTC), start)

	// понедельник 00:00 MSK ещё принадлежит прошлой неделе
	mondayEarly := time.Date(2026, 8, 23, 21, 0, 30, 0, time.UTC) // 00:00:30 MSK понедельника
	start = WeekStartMSK(mondayEarly)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 1, 0, 0, time.UTC), start)

	// воскресенье вечером — то же окно, что в среду
	sunday := time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC)
	start = WeekStartMSK(sunday)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 1, 0, 0, time.UTC), start)
}

func TestPointsTotalsAndWeekly(t *testing.T) {
	svc, repo := newProgressFixture(t)

	p1, p2 := 5, 10
	approve(t, repo, 1, "task_1", &p1, nil)
	approve(t, repo, 1, "task_2", &p2, nil)

	total, weekly, err := svc.Points(1)
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	// 刚审核的行都在当前周窗口内
	assert.Equal(t, 15, weekly)
	assert.LessOrEqual(t, weekly, total)
}

func TestWeeklyExcludesOldReviews(t *testing.T) {
	svc, repo := newProgressFixture(t)

	p := 5
	approve(t, repo, 1, "task_1", &p, nil)

	// 把审核时间拨回两周前
	old := time.Now().UTC().AddDate(0, 0, -14)
	err := repo.DB.Model(&model.UserChallenge{}).
		Where("user_id = ? AND challenge_id = ?", int64(1), "task_1").
		Update("reviewed_at", old).Error
	require.NoError(t, err)

	total, weekly, err := svc.Points(1)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 0, weekly)
}

func TestPointsFallbackToCatalog(t *testing.T) {
	svc, repo := newProgressFixture(t)

	// 审核时未写入积分 → 用目录值 task_3 = 15
	approve(t, repo, 1, "task_3", nil, nil)

	total, _, err := svc.Points(1)
	require.NoError(t, err)
	assert.Equal(t, 15, total)
}

func TestCO2TotalParsesCatalogText(t *testing.T) {
	svc, repo := newProgressFixture(t)

	p := 15
	// task_3 目录文案 "1.2 кг CO₂"
	approve(t, repo, 1, "task_3", &p, nil)

	co2, err := svc.CO2Total(1)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, co2, 1e-9)
}

func TestCO2SavedOverride(t *testing.T) {
	svc, repo := newProgressFixture(t)

	p, saved := 15, 4.5
	approve(t, repo, 1, "task_3", &p, &saved)

	co2, err := svc.CO2Total(1)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, co2, 1e-9)
}

func TestSummaryCounts(t *testing.T) {
	svc, repo := newProgressFixture(t)

	p := 5
	approve(t, repo, 1, "task_1", &p, nil)

	_, err := repo.Accept(1, "task_2")
	require.NoError(t, err)
	_, err = repo.MarkSubmitted(1, "task_2", "f2", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)

	_, err = repo.Accept(1, "task_4")
	require.NoError(t, err)

	summary, err := svc.Summary(1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AcceptedCount)
	assert.Equal(t, 1, summary.PendingCount)
	require.Len(t, summary.PendingTitles, 1)
	assert.Equal(t, 1, summary.ApprovedCount)
	assert.Equal(t, 0, summary.RejectedCount)
	assert.Equal(t, 5, summary.TotalPoints)
	assert.LessOrEqual(t, summary.WeeklyPoints, summary.TotalPoints)
}

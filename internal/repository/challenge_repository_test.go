package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"ecostep_backend/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserChallenge{},
		&model.CustomChallenge{},
		&model.AdminLog{},
		&model.Friendship{},
		&model.FriendRequest{},
	))
	return db
}

func TestGetMissingRowIsNil(t *testing.T) {
	repo := NewChallengeRepository(newTestDB(t))

	row, err := repo.Get(1, "task_1")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestAcceptIdempotentWhileUnsubmitted(t *testing.T) {
	repo := NewChallengeRepository(newTestDB(t))

	ok, err := repo.Accept(1, "task_1")
	require.NoError(t, err)
	assert.True(t, ok)

	// 重复接取刷新时间戳，不报错
	ok, err = repo.Accept(1, "task_1")
	require.NoError(t, err)
	assert.True(t, ok)

	row, err := repo.Get(1, "task_1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.StatusIs(model.ChallengeStatusAccepted))
	assert.NotNil(t, row.AcceptedAt)
}

func TestAcceptFailsAfterSubmit(t *testing.T) {
	repo := NewChallengeRepository(newTestDB(t))

	ok, err := repo.Accept(1, "task_1")
	require.NoError(t, err)
	require.True(t, ok)

	submitted, err := repo.MarkSubmitted(1, "task_1", "file-1", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)
	require.True(t, submitted)

	ok, err = repo.Accept(1, "task_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeclineOnlyWhileAccepted(t *testing.T) {
	repo := NewChallengeRepository(newTestDB(t))

	// 没有行
	ok, err := repo.Decline(1, "task_1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Accept(1, "task_1")
	require.NoError(t, err)

	submitted, err := repo.MarkSubmitted(1, "task_1", "file-1", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)
	require.True(t, submitted)

	// 已提交不可放弃
	ok, err = repo.Decline(1, "task_1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Accept(2, "task_1")
	require.NoError(t, err)
	ok, err = repo.Decline(2, "task_1")
	require.NoError(t, err)
	assert.True(t, ok)

	row, err := repo.Get(2, "task_1")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestSubmitRequiresAcceptedRow(t *testing.T) {
	repo := NewChallengeRepository(newTestDB(t))

	submitted, err := repo.MarkSubmitted(1, "task_1", "file-1", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)
	assert.False(t, submitted)
}

func TestApproveStoresPoints(t *testing.T) {
	repo := NewChallengeRepository(newTestDB(t))

	_, err := repo.Accept(1, "task_1")
	require.NoError(t, err)
	_, err = repo.MarkSubmitted(1, "task_1", "file-1", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)

	points := 5
	updated, err := repo.UpdateReview(1, "task_1", model.ReviewStatusApproved, nil, &points, nil)
	require.NoError(t, err)
	require.True(t, updated)

	row, err := repo.Get(1, "task_1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, model.ReviewStatusApproved, row.ReviewStatus)
	require.NotNil(t, row.PointsAwarded)
	assert.Equal(t, 5, *row.PointsAwarded)
	assert.NotNil(t, row.ReviewedAt)
}

func TestRejectClearsRowForReacceptance(t *testing.T) {
	repo := NewChallengeRepository(newTestDB(t))

	_, err := repo.Accept(1, "task_1")
	require.NoError(t, err)
	caption := "до и после"
	_, err = repo.MarkSubmitted(1, "task_1", "file-1", &caption, model.AttachmentPhoto, nil)
	require.NoError(t, err)

	comment := "не видно результата"
	updated, err := repo.UpdateReview(1, "task_1", model.ReviewStatusRejected, &comment, nil, nil)
	require.NoError(t, err)
	require.True(t, updated)

	// 行保留审核结论，但状态与附件清空
	row, err := repo.Get(1, "task_1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, model.ReviewStatusRejected, row.ReviewStatus)
	assert.Nil(t, row.Status)
	assert.Nil(t, row.FileID)
	assert.Nil(t, row.Caption)
	assert.Nil(t, row.SubmittedAt)
	assert.Nil(t, row.PointsAwarded)

	// 可以重新接取
	ok, err := repo.Accept(1, "task_1")
	require.NoError(t, err)
	assert.True(t, ok)
	row, err = repo.Get(1, "task_1")
	require.NoError(t, err)
	assert.True(t, row.StatusIs(model.ChallengeStatusAccepted))
	assert.Equal(t, model.ReviewStatusPending, row.ReviewStatus)
}

func TestReviewTwiceIsNotFound(t *testing.T) {
	repo := NewChallengeRepository(newTestDB(t))

	_, err := repo.Accept(1, "task_1")
	require.NoError(t, err)
	_, err = repo.MarkSubmitted(1, "task_1", "file-1", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)

	comment := "нет"
	updated, err := repo.UpdateReview(1, "task_1", model.ReviewStatusRejected, &comment, nil, nil)
	require.NoError(t, err)
	require.True(t, updated)

	updated, err = repo.UpdateReview(1, "task_1", model.ReviewStatusApproved, nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, updated)
}

// 已批准的报告同样是终态：重复审核不匹配，结论不被覆盖
func TestApprovedReportIsTerminal(t *testing.T) {
	repo := NewChallengeRepository(newTestDB(t))

	_, err := repo.Accept(1, "task_1")
	require.NoError(t, err)
	_, err = repo.MarkSubmitted(1, "task_1", "file-1", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)

	points := 5
	updated, err := repo.UpdateReview(1, "task_1", model.ReviewStatusApproved, nil, &points, nil)
	require.NoError(t, err)
	require.True(t, updated)

	other := 10
	updated, err = repo.UpdateReview(1, "task_1", model.ReviewStatusApproved, nil, &other, nil)
	require.NoError(t, err)
	assert.False(t, updated)

	comment := "передумал"
	updated, err = repo.UpdateReview(1, "task_1", model.ReviewStatusRejected, &comment, nil, nil)
	require.NoError(t, err)
	assert.False(t, updated)

	row, err := repo.Get(1, "task_1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, model.ReviewStatusApproved, row.ReviewStatus)
	require.NotNil(t, row.PointsAwarded)
	assert.Equal(t, 5, *row.PointsAwarded)
	assert.Nil(t, row.ReviewComment)
}

func TestPendingReportsJoinUsers(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewChallengeRepository(db)

	_, err := users.Register(1, "greta", "Грета")
	require.NoError(t, err)

	_, err = repo.Accept(1, "task_2")
	require.NoError(t, err)
	_, err = repo.MarkSubmitted(1, "task_2", "file-2", nil, model.AttachmentDocument, nil)
	require.NoError(t, err)

	reports, err := repo.PendingReports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(1), reports[0].UserID)
	assert.Equal(t, "greta", reports[0].Username)
	assert.Equal(t, "task_2", reports[0].ChallengeID)
	require.NotNil(t, reports[0].FileID)
	assert.Equal(t, "file-2", *reports[0].FileID)
}

// 完整链路：注册 → 接取 → 提交 → 批准 → 积分行
func TestFullLifecycleScenario(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewChallengeRepository(db)

	created, err := users.Register(111, "eco_user", "Маша")
	require.NoError(t, err)
	assert.True(t, created)

	ok, err := repo.Accept(111, "task_1")
	require.NoError(t, err)
	require.True(t, ok)

	submitted, err := repo.MarkSubmitted(111, "task_1", "f1", nil, model.AttachmentPhoto, nil)
	require.NoError(t, err)
	require.True(t, submitted)

	row, err := repo.Get(111, "task_1")
	require.NoError(t, err)
	assert.True(t, row.StatusIs(model.ChallengeStatusSubmitted))
	assert.Equal(t, model.ReviewStatusPending, row.ReviewStatus)

	points := 5
	updated, err := repo.UpdateReview(111, "task_1", model.ReviewStatusApproved, nil, &points, nil)
	require.NoError(t, err)
	require.True(t, updated)

	rows, err := repo.AwardedRows(111)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].PointsAwarded)
	assert.Equal(t, 5, *rows[0].PointsAwarded)
}

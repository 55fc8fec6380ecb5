package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/util"
)

func newChallengeFixture(t *testing.T) *ChallengeService {
	t.Helper()
	db := newTestDB(t)
	catalog := NewCatalogService(repository.NewCustomChallengeRepository(db))
	return NewChallengeService(repository.NewChallengeRepository(db), catalog)
}

func TestAcceptUnknownChallenge(t *testing.T) {
	svc := newChallengeFixture(t)

	_, err := svc.Accept(1, "task_99")
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)
}

func TestAcceptConflictAfterSubmit(t *testing.T) {
	svc := newChallengeFixture(t)

	_, err := svc.Accept(1, "task_1")
	require.NoError(t, err)
	require.NoError(t, svc.Submit(1, "task_1", "f", nil, model.AttachmentPhoto, nil))

	_, err = svc.Accept(1, "task_1")
	assert.ErrorIs(t, err, util.ErrChallengeSubmitted)
}

func TestSubmitWithoutAccept(t *testing.T) {
	svc := newChallengeFixture(t)

	err := svc.Submit(1, "task_1", "f", nil, model.AttachmentPhoto, nil)
	assert.ErrorIs(t, err, util.ErrChallengeNotAccepted)
}

func TestResolveApprovedTakesCatalogPoints(t *testing.T) {
	svc := newChallengeFixture(t)

	_, err := svc.Accept(1, "task_2")
	require.NoError(t, err)
	require.NoError(t, svc.Submit(1, "task_2", "f", nil, model.AttachmentPhoto, nil))

	result, err := svc.Resolve(1, "task_2", model.ReviewStatusApproved, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Points)
	assert.Equal(t, 10, *result.Points)
	assert.NotEqual(t, "task_2", result.ChallengeTitle)
}

func TestResolveTwiceIsNotFound(t *testing.T) {
	svc := newChallengeFixture(t)

	_, err := svc.Accept(1, "task_1")
	require.NoError(t, err)
	require.NoError(t, svc.Submit(1, "task_1", "f", nil, model.AttachmentPhoto, nil))

	comment := "не подходит"
	_, err = svc.Resolve(1, "task_1", model.ReviewStatusRejected, &comment, nil)
	require.NoError(t, err)

	_, err = svc.Resolve(1, "task_1", model.ReviewStatusRejected, &comment, nil)
	assert.ErrorIs(t, err, util.ErrReportNotFound)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecostep_backend/internal/repository"
)

func newCatalog(t *testing.T) (*CatalogService, *repository.CustomChallengeRepository) {
	t.Helper()
	customRepo := repository.NewCustomChallengeRepository(newTestDB(t))
	return NewCatalogService(customRepo), customRepo
}

func TestCatalogBuiltins(t *testing.T) {
	catalog, _ := newCatalog(t)

	ch, err := catalog.Get("task_1")
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.Equal(t, 5, ch.Points)
	assert.Equal(t, ChallengeSourceDefault, ch.Source)

	all, err := catalog.All()
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestCatalogUnknownID(t *testing.T) {
	catalog, _ := newCatalog(t)

	ch, err := catalog.Get("task_99")
	require.NoError(t, err)
	assert.Nil(t, ch)

	ch, err = catalog.Get("custom_99")
	require.NoError(t, err)
	assert.Nil(t, ch)
}

func TestCatalogMergesActiveCustom(t *testing.T) {
	catalog, customRepo := newCatalog(t)

	id, err := customRepo.Create("Компост", "Завести компостное ведро", 25, "2 кг CO₂", false)
	require.NoError(t, err)

	all, err := catalog.All()
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, id, all[5].ID)
	assert.Equal(t, ChallengeSourceCustom, all[5].Source)

	// 停用后从目录消失
	_, err = customRepo.SetActive(id, false)
	require.NoError(t, err)

	ch, err := catalog.Get(id)
	require.NoError(t, err)
	assert.Nil(t, ch)

	all, err = catalog.All()
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestPointsValueFallback(t *testing.T) {
	catalog, customRepo := newCatalog(t)

	assert.Equal(t, 10, catalog.PointsValue("task_2"))
	assert.Equal(t, 0, catalog.PointsValue("task_99"))

	id, err := customRepo.Create("X", "desc desc d", 100, "10kg", false)
	require.NoError(t, err)
	assert.Equal(t, 100, catalog.PointsValue(id))

	// 停用的自定义任务仍然能取到分值（历史审核用）
	_, err = customRepo.SetActive(id, false)
	require.NoError(t, err)
	assert.Equal(t, 100, catalog.PointsValue(id))
}

func TestTitlesFallbackToID(t *testing.T) {
	catalog, _ := newCatalog(t)

	titles := catalog.Titles([]string{"task_1", "ghost_42"})
	assert.NotEmpty(t, titles["task_1"])
	assert.Equal(t, "ghost_42", titles["ghost_42"])
}

package service

import (
	"fmt"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/repository"
)

const (
	ChallengeSourceDefault = "default"
	ChallengeSourceCustom  = "custom"
)

// Challenge 目录项：内置挑战与自定义挑战的统一视图
type Challenge struct {
	ID            string `json:"challengeId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Points        int    `json:"points"`
	CO2           string `json:"co2"`
	QuantityBased bool   `json:"quantityBased"`
	Source        string `json:"source"`
}

// PointsLabel 俄语积分展示文案
func (c Challenge) PointsLabel() string {
	return fmt.Sprintf("%d баллов", c.Points)
}

// defaultChallenges 内置挑战集合，顺序即展示顺序
var defaultChallenges = []Challenge{
	{
		ID:          "task_1",
		Title:       "🚰 Отказаться от одноразовой бутылки",
		Description: "Вместо покупки пластиковой бутылки используй свою многоразовую в течение дня.",
		Points:      5,
		CO2:         "0.1 кг CO₂",
		Source:      ChallengeSourceDefault,
	},
	{
		ID:          "task_2",
		Title:       "🚶 Пойти пешком до учёбы",
		Description: "Если расстояние до учёбы меньше 2 км, пройди его пешком вместо транспорта.",
		Points:      10,
		CO2:         "0.5 кг CO₂",
		Source:      ChallengeSourceDefault,
	},
	{
		ID:          "task_3",
		Title:       "📄 Сдать макулатуру",
		Description: "Собери и сдай макулатуру (минимум 1 кг) в пункт приёма вторсырья.",
		Points:      15,
		CO2:         "1.2 кг CO₂",
		Source:      ChallengeSourceDefault,
	},
	{
		ID:          "task_4",
		Title:       "♻️ Использовать многоразовую сумку",
		Description: "Вместо пластикового пакета в магазине используй свою многоразовую сумку.",
		Points:      5,
		CO2:         "0.08 кг CO₂",
		Source:      ChallengeSourceDefault,
	},
	{
		ID:          "task_5",
		Title:       "💡 Выключить свет на час",
		Description: "В течение часа используй естественное освещение или работай при свечах.",
		Points:      7,
		CO2:         "0.3 кг CO₂",
		Source:      ChallengeSourceDefault,
	},
}

// CatalogService 合并内置挑战与数据库中的自定义挑战
type CatalogService struct {
	CustomRepo *repository.CustomChallengeRepository
}

func NewCatalogService(customRepo *repository.CustomChallengeRepository) *CatalogService {
	return &CatalogService{CustomRepo: customRepo}
}

func customToChallenge(row *model.CustomChallenge) Challenge {
	return Challenge{
		ID:            repository.CustomChallengeID(row.ID),
		Title:         row.Title,
		Description:   row.Description,
		Points:        row.Points,
		CO2:           row.CO2,
		QuantityBased: row.QuantityBased,
		Source:        ChallengeSourceCustom,
	}
}

// Get 按 ID 解析挑战：内置优先，否则查自定义表；不存在或停用返回 nil
func (s *CatalogService) Get(challengeID string) (*Challenge, error) {
	for _, c := range defaultChallenges {
		if c.ID == challengeID {
			challenge := c
			return &challenge, nil
		}
	}

	row, err := s.CustomRepo.GetByExternalID(challengeID)
	if err != nil {
		return nil, err
	}
	if row == nil || !row.Active {
		return nil, nil
	}
	challenge := customToChallenge(row)
	return &challenge, nil
}

// All 完整目录：内置 + 启用中的自定义挑战，ID 冲突时自定义覆盖内置
func (s *CatalogService) All() ([]Challenge, error) {
	custom, err := s.CustomRepo.Fetch(true)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]Challenge, len(defaultChallenges)+len(custom))
	order := make([]string, 0, len(defaultChallenges)+len(custom))
	for _, c := range defaultChallenges {
		merged[c.ID] = c
		order = append(order, c.ID)
	}
	for i := range custom {
		c := customToChallenge(&custom[i])
		if _, exists := merged[c.ID]; !exists {
			order = append(order, c.ID)
		}
		merged[c.ID] = c
	}

	result := make([]Challenge, 0, len(order))
	for _, id := range order {
		result = append(result, merged[id])
	}
	return result, nil
}

// PointsValue 审核时的积分取值链：目录值 → 自定义表（含停用的）→ 0
func (s *CatalogService) PointsValue(challengeID string) int {
	challenge, err := s.Get(challengeID)
	if err == nil && challenge != nil {
		return challenge.Points
	}

	row, err := s.CustomRepo.GetByExternalID(challengeID)
	if err == nil && row != nil {
		return row.Points
	}
	return 0
}

// Titles 批量取标题，用于列表渲染，未知 ID 回退为 ID 本身
func (s *CatalogService) Titles(ids []string) map[string]string {
	all, err := s.All()
	titles := make(map[string]string, len(ids))
	known := make(map[string]string)
	if err == nil {
		for _, c := range all {
			known[c.ID] = c.Title
		}
	}
	for _, id := range ids {
		if title, ok := known[id]; ok {
			titles[id] = title
		} else {
			titles[id] = id
		}
	}
	return titles
}

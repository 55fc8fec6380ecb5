package model

// CustomChallenge 管理员创建的挑战，对外 ID 形如 custom_<n>
type CustomChallenge struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string `gorm:"size:120;not null" json:"title"`
	Description   string `gorm:"size:1024;not null" json:"description"`
	Points        int    `gorm:"not null" json:"points"`
	CO2           string `gorm:"size:64;not null" json:"co2"`
	QuantityBased bool   `gorm:"default:false" json:"quantityBased"`
	Active        bool   `gorm:"default:true" json:"active"`
}

func (CustomChallenge) TableName() string {
	return "custom_challenges"
}

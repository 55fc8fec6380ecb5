package model

import (
	"strconv"
	"time"
)

// User Telegram 用户，首次 /start 时写入，之后不会删除
type User struct {
	UserID           int64     `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	Username         string    `gorm:"size:64;index" json:"username"`
	FirstName        string    `gorm:"size:128" json:"firstName"`
	RegistrationDate time.Time `gorm:"autoCreateTime" json:"registrationDate"`
}

func (User) TableName() string {
	return "users"
}

// Recipient 实现 telebot.Recipient，方便直接把用户传给 bot.Send
func (u *User) Recipient() string {
	return strconv.FormatInt(u.UserID, 10)
}

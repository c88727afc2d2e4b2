package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"Name"`
	Email    string `gorm:"size:100;unique;not null" json:"Email"`
	Password string `gorm:"size:100;not null" json:"-"`
	// IANA 时区，用于日历日归档（签到/跑步按用户本地日期计算）
	Timezone     string `gorm:"size:64;default:'UTC'" json:"Timezone"`
	Avatar       string `gorm:"size:255" json:"avatar"`
	Disabled     bool   `gorm:"default:false" json:"Disabled"`
	ReferralCode string `gorm:"size:12;uniqueIndex" json:"ReferralCode"`

	// Strava 绑定信息
	StravaAthleteID    int64      `gorm:"index" json:"StravaAthleteID"`
	StravaAccessToken  string     `gorm:"size:255" json:"-"`
	StravaRefreshToken string     `gorm:"size:255" json:"-"`
	StravaTokenExpiry  *time.Time `json:"-"`
	LastSyncedAt       *time.Time `json:"LastSyncedAt"`

	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}

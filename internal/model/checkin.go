package model

// CheckIn 记录用户的每日签到；CheckinDate 为用户本地日历日（2006-01-02），
// 与 UserID 组成唯一索引，保证并发重复签到只会入账一次
type CheckIn struct {
	BaseModel
	UserID        uint   `gorm:"uniqueIndex:idx_user_checkin_date;type:bigint unsigned;not null" json:"userId"`
	CheckinDate   string `gorm:"size:10;uniqueIndex:idx_user_checkin_date;not null" json:"checkinDate"`
	MedalsAwarded int    `gorm:"default:0" json:"medalsAwarded"`
	StreakDay     int    `gorm:"default:1" json:"streakDay"` // 连续签到的第几天
}

func (CheckIn) TableName() string {
	return "checkins"
}

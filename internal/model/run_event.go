package model

import "time"

// RunEvent 一次跑步记录（Strava 同步或手动录入），创建后不可变
type RunEvent struct {
	BaseModel
	UserID         uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	DistanceMeters float64   `gorm:"not null" json:"distanceMeters"`
	OccurredAt     time.Time `gorm:"not null" json:"occurredAt"`
	// 跑步发生地的 IANA 时区，为空时回退到用户时区
	Timezone string  `gorm:"size:64" json:"timezone"`
	Polyline string  `gorm:"type:text" json:"polyline,omitempty"`
	StartLat float64 `json:"startLat,omitempty"`
	StartLng float64 `json:"startLng,omitempty"`
	// Strava 活动 ID，手动录入时为空；唯一索引保证重复同步不会二次入账
	StravaActivityID *int64 `gorm:"uniqueIndex" json:"stravaActivityId,omitempty"`
	Manual           bool   `gorm:"default:false" json:"manual"`
}

func (RunEvent) TableName() string {
	return "run_events"
}

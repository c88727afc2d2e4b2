package model

// Referral 推荐关系：每个被推荐用户至多一条（ReferredUserID 唯一），
// MedalsEarned 为推荐人从该关系累计获得的勋章，封顶后不再增长
type Referral struct {
	BaseModel
	ReferrerID     uint `gorm:"index;type:bigint unsigned;not null" json:"referrerId"`
	ReferredUserID uint `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"referredUserId"`
	MedalsEarned   int  `gorm:"default:0" json:"medalsEarned"`
}

func (Referral) TableName() string {
	return "referrals"
}

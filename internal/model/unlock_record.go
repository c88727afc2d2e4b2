package model

// UnlockRecord 首次解锁台账：每个 (用户, 物品) 至多一行，
// 与库存数量是两个独立概念（库存允许重复持有）
type UnlockRecord struct {
	BaseModel
	UserID uint `gorm:"uniqueIndex:idx_unlock_user_item;type:bigint unsigned;not null" json:"userId"`
	ItemID uint `gorm:"uniqueIndex:idx_unlock_user_item;type:bigint unsigned;not null" json:"itemId"`
}

func (UnlockRecord) TableName() string {
	return "unlock_records"
}
